package stream

import (
	"sync"

	"github.com/incluscore/incluscore/pkg/metrics"
)

// Feed is a latest-wins hand-off between the scoring loop and the
// connection writer. It never buffers more than one pending result: when a
// new result lands before the previous one was written, the stale one is
// replaced, since it no longer reflects the client's latest vector.
type Feed struct {
	mu      sync.Mutex
	pending chan any
	closed  bool
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{
		pending: make(chan any, 1),
	}
}

// Offer queues v for delivery, replacing any stale pending value. Returns
// false once the feed is closed.
func (f *Feed) Offer(v any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}

	select {
	case f.pending <- v:
	default:
		// Drain the stale value, then queue the fresh one.
		select {
		case <-f.pending:
			metrics.RecordStreamDroppedResult()
		default:
		}
		f.pending <- v
	}
	return true
}

// Updates returns the delivery channel. It is closed by Close once drained.
func (f *Feed) Updates() <-chan any {
	return f.pending
}

// Close stops the feed. Pending values are still delivered.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	close(f.pending)
}
