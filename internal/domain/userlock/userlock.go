// Package userlock serializes stateful operations per user identifier.
//
// The simulator's read-modify-write cycle must not interleave for the same
// user, while different users proceed independently. A sharded registry of
// reference-counted mutexes gives per-key exclusion without a global lock
// and without the lock table growing with the user population.
package userlock

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// defaultShardCount spreads registry contention across buckets.
const defaultShardCount = 16

// Registry hands out one mutex per active user id.
type Registry struct {
	shards []shard
	held   atomic.Int64
}

type shard struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates a registry with configuration options.
func New(opts ...Option) *Registry {
	r := &Registry{}
	count := defaultShardCount
	for _, opt := range opts {
		opt(&count)
	}
	r.shards = make([]shard, count)
	for i := range r.shards {
		r.shards[i].locks = make(map[string]*entry)
	}
	return r
}

// Option applies a configuration option to the Registry.
type Option func(*int)

// WithShardCount sets the number of registry shards.
func WithShardCount(count int) Option {
	return func(c *int) {
		if count > 0 {
			*c = count
		}
	}
}

// Lock acquires the mutex for id, blocking while another caller holds it.
func (r *Registry) Lock(id string) {
	s := r.shard(id)

	s.mu.Lock()
	e, ok := s.locks[id]
	if !ok {
		e = &entry{}
		s.locks[id] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	r.held.Add(1)
}

// Unlock releases the mutex for id. The entry is dropped from the table
// once no goroutine is waiting on it.
func (r *Registry) Unlock(id string) {
	s := r.shard(id)

	s.mu.Lock()
	e, ok := s.locks[id]
	if !ok {
		s.mu.Unlock()
		panic("userlock: unlock of unheld id " + id)
	}
	e.refs--
	if e.refs == 0 {
		delete(s.locks, id)
	}
	s.mu.Unlock()

	r.held.Add(-1)
	e.mu.Unlock()
}

// Held returns the number of currently held user locks.
func (r *Registry) Held() int64 {
	return r.held.Load()
}

func (r *Registry) shard(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &r.shards[int(h.Sum32())%len(r.shards)]
}
