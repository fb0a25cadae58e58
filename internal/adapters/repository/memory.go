package repository

import (
	"context"
	"sync"
	"time"

	"github.com/incluscore/incluscore/internal/domain/model"
)

// MemoryStore implements Store with an in-process map. It is the default
// backend when no Redis URL is configured, mirroring a development or demo
// deployment.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]model.UserFinancialState
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]model.UserFinancialState),
	}
}

// LoadState returns the stored state for a user.
func (s *MemoryStore) LoadState(ctx context.Context, userID string) (model.UserFinancialState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return model.UserFinancialState{}, ErrUnavailable
	}
	state, ok := s.states[userID]
	if !ok {
		return model.UserFinancialState{}, ErrNotFound
	}
	return state, nil
}

// SaveState persists the state as the user's new baseline.
func (s *MemoryStore) SaveState(ctx context.Context, state model.UserFinancialState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrUnavailable
	}
	state.UpdatedAt = time.Now().UTC()
	s.states[state.UserID] = state
	return nil
}

// Healthy reports whether the store accepts operations.
func (s *MemoryStore) Healthy(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Count returns the number of users tracked.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Close marks the store unavailable. Subsequent calls fail with
// ErrUnavailable rather than reading torn state.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
