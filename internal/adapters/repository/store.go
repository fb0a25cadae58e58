// Package repository defines the user financial state store and errors.
package repository

import (
	"context"

	"github.com/incluscore/incluscore/internal/domain/model"
)

// Store provides read/write access to per-user financial state. The core
// treats every call as fallible and never retries; unavailability surfaces
// to callers as ErrUnavailable.
type Store interface {
	// LoadState returns the stored state for a user.
	// Returns ErrNotFound if the user is unknown.
	LoadState(ctx context.Context, userID string) (model.UserFinancialState, error)

	// SaveState persists the state as the user's new baseline.
	SaveState(ctx context.Context, state model.UserFinancialState) error

	// Healthy reports whether the backing storage is reachable.
	Healthy(ctx context.Context) bool

	// Count returns the number of users tracked in the store.
	Count(ctx context.Context) int
}
