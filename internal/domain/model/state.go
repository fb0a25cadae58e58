// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/incluscore/incluscore/internal/domain/feature"
)

// UserFinancialState is one user's stored behavioral profile plus the last
// score computed for it. The incremental simulator reads and rewrites this
// record atomically; nothing else mutates it.
type UserFinancialState struct {
	UserID     string         `json:"userId"`
	Name       string         `json:"name,omitempty"`
	City       string         `json:"city,omitempty"`
	Occupation string         `json:"occupation,omitempty"`
	Features   feature.Vector `json:"features"`

	// CreditScore is the last known score, or zero when the user has
	// never been scored.
	CreditScore int       `json:"creditScore,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Scored reports whether the user has a recorded baseline score.
func (s UserFinancialState) Scored() bool {
	return s.CreditScore != 0
}
