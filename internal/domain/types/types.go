// Package types contains common types used across the application
package types

import (
	"github.com/incluscore/incluscore/internal/domain/band"
	"github.com/incluscore/incluscore/internal/domain/explain"
)

// ScoreResult is the immutable outcome of one scoring call. It is built
// fresh per request and never mutated afterwards.
type ScoreResult struct {
	CreditScore          int             `json:"creditScore"`
	Confidence           float64         `json:"confidence"`
	RiskBand             band.Band       `json:"riskBand"`
	LenderRecommendation band.Decision   `json:"lenderRecommendation"`
	Factors              explain.Factors `json:"factors"`
	Recommendations      []string        `json:"recommendations"`
}

// SimulationResult reports one simulated positive event for a stored user.
type SimulationResult struct {
	UserID               string          `json:"userId"`
	EventID              string          `json:"eventId"`
	NewScore             int             `json:"newScore"`
	Delta                int             `json:"delta"`
	Confidence           float64         `json:"confidence"`
	RiskBand             band.Band       `json:"riskBand"`
	LenderRecommendation band.Decision   `json:"lenderRecommendation"`
	Factors              explain.Factors `json:"factors"`
	Message              string          `json:"message"`
}
