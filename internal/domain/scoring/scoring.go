// Package scoring maps a validated feature vector to a raw credit score and
// per-feature importances using a pretrained statistical model.
//
// The model is a capability, not a concrete algorithm: anything implementing
// Model can back the scoring pipeline. The shipped implementation is a
// weighted additive regressor whose parameters are trained offline and
// loaded from a JSON document (an embedded default ships with the binary).
package scoring

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/incluscore/incluscore/internal/domain/band"
	"github.com/incluscore/incluscore/internal/domain/feature"
)

// Credit score bounds.
const (
	MinScore = 300
	MaxScore = 900
)

// Prediction is the raw model output for one vector.
type Prediction struct {
	// RawScore is the unclamped regressor output.
	RawScore float64

	// Importances carries the non-negative raw contribution of each
	// feature. Every feature appears, even at zero.
	Importances map[feature.Name]float64

	// Confidence is the model certainty estimate in [0, 1].
	Confidence float64
}

// CreditScore clamps and rounds the raw output into the reportable range.
func (p Prediction) CreditScore() int {
	return ClampScore(p.RawScore)
}

// ClampScore converts a raw regressor output to a credit score in
// [MinScore, MaxScore].
func ClampScore(raw float64) int {
	return int(math.Round(math.Min(MaxScore, math.Max(MinScore, raw))))
}

// Model is the pretrained regressor capability. Implementations must be
// deterministic for identical input and safe for concurrent use.
type Model interface {
	// Predict computes the raw score and per-feature importances.
	// Returns ErrModelNotReady when no parameter set is loaded.
	Predict(ctx context.Context, v feature.Vector) (Prediction, error)

	// Ready reports whether the model can serve predictions.
	Ready() bool
}

// PretrainedModel implements Model with a weighted additive regressor.
// Parameters are swapped atomically, so Predict never observes a
// half-loaded model.
type PretrainedModel struct {
	params atomic.Pointer[Params]
}

// NewPretrainedModel creates a model with the given options. Without
// WithParams the model starts unloaded and Predict fails until Load is
// called.
func NewPretrainedModel(opts ...Option) *PretrainedModel {
	m := &PretrainedModel{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load validates and installs a parameter set. Safe to call while serving;
// in-flight predictions keep the parameters they started with.
func (m *PretrainedModel) Load(p Params) error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	m.params.Store(&p)
	return nil
}

// Ready reports whether a parameter set is loaded.
func (m *PretrainedModel) Ready() bool {
	return m.params.Load() != nil
}

// Predict computes the raw score, importances, and confidence for v.
func (m *PretrainedModel) Predict(ctx context.Context, v feature.Vector) (Prediction, error) {
	p := m.params.Load()
	if p == nil {
		return Prediction{}, ErrModelNotReady
	}
	if err := ctx.Err(); err != nil {
		return Prediction{}, fmt.Errorf("predict cancelled: %w", err)
	}

	raw := p.Intercept
	imps := make(map[feature.Name]float64, len(p.Terms))
	for _, n := range feature.CanonicalOrder() {
		value := featureValue(v, n)
		raw += p.score(n, value)
		imps[n] = p.importance(n, value)
	}

	score := ClampScore(raw)
	return Prediction{
		RawScore:    raw,
		Importances: imps,
		Confidence:  p.confidence(score),
	}, nil
}

// featureValue extracts the numeric value of a named feature.
func featureValue(v feature.Vector, n feature.Name) float64 {
	switch n {
	case feature.BillPaymentHistory:
		return float64(v.BillPaymentsOnTime)
	case feature.SavingsBehavior:
		return v.SavingsPattern
	case feature.RechargeRegularity:
		return v.MobileRechargeRegularity
	case feature.TransactionVolume:
		return float64(v.UPITransactions)
	case feature.TransactionValue:
		return v.AvgTransactionAmount
	}
	return 0
}

// confidence derives a certainty proxy from the distance between the score
// and the nearest band boundary: certainty grows linearly with distance and
// saturates at SaturationPoints away from any boundary. The regressor has no
// native variance output, so boundary distance stands in for it.
func (p *Params) confidence(score int) float64 {
	dist := math.MaxFloat64
	for _, boundary := range band.Boundaries() {
		if d := math.Abs(float64(score - boundary)); d < dist {
			dist = d
		}
	}
	span := p.Confidence.Ceiling - p.Confidence.Floor
	sat := float64(p.Confidence.SaturationPoints)
	c := p.Confidence.Floor + span*math.Min(dist, sat)/sat
	return math.Round(c*100) / 100
}
