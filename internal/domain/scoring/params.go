package scoring

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/incluscore/incluscore/internal/domain/feature"
)

// defaultModelJSON is the parameter set shipped with the binary, produced by
// the offline training pipeline.
//
//go:embed model.json
var defaultModelJSON []byte

// Term holds the trained coefficients for one feature. A zero cap means the
// term is uncapped.
type Term struct {
	// Weight scales the feature value's score contribution.
	Weight float64 `json:"weight"`
	// Cap bounds the score contribution of high-volume features.
	Cap float64 `json:"cap,omitempty"`
	// ImportanceWeight scales the feature's attribution mass.
	ImportanceWeight float64 `json:"importanceWeight"`
	// ImportanceCap bounds the attribution mass, mirroring Cap.
	ImportanceCap float64 `json:"importanceCap,omitempty"`
}

// ConfidenceParams tunes the boundary-distance confidence proxy. These are
// empirically chosen constants, not derived quantities.
type ConfidenceParams struct {
	Floor            float64 `json:"floor"`
	Ceiling          float64 `json:"ceiling"`
	SaturationPoints int     `json:"saturationPoints"`
}

// Params is one trained parameter set for the additive regressor.
type Params struct {
	Version    string                `json:"version"`
	Intercept  float64               `json:"intercept"`
	Terms      map[feature.Name]Term `json:"terms"`
	Confidence ConfidenceParams      `json:"confidence"`
}

// DefaultParams parses the embedded parameter set.
func DefaultParams() (Params, error) {
	var p Params
	if err := json.Unmarshal(defaultModelJSON, &p); err != nil {
		return Params{}, fmt.Errorf("%w: embedded model: %w", ErrLoadParams, err)
	}
	return p, nil
}

// LoadParamsFile reads a parameter document from disk, for deployments that
// retrain without rebuilding the binary.
func LoadParamsFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("%w: %w", ErrLoadParams, err)
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("%w: %s: %w", ErrLoadParams, path, err)
	}
	return p, nil
}

// score returns the feature's capped score contribution.
func (p *Params) score(n feature.Name, value float64) float64 {
	t := p.Terms[n]
	c := t.Weight * value
	if t.Cap > 0 && c > t.Cap {
		c = t.Cap
	}
	return c
}

// importance returns the feature's capped attribution mass.
func (p *Params) importance(n feature.Name, value float64) float64 {
	t := p.Terms[n]
	c := t.ImportanceWeight * value
	if t.ImportanceCap > 0 && c > t.ImportanceCap {
		c = t.ImportanceCap
	}
	return c
}

// validate rejects parameter sets that would break scoring invariants.
// Non-negative weights keep the regressor monotone non-decreasing in every
// feature, which the incremental simulator relies on for delta >= 0.
func (p Params) validate() error {
	for _, n := range feature.CanonicalOrder() {
		t, ok := p.Terms[n]
		if !ok {
			return fmt.Errorf("missing term for feature %q", n)
		}
		if t.Weight < 0 || t.ImportanceWeight < 0 {
			return fmt.Errorf("negative weight for feature %q", n)
		}
		if t.Cap < 0 || t.ImportanceCap < 0 {
			return fmt.Errorf("negative cap for feature %q", n)
		}
	}
	c := p.Confidence
	if c.Floor < 0 || c.Ceiling > 1 || c.Floor > c.Ceiling {
		return fmt.Errorf("confidence range [%g, %g] outside [0, 1]", c.Floor, c.Ceiling)
	}
	if c.SaturationPoints <= 0 {
		return fmt.Errorf("confidence saturation must be positive, got %d", c.SaturationPoints)
	}
	return nil
}
