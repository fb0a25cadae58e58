// Package explain normalizes raw per-feature importances into the
// percentage breakdown reported to callers.
package explain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/incluscore/incluscore/internal/domain/feature"
)

// Contributions are kept at one decimal place, matching the precision
// lenders see in the factor breakdown.
const roundingScale = 10

// Factor is one feature's share of the score, in percent.
type Factor struct {
	Name    feature.Name
	Percent float64
}

// Factors is the ranked breakdown, largest contribution first. The order is
// part of the contract, so it serializes as an ordered JSON object.
type Factors []Factor

// Normalize converts raw importances (arbitrary positive scale) into
// percentages summing to 100, sorted descending. Every known feature
// appears even at zero contribution; features tied on contribution keep the
// canonical feature order. An all-zero input yields an even split so the
// total still reads 100.
func Normalize(importances map[feature.Name]float64) Factors {
	order := feature.CanonicalOrder()

	total := 0.0
	for _, n := range order {
		if imp := importances[n]; imp > 0 {
			total += imp
		}
	}

	out := make(Factors, 0, len(order))
	for _, n := range order {
		pct := 100.0 / float64(len(order))
		if total > 0 {
			imp := math.Max(0, importances[n])
			pct = round1(imp / total * 100)
		}
		out = append(out, Factor{Name: n, Percent: pct})
	}

	// Stable sort preserves the canonical order for equal contributions.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	return out
}

// Percent returns the contribution recorded for a feature, or zero when the
// feature is unknown.
func (f Factors) Percent(n feature.Name) float64 {
	for _, fac := range f {
		if fac.Name == n {
			return fac.Percent
		}
	}
	return 0
}

// Total returns the sum of all contributions. Rounding keeps it within 0.5
// of 100.
func (f Factors) Total() float64 {
	t := 0.0
	for _, fac := range f {
		t += fac.Percent
	}
	return t
}

// MarshalJSON writes the factors as a JSON object whose keys appear in
// ranked order. Go maps would scramble the ranking, so the object is built
// by hand.
func (f Factors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fac := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(fac.Name))
		if err != nil {
			return nil, fmt.Errorf("marshal factor name: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%g", fac.Percent)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores factors from the object form. Key order inside a
// decoded map is not recoverable, so entries are re-ranked by contribution.
func (f *Factors) UnmarshalJSON(data []byte) error {
	var m map[feature.Name]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshal factors: %w", err)
	}
	out := make(Factors, 0, len(m))
	for _, n := range feature.CanonicalOrder() {
		if pct, ok := m[n]; ok {
			out = append(out, Factor{Name: n, Percent: pct})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	*f = out
	return nil
}

// round1 rounds to one decimal place. Dividing by the scale rather than
// multiplying by 0.1 keeps the result on the representable grid, so values
// like 12.1 serialize without float noise.
func round1(v float64) float64 {
	return math.Round(v*roundingScale) / roundingScale
}
