// Package advice derives ranked, actionable guidance from the weakest
// behavioral signals in a scored profile.
package advice

import (
	"fmt"
	"math"
	"sort"

	"github.com/incluscore/incluscore/internal/domain/explain"
	"github.com/incluscore/incluscore/internal/domain/feature"
)

// maxRecommendations caps the advisory list. Fewer are returned when fewer
// features are actually weak; the list is never padded with generic advice.
const maxRecommendations = 3

// Health thresholds. A feature at or above its threshold is considered
// strong and never generates a recommendation.
const (
	healthyBillRatio    = 0.9
	healthySavings      = 0.6
	healthyRecharge     = 0.8
	healthyUPIVolume    = 30
	healthyTxAmount     = 200.0
	rechargeUpside      = 150.0
	savingsUpside       = 180.0
	billPointsPerPeriod = 12.0
	upiUpsideCap        = 50.0
	upiPointsPerTx      = 0.5
	amountUpsideCap     = 30.0
	amountPointsPerUnit = 0.02
)

// rule ties a feature to its weakness test, its estimated point headroom,
// and the advisory text. Headroom estimates mirror the trained model
// weights so the claimed ranges stay bounded and honest.
type rule struct {
	name      feature.Name
	applies   func(v feature.Vector) bool
	potential func(v feature.Vector) float64
	message   func(points int) string
}

var rules = []rule{
	{
		name:    feature.BillPaymentHistory,
		applies: func(v feature.Vector) bool { return v.BillPaymentRatio() < healthyBillRatio },
		potential: func(v feature.Vector) float64 {
			return float64(feature.MaxBillPaymentWindows-v.BillPaymentsOnTime) * billPointsPerPeriod
		},
		message: func(points int) string {
			return fmt.Sprintf("Set up auto-pay for utility bills: consistent on-time payments could add up to %d points over the 24-month window.", points)
		},
	},
	{
		name:    feature.SavingsBehavior,
		applies: func(v feature.Vector) bool { return v.SavingsPattern < healthySavings },
		potential: func(v feature.Vector) float64 {
			return (1 - v.SavingsPattern) * savingsUpside
		},
		message: func(points int) string {
			return fmt.Sprintf("Save a small amount every month: a steady savings pattern could add up to %d points to your score.", points)
		},
	},
	{
		name:    feature.RechargeRegularity,
		applies: func(v feature.Vector) bool { return v.MobileRechargeRegularity < healthyRecharge },
		potential: func(v feature.Vector) float64 {
			return (1 - v.MobileRechargeRegularity) * rechargeUpside
		},
		message: func(points int) string {
			return fmt.Sprintf("Keep a monthly mobile recharge plan: regular recharges signal stability and could add up to %d points.", points)
		},
	},
	{
		name:    feature.TransactionVolume,
		applies: func(v feature.Vector) bool { return v.UPITransactions < healthyUPIVolume },
		potential: func(v feature.Vector) float64 {
			return upiUpsideCap - math.Min(float64(v.UPITransactions)*upiPointsPerTx, upiUpsideCap)
		},
		message: func(points int) string {
			return fmt.Sprintf("Use UPI for everyday purchases: a growing digital payment footprint could add up to %d points.", points)
		},
	},
	{
		name:    feature.TransactionValue,
		applies: func(v feature.Vector) bool { return v.AvgTransactionAmount < healthyTxAmount },
		potential: func(v feature.Vector) float64 {
			return amountUpsideCap - math.Min(v.AvgTransactionAmount*amountPointsPerUnit, amountUpsideCap)
		},
		message: func(points int) string {
			return fmt.Sprintf("Increase transaction sizes gradually as income grows: higher average values could add up to %d points.", points)
		},
	},
}

// Generate returns up to three advisories for features below their health
// thresholds, ordered by estimated score-improvement potential. Factors
// break ties: of two equal upsides, the weaker contributor ranks first.
func Generate(v feature.Vector, factors explain.Factors) []string {
	type candidate struct {
		points  int
		percent float64
		text    string
	}

	cands := make([]candidate, 0, len(rules))
	for _, r := range rules {
		if !r.applies(v) {
			continue
		}
		points := int(math.Round(r.potential(v)))
		if points <= 0 {
			continue
		}
		cands = append(cands, candidate{
			points:  points,
			percent: factors.Percent(r.name),
			text:    r.message(points),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].points != cands[j].points {
			return cands[i].points > cands[j].points
		}
		return cands[i].percent < cands[j].percent
	})

	if len(cands) > maxRecommendations {
		cands = cands[:maxRecommendations]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.text
	}
	return out
}
