package probe

import (
	"context"
	"fmt"
	"math"

	"github.com/incluscore/incluscore/pkg/logger"
)

// Scoring contract constants the probe checks against.
const (
	minScore           = 300
	maxScore           = 900
	factorSumTolerance = 0.5
	maxRecommendations = 3
)

// bandFor returns the expected risk band for a score.
func bandFor(score int) string {
	switch {
	case score >= 750:
		return "Excellent"
	case score >= 650:
		return "Good"
	case score >= 550:
		return "Fair"
	default:
		return "Poor"
	}
}

// decisionFor returns the expected lender recommendation for a band.
func decisionFor(band string) string {
	switch band {
	case "Excellent", "Good":
		return "APPROVE"
	case "Fair":
		return "REVIEW"
	default:
		return "DENY"
	}
}

// verifyOutcomes checks every scored profile against the scoring contract.
func verifyOutcomes(ctx context.Context, outcomes map[string]Outcome, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "verifying outcomes", logger.Int("count", len(outcomes)))

	failures := 0
	for id, outcome := range outcomes {
		if err := checkOutcome(outcome); err != nil {
			failures++
			log.Warn(ctx, "invariant violated",
				logger.String("profileID", id),
				logger.Error(err))
		}
	}

	stats.InvariantFailures += failures
	if failures > 0 {
		return fmt.Errorf("%d of %d outcomes violated the scoring contract", failures, len(outcomes))
	}

	log.Info(ctx, "all outcomes satisfy the scoring contract")
	return nil
}

// checkOutcome validates a single outcome against the contract.
func checkOutcome(o Outcome) error {
	if o.CreditScore < minScore || o.CreditScore > maxScore {
		return fmt.Errorf("score %d outside [%d, %d]", o.CreditScore, minScore, maxScore)
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("confidence %.4f outside [0, 1]", o.Confidence)
	}
	if want := bandFor(o.CreditScore); o.RiskBand != want {
		return fmt.Errorf("band %q does not match score %d (want %q)", o.RiskBand, o.CreditScore, want)
	}
	if want := decisionFor(o.RiskBand); o.LenderRecommendation != want {
		return fmt.Errorf("recommendation %q does not match band %q (want %q)", o.LenderRecommendation, o.RiskBand, want)
	}
	if len(o.Recommendations) > maxRecommendations {
		return fmt.Errorf("%d recommendations exceeds limit %d", len(o.Recommendations), maxRecommendations)
	}

	sum := 0.0
	for name, pct := range o.Factors {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("factor %q percent %.2f outside [0, 100]", name, pct)
		}
		sum += pct
	}
	if math.Abs(sum-100) > factorSumTolerance {
		return fmt.Errorf("factor percentages sum to %.2f, want 100 within %.1f", sum, factorSumTolerance)
	}

	return nil
}

// verifyDeterminism re-scores a sample of profiles and requires identical
// outcomes on every resubmission.
func verifyDeterminism(ctx context.Context, config *Config, profiles []Profile, outcomes map[string]Outcome, stats *Stats) error {
	if config.Resubmits <= 0 {
		return nil
	}

	log := logger.Get()
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/score"

	checked := 0
	failures := 0
	for _, profile := range profiles {
		if checked >= config.Resubmits {
			break
		}
		first, ok := outcomes[profile.ID]
		if !ok {
			continue
		}
		checked++

		second, status := scoreSingleProfile(ctx, client, url, profile)
		if status != "success" {
			failures++
			continue
		}
		if !sameOutcome(first, second) {
			failures++
			log.Warn(ctx, "non-deterministic outcome",
				logger.String("profileID", profile.ID),
				logger.Int("firstScore", first.CreditScore),
				logger.Int("secondScore", second.CreditScore))
		}
	}

	stats.InvariantFailures += failures
	if failures > 0 {
		return fmt.Errorf("%d of %d resubmitted profiles scored differently", failures, checked)
	}

	log.Info(ctx, "determinism verified", logger.Int("resubmitted", checked))
	return nil
}

// sameOutcome reports whether two outcomes are identical.
func sameOutcome(a, b Outcome) bool {
	if a.CreditScore != b.CreditScore || a.Confidence != b.Confidence ||
		a.RiskBand != b.RiskBand || a.LenderRecommendation != b.LenderRecommendation {
		return false
	}
	if len(a.Factors) != len(b.Factors) || len(a.Recommendations) != len(b.Recommendations) {
		return false
	}
	for name, pct := range a.Factors {
		if b.Factors[name] != pct {
			return false
		}
	}
	for i, rec := range a.Recommendations {
		if b.Recommendations[i] != rec {
			return false
		}
	}
	return true
}
