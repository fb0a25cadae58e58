package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	repository "github.com/incluscore/incluscore/internal/adapters/repository"
	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/types"
	"github.com/incluscore/incluscore/pkg/logger"
	"github.com/incluscore/incluscore/pkg/metrics"
)

// SimulationSteps holds the fixed positive perturbation constants. The
// values are tunable configuration, not invariants; they only need to stay
// non-negative so the simulated event can never lower a score.
type SimulationSteps struct {
	UPI      int
	Bill     int
	Recharge float64
	Savings  float64
}

// DefaultSimulationSteps returns the shipped perturbation constants.
func DefaultSimulationSteps() SimulationSteps {
	return SimulationSteps{
		UPI:      1,
		Bill:     1,
		Recharge: 0.02,
		Savings:  0.03,
	}
}

func (st SimulationSteps) positive() bool {
	return st.UPI > 0 || st.Bill > 0 || st.Recharge > 0 || st.Savings > 0
}

// Simulate applies one deterministic positive event to the user's stored
// vector, re-scores it, and persists the result as the new baseline. Calls
// for the same user are serialized; different users run independently.
func (s *Service) Simulate(ctx context.Context, userID string) (types.SimulationResult, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.store.LoadState(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			metrics.RecordStorageError()
		}
		return types.SimulationResult{}, err
	}

	// Users seeded without a score get their baseline from the current
	// vector, so the reported delta reflects only the simulated event.
	previous := state.CreditScore
	if !state.Scored() {
		base, err := s.scoreValidated(ctx, state.Features)
		if err != nil {
			return types.SimulationResult{}, err
		}
		previous = base.CreditScore
	}

	perturbed, event := applyPerturbation(state.Features, s.steps)

	result, err := s.scoreValidated(ctx, perturbed)
	if err != nil {
		return types.SimulationResult{}, err
	}

	delta := result.CreditScore - previous
	if delta < 0 {
		// Unreachable while model weights stay non-negative; kept as a
		// guard so a bad parameter set cannot report a penalty for a
		// positive event.
		delta = 0
	}

	state.Features = perturbed
	state.CreditScore = result.CreditScore
	if err := s.store.SaveState(ctx, state); err != nil {
		metrics.RecordStorageError()
		return types.SimulationResult{}, fmt.Errorf("persist new baseline: %w", err)
	}

	metrics.RecordSimulation(delta)
	s.logger.Debug(ctx, "simulated positive event",
		logger.String("userID", userID),
		logger.String("event", event),
		logger.Int("delta", delta),
	)

	return types.SimulationResult{
		UserID:               userID,
		EventID:              uuid.New().String(),
		NewScore:             result.CreditScore,
		Delta:                delta,
		Confidence:           result.Confidence,
		RiskBand:             result.RiskBand,
		LenderRecommendation: result.LenderRecommendation,
		Factors:              result.Factors,
		Message:              simulationMessage(event, delta),
	}, nil
}

// applyPerturbation bumps exactly one feature: the first step in the fixed
// order (UPI, bill, recharge, savings) whose feature still has headroom.
// A vector with every feature at its cap comes back unchanged.
func applyPerturbation(v feature.Vector, steps SimulationSteps) (feature.Vector, string) {
	switch {
	case steps.UPI > 0 && v.UPITransactions < feature.MaxUPITransactions:
		v.UPITransactions = minInt(v.UPITransactions+steps.UPI, feature.MaxUPITransactions)
		return v, "New UPI transaction detected!"
	case steps.Bill > 0 && v.BillPaymentsOnTime < feature.MaxBillPaymentWindows:
		v.BillPaymentsOnTime = minInt(v.BillPaymentsOnTime+steps.Bill, feature.MaxBillPaymentWindows)
		return v, "New on-time bill payment recorded!"
	case steps.Recharge > 0 && v.MobileRechargeRegularity < 1:
		v.MobileRechargeRegularity = minFloat(v.MobileRechargeRegularity+steps.Recharge, 1)
		return v, "Mobile recharge regularity improved!"
	case steps.Savings > 0 && v.SavingsPattern < 1:
		v.SavingsPattern = minFloat(v.SavingsPattern+steps.Savings, 1)
		return v, "New savings activity recorded!"
	default:
		return v, "Profile already at its ceiling."
	}
}

func simulationMessage(event string, delta int) string {
	if delta == 0 {
		return fmt.Sprintf("%s Score unchanged.", event)
	}
	return fmt.Sprintf("%s Score improved by +%d points.", event, delta)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
