package repository

import (
	"context"
	"fmt"

	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/model"
)

// demoStates are the profiles seeded for demo deployments: a gig worker
// with a solid bill history, a salaried worker with a strong all-round
// profile, and a student with a thin one.
var demoStates = []model.UserFinancialState{
	{
		UserID:     "demo-raj",
		Name:       "Raj Kumar",
		City:       "Mumbai",
		Occupation: "Gig Worker (Delivery)",
		Features: feature.Vector{
			UPITransactions:          45,
			AvgTransactionAmount:     320.0,
			BillPaymentsOnTime:       18,
			MobileRechargeRegularity: 0.85,
			SavingsPattern:           0.40,
		},
	},
	{
		UserID:     "demo-priya",
		Name:       "Priya Sharma",
		City:       "Bengaluru",
		Occupation: "Salaried - Retail Worker",
		Features: feature.Vector{
			UPITransactions:          92,
			AvgTransactionAmount:     850.0,
			BillPaymentsOnTime:       23,
			MobileRechargeRegularity: 0.96,
			SavingsPattern:           0.72,
		},
	},
	{
		UserID:     "demo-amit",
		Name:       "Amit Patel",
		City:       "Ahmedabad",
		Occupation: "Student / Part-time Worker",
		Features: feature.Vector{
			UPITransactions:          20,
			AvgTransactionAmount:     150.0,
			BillPaymentsOnTime:       8,
			MobileRechargeRegularity: 0.60,
			SavingsPattern:           0.22,
		},
	},
}

// SeedDemoUsers writes the demo profiles into the store, skipping users
// that already exist so a restart never clobbers simulated progress.
func SeedDemoUsers(ctx context.Context, store Store) error {
	for _, state := range demoStates {
		if _, err := store.LoadState(ctx, state.UserID); err == nil {
			continue
		}
		if err := store.SaveState(ctx, state); err != nil {
			return fmt.Errorf("seed user %s: %w", state.UserID, err)
		}
	}
	return nil
}
