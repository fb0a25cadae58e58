package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/incluscore/incluscore/internal/adapters/repository"
	app "github.com/incluscore/incluscore/internal/app"
	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulate(t *testing.T) {
	Convey("Given a started service with a stored user", t, func() {
		store := repository.NewMemoryStore()
		svc := startedService(app.WithStore(store))
		ctx := context.Background()

		seed := model.UserFinancialState{
			UserID: "user-1",
			Features: feature.Vector{
				BillPaymentsOnTime: 10,
				SavingsPattern:     0.5,
			},
		}
		So(store.SaveState(ctx, seed), ShouldBeNil)

		Convey("When a positive event is simulated for an unscored user", func() {
			result, err := svc.Simulate(ctx, "user-1")
			So(err, ShouldBeNil)

			Convey("Then the UPI count is bumped first and the delta is isolated", func() {
				// Baseline 510 from the stored vector, plus half a point
				// from the new transaction, rounds up to 511.
				So(result.UserID, ShouldEqual, "user-1")
				So(result.NewScore, ShouldEqual, 511)
				So(result.Delta, ShouldEqual, 1)
				So(result.EventID, ShouldNotBeEmpty)
				So(result.Message, ShouldContainSubstring, "New UPI transaction detected!")
				So(result.Message, ShouldContainSubstring, "+1 points")
			})

			Convey("And the new baseline is persisted", func() {
				state, err := store.LoadState(ctx, "user-1")
				So(err, ShouldBeNil)
				So(state.Features.UPITransactions, ShouldEqual, 1)
				So(state.CreditScore, ShouldEqual, 511)
				So(state.Scored(), ShouldBeTrue)
			})

			Convey("And the next event builds on the stored baseline", func() {
				second, err := svc.Simulate(ctx, "user-1")
				So(err, ShouldBeNil)
				So(second.NewScore, ShouldBeGreaterThanOrEqualTo, result.NewScore)
				So(second.Delta, ShouldEqual, second.NewScore-result.NewScore)
			})
		})

		Convey("When the delta would be fractional", func() {
			result, err := svc.Simulate(ctx, "user-1")
			So(err, ShouldBeNil)
			second, err := svc.Simulate(ctx, "user-1")
			So(err, ShouldBeNil)

			Convey("Then the reported delta never goes negative", func() {
				So(result.Delta, ShouldBeGreaterThanOrEqualTo, 0)
				So(second.Delta, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When the same user is simulated concurrently", func() {
			const events = 10
			var wg sync.WaitGroup
			errs := make([]error, events)
			for i := 0; i < events; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					_, errs[n] = svc.Simulate(ctx, "user-1")
				}(i)
			}
			wg.Wait()

			Convey("Then every event lands exactly once", func() {
				for _, err := range errs {
					So(err, ShouldBeNil)
				}
				state, err := store.LoadState(ctx, "user-1")
				So(err, ShouldBeNil)
				So(state.Features.UPITransactions, ShouldEqual, events)
			})
		})

		Convey("When the user is unknown", func() {
			_, err := svc.Simulate(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When storage has gone away", func() {
			So(store.Close(), ShouldBeNil)
			_, err := svc.Simulate(ctx, "user-1")
			So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a user whose transaction count is at its bound", t, func() {
		store := repository.NewMemoryStore()
		svc := startedService(app.WithStore(store))
		ctx := context.Background()

		So(store.SaveState(ctx, model.UserFinancialState{
			UserID: "capped-upi",
			Features: feature.Vector{
				UPITransactions:    feature.MaxUPITransactions,
				BillPaymentsOnTime: 5,
			},
		}), ShouldBeNil)

		Convey("When a positive event is simulated", func() {
			result, err := svc.Simulate(ctx, "capped-upi")
			So(err, ShouldBeNil)

			Convey("Then the next feature with headroom takes the event", func() {
				So(result.Message, ShouldContainSubstring, "bill payment")

				state, err := store.LoadState(ctx, "capped-upi")
				So(err, ShouldBeNil)
				So(state.Features.UPITransactions, ShouldEqual, feature.MaxUPITransactions)
				So(state.Features.BillPaymentsOnTime, ShouldEqual, 6)
			})
		})
	})

	Convey("Given a user with every feature at its ceiling", t, func() {
		store := repository.NewMemoryStore()
		svc := startedService(app.WithStore(store))
		ctx := context.Background()

		So(store.SaveState(ctx, model.UserFinancialState{
			UserID: "maxed",
			Features: feature.Vector{
				UPITransactions:          feature.MaxUPITransactions,
				AvgTransactionAmount:     20000.0,
				BillPaymentsOnTime:       feature.MaxBillPaymentWindows,
				MobileRechargeRegularity: 1,
				SavingsPattern:           1,
			},
		}), ShouldBeNil)

		Convey("When a positive event is simulated", func() {
			result, err := svc.Simulate(ctx, "maxed")
			So(err, ShouldBeNil)

			Convey("Then the vector is unchanged and the delta is zero", func() {
				So(result.NewScore, ShouldEqual, 900)
				So(result.Delta, ShouldEqual, 0)
				So(result.Message, ShouldContainSubstring, "already at its ceiling")
				So(result.Message, ShouldContainSubstring, "Score unchanged")
			})
		})
	})

	Convey("Given custom simulation steps", t, func() {
		store := repository.NewMemoryStore()
		svc := startedService(
			app.WithStore(store),
			app.WithSimulationSteps(app.SimulationSteps{Bill: 2}),
		)
		ctx := context.Background()

		So(store.SaveState(ctx, model.UserFinancialState{
			UserID:   "bill-only",
			Features: feature.Vector{BillPaymentsOnTime: 10},
		}), ShouldBeNil)

		Convey("When simulated with only the bill step enabled", func() {
			result, err := svc.Simulate(ctx, "bill-only")
			So(err, ShouldBeNil)

			Convey("Then the bill count advances by the configured step", func() {
				So(result.Message, ShouldContainSubstring, "bill payment")

				state, err := store.LoadState(ctx, "bill-only")
				So(err, ShouldBeNil)
				So(state.Features.BillPaymentsOnTime, ShouldEqual, 12)
				So(state.Features.UPITransactions, ShouldEqual, 0)
			})
		})
	})
}
