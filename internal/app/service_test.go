package service_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/incluscore/incluscore/internal/adapters/repository"
	app "github.com/incluscore/incluscore/internal/app"
	"github.com/incluscore/incluscore/internal/domain/band"
	"github.com/incluscore/incluscore/internal/domain/feature"
	"github.com/incluscore/incluscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// startedService builds a service on an in-memory store and the embedded
// model, started and ready.
func startedService(opts ...app.Option) *app.Service {
	svc := app.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New()

		Convey("Then it is not ready before Start", func() {
			So(svc.Ready(), ShouldBeFalse)
		})

		Convey("When started with defaults", func() {
			So(svc.Start(context.Background()), ShouldBeNil)

			Convey("Then it is ready and storage is healthy", func() {
				So(svc.Ready(), ShouldBeTrue)
				So(svc.StorageHealthy(context.Background()), ShouldBeTrue)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
			})

			Convey("And stopping makes it not ready", func() {
				svc.Stop()
				So(svc.Ready(), ShouldBeFalse)
			})
		})
	})
}

func TestServiceScore(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		ctx := context.Background()

		Convey("When scoring a mid-range profile", func() {
			v := feature.Vector{
				UPITransactions:          80,
				AvgTransactionAmount:     250.0,
				BillPaymentsOnTime:       12,
				MobileRechargeRegularity: 0.5,
				SavingsPattern:           0.3,
			}
			result, err := svc.Score(ctx, v)
			So(err, ShouldBeNil)

			Convey("Then the full result is assembled", func() {
				So(result.CreditScore, ShouldEqual, 618)
				So(result.RiskBand, ShouldEqual, band.Fair)
				So(result.LenderRecommendation, ShouldEqual, band.Review)
				So(result.Confidence, ShouldAlmostEqual, 0.85)
			})

			Convey("And the factor breakdown is ranked and complete", func() {
				So(result.Factors, ShouldHaveLength, 5)
				So(result.Factors[0].Name, ShouldEqual, feature.TransactionVolume)
				So(result.Factors.Total(), ShouldBeBetween, 99.5, 100.5)
			})

			Convey("And the weak signals drive the recommendations", func() {
				So(result.Recommendations, ShouldHaveLength, 3)
				So(result.Recommendations[0], ShouldContainSubstring, "auto-pay")
			})
		})

		Convey("When scoring an out-of-range profile", func() {
			v := feature.Vector{UPITransactions: feature.MaxUPITransactions + 1}
			_, err := svc.Score(ctx, v)

			Convey("Then validation rejects it without scoring", func() {
				So(errors.Is(err, feature.ErrOutOfRange), ShouldBeTrue)

				var oor *feature.OutOfRangeError
				So(errors.As(err, &oor), ShouldBeTrue)
				So(oor.Field, ShouldEqual, "upiTransactions")
			})
		})

		Convey("When scoring the same profile twice", func() {
			v := feature.Vector{UPITransactions: 45, BillPaymentsOnTime: 18, SavingsPattern: 0.4}
			first, err := svc.Score(ctx, v)
			So(err, ShouldBeNil)
			second, err := svc.Score(ctx, v)
			So(err, ShouldBeNil)

			Convey("Then the results are identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given a service whose model never loaded", t, func() {
		svc := startedService(app.WithModel(scoring.NewPretrainedModel()))

		Convey("Then it reports not ready", func() {
			So(svc.Ready(), ShouldBeFalse)
		})

		Convey("And scoring fails with the model sentinel", func() {
			_, err := svc.Score(context.Background(), feature.Vector{})
			So(errors.Is(err, scoring.ErrModelNotReady), ShouldBeTrue)
		})
	})
}

func TestServiceScoreReferenceProfiles(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		ctx := context.Background()

		Convey("When scoring a steady bill-payer with modest savings", func() {
			v := feature.Vector{
				UPITransactions:          45,
				AvgTransactionAmount:     320.0,
				BillPaymentsOnTime:       18,
				MobileRechargeRegularity: 0.85,
				SavingsPattern:           0.40,
			}
			result, err := svc.Score(ctx, v)
			So(err, ShouldBeNil)

			Convey("Then the profile lands in the Good band", func() {
				So(result.CreditScore, ShouldEqual, 744)
				So(result.RiskBand, ShouldEqual, band.Good)
				So(result.LenderRecommendation, ShouldEqual, band.Approve)
			})

			Convey("And bill payment history is the largest contributor", func() {
				So(result.Factors[0].Name, ShouldEqual, feature.BillPaymentHistory)
			})
		})

		Convey("When scoring a strong profile across every signal", func() {
			v := feature.Vector{
				UPITransactions:          92,
				AvgTransactionAmount:     850.0,
				BillPaymentsOnTime:       23,
				MobileRechargeRegularity: 0.96,
				SavingsPattern:           0.72,
			}
			result, err := svc.Score(ctx, v)
			So(err, ShouldBeNil)

			Convey("Then the raw score clamps into the Excellent band", func() {
				So(result.CreditScore, ShouldEqual, 900)
				So(result.RiskBand, ShouldEqual, band.Excellent)
				So(result.LenderRecommendation, ShouldEqual, band.Approve)
				So(result.Confidence, ShouldAlmostEqual, 0.99)
			})

			Convey("And nothing is left to recommend", func() {
				So(result.Recommendations, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceGetUser(t *testing.T) {
	Convey("Given a started service with seeded users", t, func() {
		store := repository.NewMemoryStore()
		svc := startedService(app.WithStore(store))
		ctx := context.Background()
		So(repository.SeedDemoUsers(ctx, store), ShouldBeNil)

		Convey("When fetching a seeded user", func() {
			state, err := svc.GetUser(ctx, "demo-priya")

			Convey("Then the stored profile comes back", func() {
				So(err, ShouldBeNil)
				So(state.Name, ShouldEqual, "Priya Sharma")
				So(state.Features.UPITransactions, ShouldEqual, 92)
			})
		})

		Convey("When fetching an unknown user", func() {
			_, err := svc.GetUser(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When storage has gone away", func() {
			So(store.Close(), ShouldBeNil)

			_, err := svc.GetUser(ctx, "demo-priya")
			So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
			So(svc.StorageHealthy(ctx), ShouldBeFalse)
		})
	})
}

func TestServiceGetStats(t *testing.T) {
	Convey("Given a started service with seeded users", t, func() {
		store := repository.NewMemoryStore()
		svc := startedService(app.WithStore(store))
		So(repository.SeedDemoUsers(context.Background(), store), ShouldBeNil)

		Convey("When stats are collected", func() {
			stats := svc.GetStats()

			Convey("Then they report service and storage state", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["modelReady"], ShouldBeTrue)
				So(stats["trackedUsers"], ShouldEqual, 3)
				So(stats["storageConnected"], ShouldBeTrue)
				So(stats["heldUserLocks"], ShouldEqual, int64(0))
			})
		})
	})

	Convey("Given a service that never started", t, func() {
		svc := app.New()
		stats := svc.GetStats()

		Convey("Then only lifecycle fields are reported", func() {
			So(stats["started"], ShouldBeFalse)
			So(stats["modelReady"], ShouldBeFalse)
			So(stats, ShouldNotContainKey, "trackedUsers")
		})
	})
}
