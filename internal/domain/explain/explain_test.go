package explain_test

import (
	"encoding/json"
	"strings"
	"testing"

	explain "github.com/incluscore/incluscore/internal/domain/explain"
	feature "github.com/incluscore/incluscore/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw importances from a scored profile", t, func() {
		importances := map[feature.Name]float64{
			feature.TransactionVolume:  160,
			feature.BillPaymentHistory: 144,
			feature.RechargeRegularity: 75,
			feature.SavingsBehavior:    54,
			feature.TransactionValue:   12.5,
		}

		Convey("When normalized", func() {
			factors := explain.Normalize(importances)

			Convey("Then every feature appears, ranked by contribution", func() {
				So(factors, ShouldHaveLength, 5)
				So(factors[0].Name, ShouldEqual, feature.TransactionVolume)
				So(factors[1].Name, ShouldEqual, feature.BillPaymentHistory)
				So(factors[2].Name, ShouldEqual, feature.RechargeRegularity)
				So(factors[3].Name, ShouldEqual, feature.SavingsBehavior)
				So(factors[4].Name, ShouldEqual, feature.TransactionValue)
			})

			Convey("And the percentages carry one decimal place", func() {
				So(factors[0].Percent, ShouldAlmostEqual, 35.9)
				So(factors[1].Percent, ShouldAlmostEqual, 32.3)
				So(factors[2].Percent, ShouldAlmostEqual, 16.8)
				So(factors[3].Percent, ShouldAlmostEqual, 12.1)
				So(factors[4].Percent, ShouldAlmostEqual, 2.8)
			})

			Convey("And rounding keeps the total within 0.5 of 100", func() {
				So(factors.Total(), ShouldBeBetween, 99.5, 100.5)
			})
		})

		Convey("When all importances are zero", func() {
			factors := explain.Normalize(map[feature.Name]float64{})

			Convey("Then every feature gets an even split in canonical order", func() {
				So(factors, ShouldHaveLength, 5)
				for i, n := range feature.CanonicalOrder() {
					So(factors[i].Name, ShouldEqual, n)
					So(factors[i].Percent, ShouldEqual, 20.0)
				}
				So(factors.Total(), ShouldEqual, 100.0)
			})
		})

		Convey("When two features tie on contribution", func() {
			factors := explain.Normalize(map[feature.Name]float64{
				feature.SavingsBehavior:    50,
				feature.RechargeRegularity: 50,
				feature.TransactionVolume:  100,
			})

			Convey("Then the canonical order breaks the tie", func() {
				So(factors[0].Name, ShouldEqual, feature.TransactionVolume)
				So(factors[1].Name, ShouldEqual, feature.SavingsBehavior)
				So(factors[2].Name, ShouldEqual, feature.RechargeRegularity)
			})
		})

		Convey("When an importance is negative", func() {
			factors := explain.Normalize(map[feature.Name]float64{
				feature.TransactionVolume: 100,
				feature.SavingsBehavior:   -10,
			})

			Convey("Then it is treated as zero contribution", func() {
				So(factors.Percent(feature.SavingsBehavior), ShouldEqual, 0)
				So(factors.Percent(feature.TransactionVolume), ShouldEqual, 100)
			})
		})
	})
}

func TestFactorsPercent(t *testing.T) {
	Convey("Given a normalized breakdown", t, func() {
		factors := explain.Normalize(map[feature.Name]float64{
			feature.BillPaymentHistory: 75,
			feature.SavingsBehavior:    25,
		})

		Convey("Then Percent reads individual contributions", func() {
			So(factors.Percent(feature.BillPaymentHistory), ShouldEqual, 75.0)
			So(factors.Percent(feature.SavingsBehavior), ShouldEqual, 25.0)
		})

		Convey("And an unknown feature reads zero", func() {
			So(factors.Percent(feature.Name("No Such Feature")), ShouldEqual, 0)
		})
	})
}

func TestFactorsJSON(t *testing.T) {
	Convey("Given a ranked breakdown", t, func() {
		factors := explain.Normalize(map[feature.Name]float64{
			feature.TransactionVolume:  160,
			feature.BillPaymentHistory: 144,
			feature.RechargeRegularity: 75,
			feature.SavingsBehavior:    54,
			feature.TransactionValue:   12.5,
		})

		Convey("When marshalled", func() {
			data, err := json.Marshal(factors)
			So(err, ShouldBeNil)
			text := string(data)

			Convey("Then the object keys appear in ranked order", func() {
				positions := make([]int, len(factors))
				for i, f := range factors {
					positions[i] = strings.Index(text, string(f.Name))
					So(positions[i], ShouldBeGreaterThanOrEqualTo, 0)
				}
				for i := 1; i < len(positions); i++ {
					So(positions[i], ShouldBeGreaterThan, positions[i-1])
				}
			})

			Convey("And values serialize without float noise", func() {
				So(text, ShouldContainSubstring, `"UPI Transaction Volume":35.9`)
				So(text, ShouldContainSubstring, `"Bill Payment History":32.3`)
			})

			Convey("And unmarshalling restores the ranking", func() {
				var restored explain.Factors
				So(json.Unmarshal(data, &restored), ShouldBeNil)
				So(restored, ShouldHaveLength, len(factors))
				for i := range restored {
					So(restored[i].Name, ShouldEqual, factors[i].Name)
					So(restored[i].Percent, ShouldAlmostEqual, factors[i].Percent)
				}
			})
		})
	})
}
