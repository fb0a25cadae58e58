package band_test

import (
	"testing"

	band "github.com/incluscore/incluscore/internal/domain/band"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given the band thresholds", t, func() {
		cases := []struct {
			score    int
			band     band.Band
			decision band.Decision
		}{
			{300, band.Poor, band.Deny},
			{549, band.Poor, band.Deny},
			{550, band.Fair, band.Review},
			{649, band.Fair, band.Review},
			{650, band.Good, band.Approve},
			{749, band.Good, band.Approve},
			{750, band.Excellent, band.Approve},
			{900, band.Excellent, band.Approve},
		}

		Convey("When classifying scores around every boundary", func() {
			for _, c := range cases {
				b, d := band.Classify(c.score)
				So(b, ShouldEqual, c.band)
				So(d, ShouldEqual, c.decision)
			}
		})
	})

	Convey("Given a score outside the reportable range", t, func() {
		Convey("Then classification panics rather than misreport", func() {
			So(func() { band.Classify(299) }, ShouldPanic)
			So(func() { band.Classify(901) }, ShouldPanic)
			So(func() { band.Classify(0) }, ShouldPanic)
		})
	})
}

func TestBoundaries(t *testing.T) {
	Convey("Given the interior band boundaries", t, func() {
		Convey("Then they come back in ascending order", func() {
			So(band.Boundaries(), ShouldResemble, []int{550, 650, 750})
		})
	})
}
