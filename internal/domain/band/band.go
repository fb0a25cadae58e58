// Package band classifies a credit score into a risk band and the lender
// decision that follows from it.
package band

import "fmt"

// Band is a named score range.
type Band string

// Risk bands, best first.
const (
	Excellent Band = "Excellent"
	Good      Band = "Good"
	Fair      Band = "Fair"
	Poor      Band = "Poor"
)

// Decision is the categorical lender recommendation. It is functionally
// determined by the band: Excellent and Good approve, Fair goes to manual
// review, Poor denies.
type Decision string

// Lender decisions.
const (
	Approve Decision = "APPROVE"
	Review  Decision = "REVIEW"
	Deny    Decision = "DENY"
)

// Band thresholds. Each is the closed lower bound of its range.
const (
	excellentFloor = 750
	goodFloor      = 650
	fairFloor      = 550
)

// Boundaries returns the interior band boundaries in ascending order.
func Boundaries() []int {
	return []int{fairFloor, goodFloor, excellentFloor}
}

// Classify maps a score to its band and decision. Scores outside [300, 900]
// are a contract violation by the caller; Classify panics rather than
// misreport a band, since a wrong silent classification is a lending risk.
func Classify(score int) (Band, Decision) {
	if score < 300 || score > 900 {
		panic(fmt.Sprintf("band: score %d outside [300, 900]", score))
	}
	switch {
	case score >= excellentFloor:
		return Excellent, Approve
	case score >= goodFloor:
		return Good, Approve
	case score >= fairFloor:
		return Fair, Review
	default:
		return Poor, Deny
	}
}
