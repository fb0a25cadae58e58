// Package feature defines the behavioral feature vector and its bounds.
//
// The five signals are the only model inputs. Values outside their bounds
// are rejected, never clamped: a silently clipped input would misattribute
// why a score came out the way it did.
package feature

// Name identifies one behavioral signal. The string value doubles as the
// human-readable factor label on the wire.
type Name string

// Feature names in canonical order.
const (
	BillPaymentHistory Name = "Bill Payment History"
	SavingsBehavior    Name = "Savings Behavior"
	RechargeRegularity Name = "Mobile Recharge Regularity"
	TransactionVolume  Name = "UPI Transaction Volume"
	TransactionValue   Name = "Average Transaction Value"
)

// CanonicalOrder returns all features in the fixed tie-break order used
// when two factors carry equal contribution.
func CanonicalOrder() []Name {
	return []Name{
		BillPaymentHistory,
		SavingsBehavior,
		RechargeRegularity,
		TransactionVolume,
		TransactionValue,
	}
}

// Bounds for each input field.
const (
	MaxUPITransactions    = 500
	MaxBillPaymentWindows = 24
)

// Vector holds one user's behavioral signals over the observation window.
type Vector struct {
	// UPITransactions is the monthly digital-payment count.
	UPITransactions int `json:"upiTransactions"`

	// AvgTransactionAmount is the mean transaction size in currency units.
	AvgTransactionAmount float64 `json:"avgTransactionAmount"`

	// BillPaymentsOnTime counts on-time payments over the 24-period window.
	BillPaymentsOnTime int `json:"billPaymentsOnTime"`

	// MobileRechargeRegularity is the fraction of periods with an
	// on-schedule recharge, in [0, 1].
	MobileRechargeRegularity float64 `json:"mobileRechargeRegularity"`

	// SavingsPattern is a consistency-of-saving indicator in [0, 1].
	SavingsPattern float64 `json:"savingsPattern"`
}

// Validate range-checks every field and returns an *OutOfRangeError for the
// first violation found. A nil return means the vector is safe to score.
func (v Vector) Validate() error {
	if v.UPITransactions < 0 || v.UPITransactions > MaxUPITransactions {
		return newOutOfRange("upiTransactions", float64(v.UPITransactions), 0, MaxUPITransactions)
	}
	if v.AvgTransactionAmount < 0 {
		return newOutOfRange("avgTransactionAmount", v.AvgTransactionAmount, 0, noUpperBound)
	}
	if v.BillPaymentsOnTime < 0 || v.BillPaymentsOnTime > MaxBillPaymentWindows {
		return newOutOfRange("billPaymentsOnTime", float64(v.BillPaymentsOnTime), 0, MaxBillPaymentWindows)
	}
	if v.MobileRechargeRegularity < 0 || v.MobileRechargeRegularity > 1 {
		return newOutOfRange("mobileRechargeRegularity", v.MobileRechargeRegularity, 0, 1)
	}
	if v.SavingsPattern < 0 || v.SavingsPattern > 1 {
		return newOutOfRange("savingsPattern", v.SavingsPattern, 0, 1)
	}
	return nil
}

// BillPaymentRatio returns the on-time share of the bill payment window.
func (v Vector) BillPaymentRatio() float64 {
	return float64(v.BillPaymentsOnTime) / float64(MaxBillPaymentWindows)
}
