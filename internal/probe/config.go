package probe

import "time"

// Config holds configuration for the scoring probe
type Config struct {
	BaseURL     string        // Base URL of the service
	NumProfiles int           // Number of applicant profiles to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Resubmits   int           // Profiles re-scored to check determinism
	Verbose     bool          // Enable verbose logging
}

// Profile is one synthetic applicant submitted to the scoring endpoint.
type Profile struct {
	ID                       string  `json:"-"`
	UPITransactions          int     `json:"upiTransactions"`
	AvgTransactionAmount     float64 `json:"avgTransactionAmount"`
	BillPaymentsOnTime       int     `json:"billPaymentsOnTime"`
	MobileRechargeRegularity float64 `json:"mobileRechargeRegularity"`
	SavingsPattern           float64 `json:"savingsPattern"`
}

// Outcome is the scoring response the probe inspects.
type Outcome struct {
	CreditScore          int                `json:"creditScore"`
	Confidence           float64            `json:"confidence"`
	RiskBand             string             `json:"riskBand"`
	LenderRecommendation string             `json:"lenderRecommendation"`
	Factors              map[string]float64 `json:"factors"`
	Recommendations      []string           `json:"recommendations"`
}

// Stats holds probe statistics
type Stats struct {
	ProfilesGenerated  int
	ProfilesSubmitted  int
	ProfilesSuccessful int
	ProfilesRejected   int
	ProfilesFailed     int
	InvariantFailures  int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
