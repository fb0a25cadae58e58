package probe

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileKindDivisor = 6
)

// Constants for profile generation ranges.
const (
	thinFileUPIMax       = 40
	thinFileAmountMax    = 300.0
	gigWorkerUPIMin      = 30
	gigWorkerUPIRange    = 120
	gigWorkerAmountMin   = 150.0
	gigWorkerAmountRange = 500.0
	salariedUPIMin       = 60
	salariedUPIRange     = 200
	salariedAmountMin    = 400.0
	salariedAmountRange  = 1600.0
	studentUPIMax        = 60
	studentAmountMax     = 250.0
	heavyUserUPIMin      = 200
	heavyUserUPIRange    = 300
	heavyUserAmountMin   = 800.0
	heavyUserAmountRange = 9200.0
	maxBillWindows       = 24
)

// Constants for profile kind cases.
const (
	caseThinFile  = 0
	caseGigWorker = 1
	caseSalaried  = 2
	caseStudent   = 3
	caseHeavyUser = 4
	caseUniform   = 5
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max).
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// generateProfiles creates the specified number of synthetic applicants.
func generateProfiles(config *Config, stats *Stats) []Profile {
	profiles := make([]Profile, config.NumProfiles)
	for i := range profiles {
		profiles[i] = generateSingleProfile()
	}
	stats.ProfilesGenerated = len(profiles)
	return profiles
}

// generateSingleProfile creates one applicant drawn from a mixed population.
func generateSingleProfile() Profile {
	p := Profile{
		ID:                 uuid.New().String(),
		BillPaymentsOnTime: getRandomInt(maxBillWindows + 1),
	}

	switch getRandomInt(profileKindDivisor) {
	case caseThinFile:
		// Sparse digital footprint, low volume and value
		p.UPITransactions = getRandomInt(thinFileUPIMax)
		p.AvgTransactionAmount = getRandomFloat() * thinFileAmountMax
		p.MobileRechargeRegularity = getRandomFloat() * 0.6
		p.SavingsPattern = getRandomFloat() * 0.4
	case caseGigWorker:
		p.UPITransactions = gigWorkerUPIMin + getRandomInt(gigWorkerUPIRange)
		p.AvgTransactionAmount = gigWorkerAmountMin + getRandomFloat()*gigWorkerAmountRange
		p.MobileRechargeRegularity = 0.4 + getRandomFloat()*0.6
		p.SavingsPattern = 0.2 + getRandomFloat()*0.5
	case caseSalaried:
		p.UPITransactions = salariedUPIMin + getRandomInt(salariedUPIRange)
		p.AvgTransactionAmount = salariedAmountMin + getRandomFloat()*salariedAmountRange
		p.MobileRechargeRegularity = 0.7 + getRandomFloat()*0.3
		p.SavingsPattern = 0.5 + getRandomFloat()*0.5
	case caseStudent:
		p.UPITransactions = getRandomInt(studentUPIMax)
		p.AvgTransactionAmount = getRandomFloat() * studentAmountMax
		p.MobileRechargeRegularity = 0.3 + getRandomFloat()*0.5
		p.SavingsPattern = getRandomFloat() * 0.5
	case caseHeavyUser:
		p.UPITransactions = heavyUserUPIMin + getRandomInt(heavyUserUPIRange)
		p.AvgTransactionAmount = heavyUserAmountMin + getRandomFloat()*heavyUserAmountRange
		p.MobileRechargeRegularity = getRandomFloat()
		p.SavingsPattern = getRandomFloat()
	default:
		// Uniform across the full accepted range
		p.UPITransactions = getRandomInt(501)
		p.AvgTransactionAmount = getRandomFloat() * 20000.0
		p.MobileRechargeRegularity = getRandomFloat()
		p.SavingsPattern = getRandomFloat()
	}

	return p
}
