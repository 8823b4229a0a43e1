//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package derive computes the analytical attributes of the customer
// profile. Every function is a pure mapping from cleaned inputs, so
// re-running the engine over the same inputs yields the same profile.
package derive

// Tenure buckets, split at one and two years.
const (
	TenureShort = "LESS_THAN_1_YEAR"
	TenureMid   = "1_TO_2_YEARS"
	TenureLong  = "MORE_THAN_2_YEARS"
)

// Revenue flags, split at the high-revenue monthly charge threshold.
const (
	RevenueHigh   = "HIGH_REVENUE"
	RevenueNormal = "NORMAL"
)

// Risk categories derived from the churn score.
const (
	RiskHigh    = "HIGH_RISK"
	RiskMedium  = "MEDIUM_RISK"
	RiskLow     = "LOW_RISK"
	RiskUnknown = "UNKNOWN"
)

// Age buckets, split at thirty and fifty.
const (
	AgeUnder30 = "UNDER_30"
	Age30To50  = "30_TO_50"
	AgeOver50  = "OVER_50"
)

// highRevenueThreshold is the monthly charge above which a customer
// counts as high revenue. The threshold itself is not high revenue.
const highRevenueThreshold = 100.0

// monthsPerYear annualizes the monthly charge for customer value.
const monthsPerYear = 12

// TenureBucket maps tenure in months onto the three tenure bands.
// Month 12 belongs to the middle band, month 24 is its upper edge.
func TenureBucket(months int) string {
	switch {
	case months < 12:
		return TenureShort
	case months <= 24:
		return TenureMid
	default:
		return TenureLong
	}
}

// RevenueFlag classifies a monthly charge. Exactly 100 is NORMAL.
func RevenueFlag(monthlyCharge float64) string {
	if monthlyCharge > highRevenueThreshold {
		return RevenueHigh
	}
	return RevenueNormal
}

// RiskCategory maps a churn score onto a risk band. Scores below zero
// mark a missing score and map to UNKNOWN rather than LOW_RISK.
func RiskCategory(score int) string {
	switch {
	case score < 0:
		return RiskUnknown
	case score >= 80:
		return RiskHigh
	case score >= 50:
		return RiskMedium
	default:
		return RiskLow
	}
}

// CustomerValue is the annualized monthly charge.
func CustomerValue(monthlyCharge float64) float64 {
	return monthlyCharge * monthsPerYear
}

// AgeBucket maps an age onto the three demographic bands. Ages 30 and
// 50 both belong to the middle band.
func AgeBucket(age int) string {
	switch {
	case age < 30:
		return AgeUnder30
	case age <= 50:
		return Age30To50
	default:
		return AgeOver50
	}
}
