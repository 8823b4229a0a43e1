//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package derive

import (
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
)

// ProfileRow is one row of customer_profile: the derived classification
// attributes for one customer. Unlike the dimensions, the profile table
// is fully overwritten on every run.
type ProfileRow struct {
	CustomerID    string
	TenureBucket  string
	RevenueFlag   string
	RiskCategory  string
	CustomerValue float64
}

// BuildProfiles computes one profile row per cleaned account record.
// Input order is preserved; the cleaner already emits natural-key order.
func BuildProfiles(accounts []clean.Record) []ProfileRow {
	rows := make([]ProfileRow, 0, len(accounts))
	for _, account := range accounts {
		monthly := account.Float("monthly_charge")
		rows = append(rows, ProfileRow{
			CustomerID:    account.String("customer_id"),
			TenureBucket:  TenureBucket(account.Int("tenure_months")),
			RevenueFlag:   RevenueFlag(monthly),
			RiskCategory:  RiskCategory(account.Int("churn_score")),
			CustomerValue: CustomerValue(monthly),
		})
	}
	return rows
}
