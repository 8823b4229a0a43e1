//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dims

import (
	"sort"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/derive"
)

type mergeRule int

const (
	// firstNonNull takes the first present value, account source first.
	firstNonNull mergeRule = iota

	// preferDemographics takes the demographic value when present,
	// falling back to the account value.
	preferDemographics
)

// customerMergePolicy decides conflicts for attributes both sources
// carry. Columns not listed resolve as firstNonNull. A new source is
// added by extending this table, not the merge code.
var customerMergePolicy = map[string]mergeRule{
	"gender": preferDemographics,
}

// ResolveCustomers merges the account and demographic sources into one
// customer row per customer id. The account source defines the customer
// set; demographics are left-joined onto it.
func ResolveCustomers(accounts, demographics []clean.Record) []CustomerRow {
	demoByID := make(map[string]clean.Record, len(demographics))
	for _, d := range demographics {
		demoByID[d.String("customer_id")] = d
	}

	rows := make([]CustomerRow, 0, len(accounts))
	for _, account := range accounts {
		id := account.String("customer_id")
		demo := demoByID[id]

		age := demo.Int("age")
		rows = append(rows, CustomerRow{
			CustomerID:         id,
			Gender:             mergeString("gender", account, demo),
			Age:                age,
			SeniorCitizen:      account.Bool("senior_citizen"),
			Partner:            account.Bool("partner"),
			Dependents:         account.Bool("dependents"),
			Married:            demo.Bool("married"),
			NumberOfDependents: demo.Int("number_of_dependents"),
			AgeBucket:          derive.AgeBucket(age),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })
	return rows
}

func mergeString(column string, account, demo clean.Record) string {
	accountValue := account.String(column)
	demoValue := demo.String(column)

	switch customerMergePolicy[column] {
	case preferDemographics:
		if present(demoValue) {
			return demoValue
		}
		if present(accountValue) {
			return accountValue
		}
	default:
		if present(accountValue) {
			return accountValue
		}
		if present(demoValue) {
			return demoValue
		}
	}
	return clean.Unknown
}

// present treats the categorical sentinel as absent so a real value
// from the other source can win the merge.
func present(v string) bool {
	return v != "" && v != clean.Unknown
}
