//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package facts composes fact rows from cleaned account records and the
// already-built dimensions. Composition is a pure in-memory pass; the
// store layer replaces the fact table wholesale with the result.
package facts

import (
	"fmt"
	"sort"
	"time"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/derive"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/dims"
)

// FactRow is one row of fact_churn. ChurnStatusID is nil for customers
// with no churn status record.
type FactRow struct {
	FactID        int64
	CustomerID    string
	LocationID    int64
	ServiceID     int64
	TimeID        int
	ChurnStatusID *int64
	TenureMonths  int
	MonthlyCharge float64
	TotalCharges  float64
	ChurnScore    int
	CLTV          float64
}

// UnresolvedReferenceError marks an account record whose fact row would
// reference a dimension key that does not exist. The row is skipped,
// never inserted dangling.
type UnresolvedReferenceError struct {
	CustomerID string
	Dimension  string
	Key        string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("customer %s: no %s dimension row for key %q", e.CustomerID, e.Dimension, e.Key)
}

// AmbiguousLinkError marks a customer with more than one churn status
// candidate. The link resolves to the lexicographically last category;
// the ambiguity is surfaced as a data-quality warning.
type AmbiguousLinkError struct {
	CustomerID string
	Categories []string
}

func (e *AmbiguousLinkError) Error() string {
	return fmt.Sprintf("customer %s: %d churn status candidates %v, linked last",
		e.CustomerID, len(e.Categories), e.Categories)
}

// Inputs carries the dimension state the composer links against.
type Inputs struct {
	// Accounts are the cleaned account records, one fact row each.
	Accounts []clean.Record

	// ZipByCustomer maps a customer id to its cleaned zip code.
	ZipByCustomer map[string]string

	// LocationIDByZip maps a zip code to its location surrogate key.
	LocationIDByZip map[string]int64

	// Services is the full service dimension.
	Services []dims.ServiceRow

	// Statuses is the full churn status dimension.
	Statuses []dims.ChurnStatusRow

	// TimeIDs is the set of calendar keys present in the time dimension.
	TimeIDs map[int]bool

	// Anchor is the reference date the contract start is counted back
	// from when the final time key is computed.
	Anchor time.Time
}

// Result is the composed fact set plus the record-level failures
// recovered during composition.
type Result struct {
	Rows      []FactRow
	Skipped   []*UnresolvedReferenceError
	Ambiguous []*AmbiguousLinkError
}

// Compose builds one fact row per account record. Links resolve in
// order: location by zip, service by customer id (most recent quarter),
// time by the service quarter then overridden by the estimated contract
// start (anchor minus tenure), churn status in a dependent pass. An
// unresolvable mandatory link skips the row. Fact keys restart at one
// on every run; the table is replaced, so they stay stable for a given
// input.
func Compose(in Inputs) Result {
	latestService := latestServiceByCustomer(in.Services)
	statusByCustomer := statusCandidatesByCustomer(in.Statuses)

	var res Result
	nextFactID := int64(1)

	for _, account := range in.Accounts {
		customerID := account.String("customer_id")

		zip, ok := in.ZipByCustomer[customerID]
		if !ok {
			res.Skipped = append(res.Skipped, &UnresolvedReferenceError{
				CustomerID: customerID, Dimension: "location", Key: "",
			})
			continue
		}
		locationID, ok := in.LocationIDByZip[zip]
		if !ok {
			res.Skipped = append(res.Skipped, &UnresolvedReferenceError{
				CustomerID: customerID, Dimension: "location", Key: zip,
			})
			continue
		}

		service, ok := latestService[customerID]
		if !ok {
			res.Skipped = append(res.Skipped, &UnresolvedReferenceError{
				CustomerID: customerID, Dimension: "service", Key: customerID,
			})
			continue
		}

		tenure := account.Int("tenure_months")

		// First pass: the quarter join. Second pass supersedes it with
		// the estimated contract start; both run so the quarter join
		// stays the fallback when the override misses the calendar.
		timeID := quarterTimeKey(service)
		if override := dims.TimeKey(in.Anchor.AddDate(0, -tenure, 0)); in.TimeIDs[override] {
			timeID = override
		}
		if !in.TimeIDs[timeID] {
			res.Skipped = append(res.Skipped, &UnresolvedReferenceError{
				CustomerID: customerID, Dimension: "time", Key: fmt.Sprintf("%d", timeID),
			})
			continue
		}

		row := FactRow{
			FactID:        nextFactID,
			CustomerID:    customerID,
			LocationID:    locationID,
			ServiceID:     service.ServiceID,
			TimeID:        timeID,
			TenureMonths:  tenure,
			MonthlyCharge: account.Float("monthly_charge"),
			TotalCharges:  account.Float("total_charges"),
			ChurnScore:    account.Int("churn_score"),
			CLTV:          derive.CustomerValue(account.Float("monthly_charge")),
		}

		// Dependent pass: churn status by customer id. Several
		// categories resolve to the lexicographically last one.
		if candidates := statusByCustomer[customerID]; len(candidates) > 0 {
			winner := candidates[len(candidates)-1]
			row.ChurnStatusID = &winner.ChurnStatusID
			if len(candidates) > 1 {
				categories := make([]string, len(candidates))
				for i, c := range candidates {
					categories[i] = c.ChurnCategory
				}
				res.Ambiguous = append(res.Ambiguous, &AmbiguousLinkError{
					CustomerID: customerID, Categories: categories,
				})
			}
		}

		nextFactID++
		res.Rows = append(res.Rows, row)
	}

	return res
}

// latestServiceByCustomer keeps each customer's most recent quarter.
// Quarter labels order lexicographically (Q1 < Q2 < Q3 < Q4).
func latestServiceByCustomer(services []dims.ServiceRow) map[string]dims.ServiceRow {
	latest := make(map[string]dims.ServiceRow, len(services))
	for _, s := range services {
		cur, ok := latest[s.CustomerID]
		if !ok || s.Quarter > cur.Quarter {
			latest[s.CustomerID] = s
		}
	}
	return latest
}

// statusCandidatesByCustomer groups status rows per customer, ordered
// by category so the last-write-wins pick is deterministic.
func statusCandidatesByCustomer(statuses []dims.ChurnStatusRow) map[string][]dims.ChurnStatusRow {
	byCustomer := make(map[string][]dims.ChurnStatusRow)
	for _, s := range statuses {
		byCustomer[s.CustomerID] = append(byCustomer[s.CustomerID], s)
	}
	for _, candidates := range byCustomer {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].ChurnCategory < candidates[j].ChurnCategory
		})
	}
	return byCustomer
}

// quarterTimeKey turns a service row's quarter end date into a calendar
// key. A missing or malformed date yields zero, which never matches the
// calendar and falls through to the override or a skip.
func quarterTimeKey(service dims.ServiceRow) int {
	d, err := time.Parse("2006-01-02", service.QuarterEndDate)
	if err != nil {
		return 0
	}
	return dims.TimeKey(d)
}
