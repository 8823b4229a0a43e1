//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package aggregate computes the reporting rollups as pure functions
// over the composed facts and dimensions. Each grain function returns
// the complete row set for its table; the store layer then drops and
// repopulates the table in one transaction. No rollup is maintained
// incrementally.
package aggregate

import (
	"sort"
	"strings"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/dims"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/facts"
)

// churnedLabel is matched case-insensitively against the cleaned
// account churn label.
const churnedLabel = "YES"

// Measures are the shared summary columns of every rollup grain.
// ChurnRate is nil when the grain matched zero customers.
type Measures struct {
	Customers          int
	TotalMonthlyCharge float64
	AvgMonthlyCharge   float64
	Churned            int
	ChurnRate          *float64
}

// Inputs carries the fact set and the dimension lookups the grain
// functions join against.
type Inputs struct {
	Facts []facts.FactRow

	// ChurnLabelByCustomer maps customer id to the cleaned churn label.
	ChurnLabelByCustomer map[string]string

	// CustomerByID maps customer id to its dimension row.
	CustomerByID map[string]dims.CustomerRow

	// ServiceByID maps service surrogate key to its dimension row.
	ServiceByID map[int64]dims.ServiceRow

	// TimeByID maps time surrogate key to its dimension row.
	TimeByID map[int]dims.TimeRow
}

// CustomerRow is one row of agg_churn_by_customer.
type CustomerRow struct {
	CustomerID string
	Measures
}

// LocationRow is one row of agg_churn_by_location.
type LocationRow struct {
	LocationID int64
	Measures
}

// ContractRow is one row of agg_churn_by_contract.
type ContractRow struct {
	Contract string
	Measures
}

// TimeRow is one row of agg_churn_by_time.
type TimeRow struct {
	TimeID  int
	Year    int
	Quarter int
	Measures
}

// ServiceTypeRow is one row of agg_churn_by_service.
type ServiceTypeRow struct {
	InternetType string
	Measures
}

// DemographicsRow is one row of agg_churn_by_demographics.
type DemographicsRow struct {
	Gender    string
	AgeBucket string
	Measures
}

// TrendRow is one row of agg_churn_trend, ordered by time key so
// consumers read churn development chronologically.
type TrendRow struct {
	TimeID  int
	Year    int
	Quarter int
	Measures
}

// accum collects a grain bucket before the measures are finalized.
type accum struct {
	customers int
	charges   float64
	churned   int
}

func (a *accum) add(f facts.FactRow, churned bool) {
	a.customers++
	a.charges += f.MonthlyCharge
	if churned {
		a.churned++
	}
}

func (a *accum) measures() Measures {
	m := Measures{
		Customers:          a.customers,
		TotalMonthlyCharge: a.charges,
		Churned:            a.churned,
		ChurnRate:          rate(a.churned, a.customers),
	}
	if a.customers > 0 {
		m.AvgMonthlyCharge = a.charges / float64(a.customers)
	}
	return m
}

// rate is the zero-denominator guard: a grain with no customers has a
// null rate, never an arithmetic fault.
func rate(churned, total int) *float64 {
	if total == 0 {
		return nil
	}
	r := float64(churned) / float64(total)
	return &r
}

func (in Inputs) churned(customerID string) bool {
	return strings.EqualFold(in.ChurnLabelByCustomer[customerID], churnedLabel)
}

// ByCustomer rolls up per customer id.
func ByCustomer(in Inputs) []CustomerRow {
	buckets := make(map[string]*accum)
	for _, f := range in.Facts {
		bucket(buckets, f.CustomerID).add(f, in.churned(f.CustomerID))
	}

	rows := make([]CustomerRow, 0, len(buckets))
	for id, a := range buckets {
		rows = append(rows, CustomerRow{CustomerID: id, Measures: a.measures()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })
	return rows
}

// ByLocation rolls up per location surrogate key.
func ByLocation(in Inputs) []LocationRow {
	buckets := make(map[int64]*accum)
	for _, f := range in.Facts {
		bucket(buckets, f.LocationID).add(f, in.churned(f.CustomerID))
	}

	rows := make([]LocationRow, 0, len(buckets))
	for id, a := range buckets {
		rows = append(rows, LocationRow{LocationID: id, Measures: a.measures()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LocationID < rows[j].LocationID })
	return rows
}

// ByContract rolls up per contract type via the service dimension.
func ByContract(in Inputs) []ContractRow {
	buckets := make(map[string]*accum)
	for _, f := range in.Facts {
		contract := in.ServiceByID[f.ServiceID].Contract
		bucket(buckets, contract).add(f, in.churned(f.CustomerID))
	}

	rows := make([]ContractRow, 0, len(buckets))
	for contract, a := range buckets {
		rows = append(rows, ContractRow{Contract: contract, Measures: a.measures()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Contract < rows[j].Contract })
	return rows
}

// ByTime rolls up per time key with the calendar's quarter label.
func ByTime(in Inputs) []TimeRow {
	buckets := make(map[int]*accum)
	for _, f := range in.Facts {
		bucket(buckets, f.TimeID).add(f, in.churned(f.CustomerID))
	}

	rows := make([]TimeRow, 0, len(buckets))
	for id, a := range buckets {
		cal := in.TimeByID[id]
		rows = append(rows, TimeRow{
			TimeID: id, Year: cal.Year, Quarter: cal.Quarter, Measures: a.measures(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TimeID < rows[j].TimeID })
	return rows
}

// ByServiceType rolls up per internet service type.
func ByServiceType(in Inputs) []ServiceTypeRow {
	buckets := make(map[string]*accum)
	for _, f := range in.Facts {
		internetType := in.ServiceByID[f.ServiceID].InternetType
		bucket(buckets, internetType).add(f, in.churned(f.CustomerID))
	}

	rows := make([]ServiceTypeRow, 0, len(buckets))
	for internetType, a := range buckets {
		rows = append(rows, ServiceTypeRow{InternetType: internetType, Measures: a.measures()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].InternetType < rows[j].InternetType })
	return rows
}

// ByDemographics rolls up per gender and age bucket segment. Segments
// are enumerated from the customer dimension, so a segment with no
// facts still appears, with zero customers and a null rate.
func ByDemographics(in Inputs) []DemographicsRow {
	type segment struct{ gender, ageBucket string }

	buckets := make(map[segment]*accum)
	for _, c := range in.CustomerByID {
		seg := segment{gender: c.Gender, ageBucket: c.AgeBucket}
		if _, ok := buckets[seg]; !ok {
			buckets[seg] = &accum{}
		}
	}
	for _, f := range in.Facts {
		c, ok := in.CustomerByID[f.CustomerID]
		if !ok {
			continue
		}
		seg := segment{gender: c.Gender, ageBucket: c.AgeBucket}
		bucket(buckets, seg).add(f, in.churned(f.CustomerID))
	}

	rows := make([]DemographicsRow, 0, len(buckets))
	for seg, a := range buckets {
		rows = append(rows, DemographicsRow{
			Gender: seg.gender, AgeBucket: seg.ageBucket, Measures: a.measures(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Gender != rows[j].Gender {
			return rows[i].Gender < rows[j].Gender
		}
		return rows[i].AgeBucket < rows[j].AgeBucket
	})
	return rows
}

// Trend rolls up churn development per time key, chronologically.
func Trend(in Inputs) []TrendRow {
	buckets := make(map[int]*accum)
	for _, f := range in.Facts {
		bucket(buckets, f.TimeID).add(f, in.churned(f.CustomerID))
	}

	rows := make([]TrendRow, 0, len(buckets))
	for id, a := range buckets {
		cal := in.TimeByID[id]
		rows = append(rows, TrendRow{
			TimeID: id, Year: cal.Year, Quarter: cal.Quarter, Measures: a.measures(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TimeID < rows[j].TimeID })
	return rows
}

func bucket[K comparable](buckets map[K]*accum, key K) *accum {
	a, ok := buckets[key]
	if !ok {
		a = &accum{}
		buckets[key] = a
	}
	return a
}
