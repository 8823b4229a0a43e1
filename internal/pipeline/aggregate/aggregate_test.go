package aggregate

import (
	"testing"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/dims"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/facts"
)

func threeCustomerInputs() Inputs {
	return Inputs{
		Facts: []facts.FactRow{
			{FactID: 1, CustomerID: "C1", LocationID: 7, ServiceID: 1, TimeID: 20230101, MonthlyCharge: 30},
			{FactID: 2, CustomerID: "C2", LocationID: 7, ServiceID: 2, TimeID: 20230101, MonthlyCharge: 60},
			{FactID: 3, CustomerID: "C3", LocationID: 7, ServiceID: 3, TimeID: 20220101, MonthlyCharge: 90},
		},
		ChurnLabelByCustomer: map[string]string{"C1": "YES", "C2": "NO", "C3": "Yes"},
		CustomerByID: map[string]dims.CustomerRow{
			"C1": {CustomerID: "C1", Gender: "MALE", AgeBucket: "30_TO_50"},
			"C2": {CustomerID: "C2", Gender: "FEMALE", AgeBucket: "30_TO_50"},
			"C3": {CustomerID: "C3", Gender: "MALE", AgeBucket: "30_TO_50"},
		},
		ServiceByID: map[int64]dims.ServiceRow{
			1: {ServiceID: 1, Contract: "MONTH-TO-MONTH", InternetType: "FIBER OPTIC"},
			2: {ServiceID: 2, Contract: "TWO YEAR", InternetType: "DSL"},
			3: {ServiceID: 3, Contract: "MONTH-TO-MONTH", InternetType: "FIBER OPTIC"},
		},
		TimeByID: map[int]dims.TimeRow{
			20230101: {TimeID: 20230101, Year: 2023, Quarter: 1},
			20220101: {TimeID: 20220101, Year: 2022, Quarter: 1},
		},
	}
}

func TestByLocationChurnRate(t *testing.T) {
	rows := ByLocation(threeCustomerInputs())
	if len(rows) != 1 {
		t.Fatalf("Expected 1 location row, got %d", len(rows))
	}

	row := rows[0]
	if row.LocationID != 7 || row.Customers != 3 || row.Churned != 2 {
		t.Errorf("Unexpected row: %+v", row)
	}
	// case-insensitive label match: "YES" and "Yes" both count
	if row.ChurnRate == nil || *row.ChurnRate != 2.0/3.0 {
		t.Errorf("Expected churn rate 2/3, got %v", row.ChurnRate)
	}
	if row.TotalMonthlyCharge != 180 || row.AvgMonthlyCharge != 60 {
		t.Errorf("Unexpected charges: %+v", row)
	}
}

func TestByCustomerOneRowPerCustomer(t *testing.T) {
	rows := ByCustomer(threeCustomerInputs())
	if len(rows) != 3 {
		t.Fatalf("Expected 3 customer rows, got %d", len(rows))
	}
	if rows[0].CustomerID != "C1" || rows[2].CustomerID != "C3" {
		t.Errorf("Expected rows ordered by customer id, got %+v", rows)
	}
	if rows[1].ChurnRate == nil || *rows[1].ChurnRate != 0 {
		t.Errorf("Expected rate 0 for C2, got %v", rows[1].ChurnRate)
	}
}

func TestByContractGroupsAcrossCustomers(t *testing.T) {
	rows := ByContract(threeCustomerInputs())
	if len(rows) != 2 {
		t.Fatalf("Expected 2 contract rows, got %d", len(rows))
	}
	m2m := rows[0]
	if m2m.Contract != "MONTH-TO-MONTH" || m2m.Customers != 2 || m2m.Churned != 2 {
		t.Errorf("Unexpected month-to-month row: %+v", m2m)
	}
	if m2m.ChurnRate == nil || *m2m.ChurnRate != 1.0 {
		t.Errorf("Expected rate 1.0, got %v", m2m.ChurnRate)
	}
}

func TestByServiceType(t *testing.T) {
	rows := ByServiceType(threeCustomerInputs())
	if len(rows) != 2 {
		t.Fatalf("Expected 2 service type rows, got %d", len(rows))
	}
	if rows[0].InternetType != "DSL" || rows[0].Customers != 1 {
		t.Errorf("Unexpected DSL row: %+v", rows[0])
	}
	if rows[1].InternetType != "FIBER OPTIC" || rows[1].Customers != 2 {
		t.Errorf("Unexpected fiber row: %+v", rows[1])
	}
}

func TestByDemographicsEmptySegmentNullRate(t *testing.T) {
	in := threeCustomerInputs()
	// dimension-only customer with no fact row
	in.CustomerByID["C4"] = dims.CustomerRow{CustomerID: "C4", Gender: "FEMALE", AgeBucket: "OVER_50"}

	rows := ByDemographics(in)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(rows))
	}

	var empty *DemographicsRow
	for i := range rows {
		if rows[i].Gender == "FEMALE" && rows[i].AgeBucket == "OVER_50" {
			empty = &rows[i]
		}
	}
	if empty == nil {
		t.Fatal("Expected the zero-fact segment to appear")
	}
	if empty.Customers != 0 {
		t.Errorf("Expected 0 customers, got %d", empty.Customers)
	}
	if empty.ChurnRate != nil {
		t.Errorf("Expected null rate for empty segment, got %v", *empty.ChurnRate)
	}
}

func TestByTimeAndTrendChronological(t *testing.T) {
	byTime := ByTime(threeCustomerInputs())
	if len(byTime) != 2 {
		t.Fatalf("Expected 2 time rows, got %d", len(byTime))
	}
	if byTime[0].TimeID != 20220101 || byTime[0].Year != 2022 || byTime[0].Quarter != 1 {
		t.Errorf("Unexpected first time row: %+v", byTime[0])
	}

	trend := Trend(threeCustomerInputs())
	if len(trend) != 2 {
		t.Fatalf("Expected 2 trend rows, got %d", len(trend))
	}
	if trend[0].TimeID > trend[1].TimeID {
		t.Errorf("Expected chronological order, got %d before %d", trend[0].TimeID, trend[1].TimeID)
	}
	if trend[1].Churned != 1 {
		t.Errorf("Expected 1 churned in 2023, got %d", trend[1].Churned)
	}
}

func TestRateGuard(t *testing.T) {
	if got := rate(0, 0); got != nil {
		t.Errorf("Expected nil rate on zero denominator, got %v", *got)
	}
	if got := rate(1, 2); got == nil || *got != 0.5 {
		t.Errorf("Expected 0.5, got %v", got)
	}
}
