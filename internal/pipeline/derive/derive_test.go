package derive

import (
	"testing"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
)

func TestTenureBucket(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{months: 0, want: TenureShort},
		{months: 11, want: TenureShort},
		{months: 12, want: TenureMid},
		{months: 24, want: TenureMid},
		{months: 25, want: TenureLong},
		{months: 72, want: TenureLong},
	}

	for _, tt := range tests {
		if got := TenureBucket(tt.months); got != tt.want {
			t.Errorf("TenureBucket(%d) = %s, want %s", tt.months, got, tt.want)
		}
	}
}

func TestRevenueFlag(t *testing.T) {
	tests := []struct {
		charge float64
		want   string
	}{
		{charge: 0, want: RevenueNormal},
		{charge: 99.99, want: RevenueNormal},
		{charge: 100.00, want: RevenueNormal},
		{charge: 100.01, want: RevenueHigh},
		{charge: 118.75, want: RevenueHigh},
	}

	for _, tt := range tests {
		if got := RevenueFlag(tt.charge); got != tt.want {
			t.Errorf("RevenueFlag(%v) = %s, want %s", tt.charge, got, tt.want)
		}
	}
}

func TestRiskCategory(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{score: -1, want: RiskUnknown},
		{score: 0, want: RiskLow},
		{score: 49, want: RiskLow},
		{score: 50, want: RiskMedium},
		{score: 79, want: RiskMedium},
		{score: 80, want: RiskHigh},
		{score: 100, want: RiskHigh},
	}

	for _, tt := range tests {
		if got := RiskCategory(tt.score); got != tt.want {
			t.Errorf("RiskCategory(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCustomerValue(t *testing.T) {
	if got := CustomerValue(65.50); got != 786.00 {
		t.Errorf("CustomerValue(65.50) = %v, want 786.00", got)
	}
	if got := CustomerValue(0); got != 0 {
		t.Errorf("CustomerValue(0) = %v, want 0", got)
	}
}

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{age: 18, want: AgeUnder30},
		{age: 29, want: AgeUnder30},
		{age: 30, want: Age30To50},
		{age: 50, want: Age30To50},
		{age: 51, want: AgeOver50},
		{age: 85, want: AgeOver50},
	}

	for _, tt := range tests {
		if got := AgeBucket(tt.age); got != tt.want {
			t.Errorf("AgeBucket(%d) = %s, want %s", tt.age, got, tt.want)
		}
	}
}

func TestBuildProfiles(t *testing.T) {
	accounts := []clean.Record{
		{"customer_id": "C1", "tenure_months": 30, "monthly_charge": 110.0, "churn_score": 85},
		{"customer_id": "C2", "tenure_months": 6, "monthly_charge": 45.0, "churn_score": -1},
	}

	rows := BuildProfiles(accounts)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 profile rows, got %d", len(rows))
	}

	c1 := rows[0]
	if c1.TenureBucket != TenureLong || c1.RevenueFlag != RevenueHigh ||
		c1.RiskCategory != RiskHigh || c1.CustomerValue != 1320.0 {
		t.Errorf("Unexpected profile for C1: %+v", c1)
	}

	c2 := rows[1]
	if c2.TenureBucket != TenureShort || c2.RevenueFlag != RevenueNormal ||
		c2.RiskCategory != RiskUnknown || c2.CustomerValue != 540.0 {
		t.Errorf("Unexpected profile for C2: %+v", c2)
	}
}

func TestBuildProfilesRecomputedIdentically(t *testing.T) {
	accounts := []clean.Record{
		{"customer_id": "C1", "tenure_months": 12, "monthly_charge": 80.0, "churn_score": 50},
	}
	a := BuildProfiles(accounts)
	b := BuildProfiles(accounts)
	if a[0] != b[0] {
		t.Errorf("Profiles differ across runs: %+v vs %+v", a[0], b[0])
	}
}
