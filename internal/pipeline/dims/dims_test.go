package dims

import (
	"testing"
	"time"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/derive"
)

func TestResolveCustomersGenderCoalesce(t *testing.T) {
	accounts := []clean.Record{
		{"customer_id": "C1", "gender": "FEMALE", "senior_citizen": false,
			"partner": true, "dependents": false},
	}
	demographics := []clean.Record{
		{"customer_id": "C1", "gender": "MALE", "age": 42, "married": true,
			"number_of_dependents": 2},
	}

	rows := ResolveCustomers(accounts, demographics)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 customer row, got %d", len(rows))
	}
	// demographic gender wins when both sources carry one
	if rows[0].Gender != "MALE" {
		t.Errorf("Expected gender 'MALE', got '%s'", rows[0].Gender)
	}
	if rows[0].Age != 42 || !rows[0].Married || rows[0].NumberOfDependents != 2 {
		t.Errorf("Demographic attributes not carried: %+v", rows[0])
	}
	if rows[0].AgeBucket != derive.Age30To50 {
		t.Errorf("Expected age bucket %s, got %s", derive.Age30To50, rows[0].AgeBucket)
	}
}

func TestResolveCustomersFirstNonNull(t *testing.T) {
	tests := []struct {
		name       string
		accountVal string
		demoVal    string
		want       string
	}{
		{name: "demographic absent", accountVal: "FEMALE", demoVal: "", want: "FEMALE"},
		{name: "demographic unknown sentinel", accountVal: "FEMALE", demoVal: clean.Unknown, want: "FEMALE"},
		{name: "both absent", accountVal: "", demoVal: "", want: clean.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ResolveCustomers(
				[]clean.Record{{"customer_id": "C1", "gender": tt.accountVal}},
				[]clean.Record{{"customer_id": "C1", "gender": tt.demoVal}},
			)
			if rows[0].Gender != tt.want {
				t.Errorf("Expected gender '%s', got '%s'", tt.want, rows[0].Gender)
			}
		})
	}
}

func TestResolveCustomersWithoutDemographics(t *testing.T) {
	rows := ResolveCustomers(
		[]clean.Record{{"customer_id": "C9", "gender": "FEMALE"}},
		nil,
	)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 customer row, got %d", len(rows))
	}
	if rows[0].Gender != "FEMALE" {
		t.Errorf("Expected account gender to survive, got '%s'", rows[0].Gender)
	}
	if rows[0].Age != 0 || rows[0].Married {
		t.Errorf("Expected zero-valued demographic attributes, got %+v", rows[0])
	}
}

func TestSequenceAllocatorDeterminism(t *testing.T) {
	a := NewSequence(100)
	for want := int64(100); want < 103; want++ {
		if got := a.Next(); got != want {
			t.Errorf("Expected key %d, got %d", want, got)
		}
	}
}

func TestResolveLocations(t *testing.T) {
	locations := []clean.Record{
		{"customer_id": "C2", "zip_code": "90210", "country": "UNITED STATES",
			"state": "CA", "city": "BEVERLY HILLS", "latitude": 34.09, "longitude": -118.41},
		{"customer_id": "C1", "zip_code": "10001", "country": "UNITED STATES",
			"state": "NY", "city": "NEW YORK", "latitude": 40.75, "longitude": -73.99},
		{"customer_id": "C3", "zip_code": "90210"}, // same zip, ignored
	}
	populations := []clean.Record{
		{"zip_code": "10001", "population": 21102},
	}

	rows := ResolveLocations(locations, populations, nil, NewSequence(1))
	if len(rows) != 2 {
		t.Fatalf("Expected 2 distinct zips, got %d", len(rows))
	}
	// allocation follows zip order, not input order
	if rows[0].ZipCode != "10001" || rows[0].LocationID != 1 {
		t.Errorf("Expected zip 10001 with key 1, got %s/%d", rows[0].ZipCode, rows[0].LocationID)
	}
	if rows[1].ZipCode != "90210" || rows[1].LocationID != 2 {
		t.Errorf("Expected zip 90210 with key 2, got %s/%d", rows[1].ZipCode, rows[1].LocationID)
	}
	if rows[0].Population == nil || *rows[0].Population != 21102 {
		t.Errorf("Expected population 21102 for 10001, got %v", rows[0].Population)
	}
	// no population reference stays null, not zero
	if rows[1].Population != nil {
		t.Errorf("Expected nil population for 90210, got %d", *rows[1].Population)
	}
}

func TestResolveLocationsSkipsExistingZips(t *testing.T) {
	locations := []clean.Record{
		{"customer_id": "C1", "zip_code": "10001"},
		{"customer_id": "C2", "zip_code": "90210"},
	}
	existing := map[string]bool{"10001": true}

	rows := ResolveLocations(locations, nil, existing, NewSequence(5))
	if len(rows) != 1 {
		t.Fatalf("Expected 1 new row, got %d", len(rows))
	}
	if rows[0].ZipCode != "90210" || rows[0].LocationID != 5 {
		t.Errorf("Expected new zip 90210 with key 5, got %s/%d", rows[0].ZipCode, rows[0].LocationID)
	}
}

func TestResolveServicesSkipsExisting(t *testing.T) {
	services := []clean.Record{
		{"customer_id": "C1", "quarter": "Q1", "contract": "MONTH-TO-MONTH"},
		{"customer_id": "C1", "quarter": "Q2", "contract": "ONE YEAR"},
	}
	existing := map[string]bool{ServiceKey("C1", "Q1"): true}

	rows := ResolveServices(services, existing, NewSequence(10))
	if len(rows) != 1 {
		t.Fatalf("Expected 1 new service row, got %d", len(rows))
	}
	if rows[0].Quarter != "Q2" || rows[0].ServiceID != 10 {
		t.Errorf("Expected Q2 with key 10, got %s/%d", rows[0].Quarter, rows[0].ServiceID)
	}
}

func TestResolveChurnStatusesPerCategory(t *testing.T) {
	statuses := []clean.Record{
		{"customer_id": "C1", "churn_category": "COMPETITOR"},
		{"customer_id": "C1", "churn_category": "PRICE"},
		{"customer_id": "C2", "churn_category": "COMPETITOR"},
	}

	rows := ResolveChurnStatuses(statuses, nil, NewSequence(1))
	if len(rows) != 3 {
		t.Fatalf("Expected 3 status rows, got %d", len(rows))
	}
	if rows[0].ChurnStatusID != 1 || rows[2].ChurnStatusID != 3 {
		t.Errorf("Expected sequential keys 1..3, got %d..%d",
			rows[0].ChurnStatusID, rows[2].ChurnStatusID)
	}
}

func TestTimeKey(t *testing.T) {
	d := time.Date(2023, time.July, 4, 0, 0, 0, 0, time.UTC)
	if got := TimeKey(d); got != 20230704 {
		t.Errorf("Expected 20230704, got %d", got)
	}
}

func TestCalendar(t *testing.T) {
	start := time.Date(2023, time.December, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	rows := Calendar(start, end)
	if len(rows) != 4 {
		t.Fatalf("Expected 4 calendar rows, got %d", len(rows))
	}

	first := rows[0]
	if first.TimeID != 20231230 || first.Quarter != 4 || first.Year != 2023 {
		t.Errorf("Unexpected first row: %+v", first)
	}
	if first.DayName != "Saturday" || first.DayOfWeek != int(time.Saturday) {
		t.Errorf("Expected Saturday, got %s/%d", first.DayName, first.DayOfWeek)
	}

	newYear := rows[2]
	if newYear.TimeID != 20240101 || newYear.Quarter != 1 || newYear.MonthName != "January" {
		t.Errorf("Unexpected new year row: %+v", newYear)
	}
}

func TestCalendarSameSpanSameRows(t *testing.T) {
	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, time.March, 31, 0, 0, 0, 0, time.UTC)

	a := Calendar(start, end)
	b := Calendar(start, end)
	if len(a) != len(b) {
		t.Fatalf("Expected identical lengths, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
