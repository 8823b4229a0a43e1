package clean

import (
	"testing"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/extract"
)

func churnRaw(overrides map[string]any) extract.RawRecord {
	raw := extract.RawRecord{
		"customer_id":    "0001-AAAAA",
		"gender":         "Male",
		"senior_citizen": "No",
		"partner":        "Yes",
		"dependents":     "No",
		"tenure_months":  "24",
		"monthly_charge": "65.50",
		"total_charges":  "1572.00",
		"churn_label":    "No",
		"churn_score":    "40",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	return raw
}

func TestBooleanNormalization(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{name: "capitalized yes", raw: "Yes", want: true},
		{name: "numeric one", raw: "1", want: true},
		{name: "padded yes", raw: " yes ", want: true},
		{name: "no", raw: "No", want: false},
		{name: "numeric zero", raw: "0", want: false},
		{name: "empty", raw: "", want: false},
		{name: "null", raw: nil, want: false},
		{name: "unrelated token", raw: "true", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, stats := Apply(ChurnSchema, []extract.RawRecord{
				churnRaw(map[string]any{"partner": tt.raw}),
			})
			if stats.CoercionFailures != 0 {
				t.Fatalf("Unexpected coercion failures: %d", stats.CoercionFailures)
			}
			if len(records) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(records))
			}
			if got := records[0].Bool("partner"); got != tt.want {
				t.Errorf("Expected partner=%v for raw %q, got %v", tt.want, tt.raw, got)
			}
		})
	}
}

func TestTextNormalization(t *testing.T) {
	records, _ := Apply(ChurnSchema, []extract.RawRecord{
		churnRaw(map[string]any{"gender": "  male "}),
	})
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if got := records[0].String("gender"); got != "MALE" {
		t.Errorf("Expected gender 'MALE', got '%s'", got)
	}
	// case-preserving natural key is trimmed but keeps its case
	if got := records[0].String("customer_id"); got != "0001-AAAAA" {
		t.Errorf("Expected customer_id unchanged, got '%s'", got)
	}
}

func TestCategoricalOutsideValidSet(t *testing.T) {
	records, _ := Apply(ServicesSchema, []extract.RawRecord{
		{
			"customer_id":   "0001-AAAAA",
			"quarter":       "Q3",
			"internet_type": "5G-Trial",
			"contract":      "Month-to-Month",
		},
	})
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if got := records[0].String("internet_type"); got != Unknown {
		t.Errorf("Expected internet_type '%s', got '%s'", Unknown, got)
	}
	if got := records[0].String("contract"); got != "MONTH-TO-MONTH" {
		t.Errorf("Expected contract 'MONTH-TO-MONTH', got '%s'", got)
	}
}

func TestNumericDefaults(t *testing.T) {
	records, stats := Apply(ChurnSchema, []extract.RawRecord{
		churnRaw(map[string]any{
			"total_charges":  " ", // blank billing export value
			"monthly_charge": nil,
			"churn_score":    nil,
		}),
	})
	if stats.CoercionFailures != 0 {
		t.Fatalf("Unexpected coercion failures: %d", stats.CoercionFailures)
	}
	if got := records[0].Float("total_charges"); got != 0 {
		t.Errorf("Expected total_charges 0, got %v", got)
	}
	if got := records[0].Float("monthly_charge"); got != 0 {
		t.Errorf("Expected monthly_charge 0, got %v", got)
	}
	if got := records[0].Int("churn_score"); got != -1 {
		t.Errorf("Expected missing churn_score -1, got %v", got)
	}
}

func TestMandatoryCoercionFailsRecordNotBatch(t *testing.T) {
	records, stats := Apply(ChurnSchema, []extract.RawRecord{
		churnRaw(map[string]any{"customer_id": "0001-AAAAA", "tenure_months": "not-a-number"}),
		churnRaw(map[string]any{"customer_id": "0002-BBBBB"}),
	})
	if stats.CoercionFailures != 1 {
		t.Errorf("Expected 1 coercion failure, got %d", stats.CoercionFailures)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 surviving record, got %d", len(records))
	}
	if got := records[0].String("customer_id"); got != "0002-BBBBB" {
		t.Errorf("Expected survivor '0002-BBBBB', got '%s'", got)
	}
}

func TestMissingMandatoryColumnFailsRecord(t *testing.T) {
	raw := churnRaw(nil)
	delete(raw, "customer_id")

	records, stats := Apply(ChurnSchema, []extract.RawRecord{raw})
	if stats.CoercionFailures != 1 {
		t.Errorf("Expected 1 coercion failure, got %d", stats.CoercionFailures)
	}
	if len(records) != 0 {
		t.Errorf("Expected no surviving records, got %d", len(records))
	}
}

func TestDedupSingleSurvivorPerNaturalKey(t *testing.T) {
	records, stats := Apply(ChurnSchema, []extract.RawRecord{
		churnRaw(map[string]any{"customer_id": "C1", "monthly_charge": "10.00"}),
		churnRaw(map[string]any{"customer_id": "C1", "monthly_charge": "99.00"}),
	})
	if len(records) != 1 {
		t.Fatalf("Expected exactly 1 record for C1, got %d", len(records))
	}
	if stats.DuplicatesDropped != 1 {
		t.Errorf("Expected 1 duplicate dropped, got %d", stats.DuplicatesDropped)
	}
	// first-seen wins within a partition
	if got := records[0].Float("monthly_charge"); got != 10.00 {
		t.Errorf("Expected first-seen monthly_charge 10.00, got %v", got)
	}
}

func TestDedupOrderIndependence(t *testing.T) {
	a := churnRaw(map[string]any{"customer_id": "C2"})
	b := churnRaw(map[string]any{"customer_id": "C1"})

	records, _ := Apply(ChurnSchema, []extract.RawRecord{a, b})
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	// output is ordered by natural key regardless of input order
	if records[0].String("customer_id") != "C1" || records[1].String("customer_id") != "C2" {
		t.Errorf("Expected records ordered C1, C2; got %s, %s",
			records[0].String("customer_id"), records[1].String("customer_id"))
	}
}

func TestCompositeNaturalKeyDedup(t *testing.T) {
	records, stats := Apply(ServicesSchema, []extract.RawRecord{
		{"customer_id": "C1", "quarter": "Q1"},
		{"customer_id": "C1", "quarter": "Q2"},
		{"customer_id": "C1", "quarter": "Q2"},
	})
	if len(records) != 2 {
		t.Fatalf("Expected 2 records (Q1, Q2), got %d", len(records))
	}
	if stats.DuplicatesDropped != 1 {
		t.Errorf("Expected 1 duplicate dropped, got %d", stats.DuplicatesDropped)
	}
}
