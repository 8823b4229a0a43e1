//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package clean normalizes raw extract records: column typing, boolean
// and text normalization, categorical validation, default fill, and
// natural-key deduplication.
package clean

import (
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/extract"
)

// Kind is the semantic type of a column.
type Kind int

// Column kinds.
const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// Unknown is the sentinel for categorical values outside the valid set.
const Unknown = "UNKNOWN"

// ColumnSpec declares how one raw column is cleaned.
type ColumnSpec struct {
	// Name is the raw column name.
	Name string

	// Kind is the semantic type the raw value is cast to.
	Kind Kind

	// Required fails the record (not the batch) when the raw value is
	// absent or cannot be cast.
	Required bool

	// CasePreserve skips the uppercase normalization for text columns.
	CasePreserve bool

	// Valid is the enumerated valid set for categorical columns.
	// Values outside the set are replaced with Unknown, not rejected.
	// Entries are compared after normalization (trimmed, uppercased).
	Valid []string

	// Default fills absent or null-coerced values. String columns
	// default to "", numeric columns to 0 unless overridden here.
	Default any
}

// Schema declares the cleaning rules for one source table.
type Schema struct {
	Source extract.Source

	// NaturalKey partitions records for dedup; exactly one record per
	// distinct key survives cleaning.
	NaturalKey []string

	Columns []ColumnSpec
}

// ChurnSchema cleans the account/churn source.
var ChurnSchema = Schema{
	Source:     extract.SourceChurn,
	NaturalKey: []string{"customer_id"},
	Columns: []ColumnSpec{
		{Name: "customer_id", Kind: KindString, Required: true, CasePreserve: true},
		{Name: "gender", Kind: KindString, Valid: []string{"MALE", "FEMALE"}},
		{Name: "senior_citizen", Kind: KindBool},
		{Name: "partner", Kind: KindBool},
		{Name: "dependents", Kind: KindBool},
		{Name: "tenure_months", Kind: KindInt, Required: true},
		{Name: "monthly_charge", Kind: KindFloat, Default: 0.0},
		{Name: "total_charges", Kind: KindFloat, Default: 0.0},
		{Name: "churn_label", Kind: KindString, Valid: []string{"YES", "NO"}},
		{Name: "churn_score", Kind: KindInt, Default: -1},
	},
}

// DemographicsSchema cleans the demographics source.
var DemographicsSchema = Schema{
	Source:     extract.SourceDemographics,
	NaturalKey: []string{"customer_id"},
	Columns: []ColumnSpec{
		{Name: "customer_id", Kind: KindString, Required: true, CasePreserve: true},
		{Name: "gender", Kind: KindString, Valid: []string{"MALE", "FEMALE"}},
		{Name: "age", Kind: KindInt, Default: 0},
		{Name: "married", Kind: KindBool},
		{Name: "number_of_dependents", Kind: KindInt, Default: 0},
	},
}

// LocationSchema cleans the per-customer location source.
var LocationSchema = Schema{
	Source:     extract.SourceLocation,
	NaturalKey: []string{"customer_id"},
	Columns: []ColumnSpec{
		{Name: "customer_id", Kind: KindString, Required: true, CasePreserve: true},
		{Name: "country", Kind: KindString},
		{Name: "state", Kind: KindString},
		{Name: "city", Kind: KindString},
		{Name: "zip_code", Kind: KindString, Required: true, CasePreserve: true, Default: "0"},
		{Name: "latitude", Kind: KindFloat, Default: 0.0},
		{Name: "longitude", Kind: KindFloat, Default: 0.0},
	},
}

// PopulationSchema cleans the zip population reference source.
var PopulationSchema = Schema{
	Source:     extract.SourcePopulation,
	NaturalKey: []string{"zip_code"},
	Columns: []ColumnSpec{
		{Name: "zip_code", Kind: KindString, Required: true, CasePreserve: true},
		{Name: "population", Kind: KindInt, Required: true},
	},
}

// ServicesSchema cleans the per-quarter service profile source.
var ServicesSchema = Schema{
	Source:     extract.SourceServices,
	NaturalKey: []string{"customer_id", "quarter"},
	Columns: []ColumnSpec{
		{Name: "customer_id", Kind: KindString, Required: true, CasePreserve: true},
		{Name: "quarter", Kind: KindString, Valid: []string{"Q1", "Q2", "Q3", "Q4"}},
		{Name: "quarter_end_date", Kind: KindString, CasePreserve: true},
		{Name: "phone_service", Kind: KindBool},
		{Name: "multiple_lines", Kind: KindBool},
		{Name: "internet_service", Kind: KindBool},
		{Name: "internet_type", Kind: KindString, Valid: []string{"DSL", "FIBER OPTIC", "CABLE", "NONE"}},
		{Name: "online_security", Kind: KindBool},
		{Name: "streaming_tv", Kind: KindBool},
		{Name: "contract", Kind: KindString, Valid: []string{"MONTH-TO-MONTH", "ONE YEAR", "TWO YEAR"}},
		{Name: "paperless_billing", Kind: KindBool},
		{Name: "payment_method", Kind: KindString, Valid: []string{"BANK WITHDRAWAL", "CREDIT CARD", "MAILED CHECK"}},
		{Name: "avg_monthly_long_distance_charges", Kind: KindFloat, Default: 0.0},
		{Name: "avg_monthly_gb_download", Kind: KindFloat, Default: 0.0},
	},
}

// StatusSchema cleans the churn status source.
var StatusSchema = Schema{
	Source:     extract.SourceStatus,
	NaturalKey: []string{"customer_id", "churn_category"},
	Columns: []ColumnSpec{
		{Name: "customer_id", Kind: KindString, Required: true, CasePreserve: true},
		{Name: "churn_category", Kind: KindString, Valid: []string{"COMPETITOR", "DISSATISFACTION", "ATTITUDE", "PRICE", "OTHER"}},
		{Name: "churn_reason", Kind: KindString, CasePreserve: true},
		{Name: "satisfaction_score", Kind: KindInt, Default: 0},
	},
}

// Schemas maps each source to its cleaning schema.
var Schemas = map[extract.Source]Schema{
	extract.SourceChurn:        ChurnSchema,
	extract.SourceDemographics: DemographicsSchema,
	extract.SourceLocation:     LocationSchema,
	extract.SourcePopulation:   PopulationSchema,
	extract.SourceServices:     ServicesSchema,
	extract.SourceStatus:       StatusSchema,
}
