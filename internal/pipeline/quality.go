//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/logging"
)

// QualityReport accumulates the record-level failures recovered across
// a run. Stage-level failures abort the run instead and never appear
// here.
type QualityReport struct {
	RawRecords        int
	CleanRecords      int
	CoercionFailures  int
	DuplicatesDropped int
	FactsComposed     int
	FactsSkipped      int
	AmbiguousLinks    int
}

// Log writes the report at the end of a run.
func (q QualityReport) Log() {
	logging.Info().
		Int("raw_records", q.RawRecords).
		Int("clean_records", q.CleanRecords).
		Int("coercion_failures", q.CoercionFailures).
		Int("duplicates_dropped", q.DuplicatesDropped).
		Int("facts_composed", q.FactsComposed).
		Int("facts_skipped", q.FactsSkipped).
		Int("ambiguous_links", q.AmbiguousLinks).
		Msg("Run quality report")
}
