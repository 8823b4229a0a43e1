//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract defines the raw extract staging area and the provider
// abstraction the pipeline reads raw records through.
package extract

import "context"

// Source identifies a raw extract table.
type Source string

// The six raw extract sources.
const (
	SourceChurn        Source = "raw_churn"
	SourceDemographics Source = "raw_demographics"
	SourceLocation     Source = "raw_location"
	SourcePopulation   Source = "raw_population"
	SourceServices     Source = "raw_services"
	SourceStatus       Source = "raw_status"
)

// Sources lists all raw extract sources in a stable order.
var Sources = []Source{
	SourceChurn,
	SourceDemographics,
	SourceLocation,
	SourcePopulation,
	SourceServices,
	SourceStatus,
}

// RawRecord is a loosely typed raw row: column name to raw value.
// Values are strings as delivered by the upstream extract, or nil for
// absent/null columns. Raw records are ephemeral; nothing retains them
// after a transformation pass.
type RawRecord map[string]any

// Get returns the raw string value of a column, with ok reporting
// whether the column is present and non-null.
func (r RawRecord) Get(column string) (string, bool) {
	v, present := r[column]
	if !present || v == nil {
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		return "", false
	}
	return s, true
}

// Provider exposes raw extract records, one finite sequence per source
// table. Implementations must tolerate absent columns.
type Provider interface {
	Records(ctx context.Context, source Source) ([]RawRecord, error)
}
