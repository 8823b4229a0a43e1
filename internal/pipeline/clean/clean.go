//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package clean

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/extract"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/logging"
)

// truthy is the closed-world set of tokens that normalize to true.
// Everything else, including null, normalizes to false.
var truthy = map[string]bool{
	"yes": true,
	"1":   true,
}

// Record is a cleaned, typed row. Values are string, int, float64, or
// bool according to the column's declared kind.
type Record map[string]any

// String returns the cleaned string value of a column.
func (r Record) String(column string) string {
	s, _ := r[column].(string)
	return s
}

// Int returns the cleaned int value of a column.
func (r Record) Int(column string) int {
	n, _ := r[column].(int)
	return n
}

// Float returns the cleaned float value of a column.
func (r Record) Float(column string) float64 {
	f, _ := r[column].(float64)
	return f
}

// Bool returns the cleaned bool value of a column.
func (r Record) Bool(column string) bool {
	b, _ := r[column].(bool)
	return b
}

// CoercionError reports a raw value that cannot be cast to its declared
// type for a mandatory column. It fails the record, never the batch.
type CoercionError struct {
	Source extract.Source
	Column string
	Value  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: cannot coerce %q in mandatory column %s", e.Source, e.Value, e.Column)
}

// Stats summarizes one cleaning pass for the quality report.
type Stats struct {
	RawRecords        int
	CleanRecords      int
	CoercionFailures  int
	DuplicatesDropped int
}

// Apply cleans one source table. Records failing a mandatory cast are
// dropped and counted; surviving records are deduplicated by the
// schema's natural key with an explicit deterministic order
// (lexicographic by natural key, input order breaking ties), so the
// survivor set does not depend on incidental storage order.
func Apply(schema Schema, raws []extract.RawRecord) ([]Record, Stats) {
	stats := Stats{RawRecords: len(raws)}

	cleaned := make([]Record, 0, len(raws))
	for _, raw := range raws {
		record, err := cleanRecord(schema, raw)
		if err != nil {
			stats.CoercionFailures++
			logging.Warn().
				Str("source", string(schema.Source)).
				Err(err).
				Msg("Record failed type coercion")
			continue
		}
		cleaned = append(cleaned, record)
	}

	deduped := dedup(schema, cleaned)
	stats.DuplicatesDropped = len(cleaned) - len(deduped)
	stats.CleanRecords = len(deduped)

	logging.Debug().
		Str("source", string(schema.Source)).
		Int("raw", stats.RawRecords).
		Int("clean", stats.CleanRecords).
		Int("coercion_failures", stats.CoercionFailures).
		Int("duplicates_dropped", stats.DuplicatesDropped).
		Msg("Source cleaned")

	return deduped, stats
}

func cleanRecord(schema Schema, raw extract.RawRecord) (Record, error) {
	record := make(Record, len(schema.Columns))

	for _, col := range schema.Columns {
		value, present := raw.Get(col.Name)
		trimmed := strings.TrimSpace(value)

		switch col.Kind {
		case KindBool:
			record[col.Name] = truthy[strings.ToLower(trimmed)]

		case KindString:
			s := trimmed
			if !present || s == "" {
				if d, ok := col.Default.(string); ok {
					s = d
				}
			}
			if !col.CasePreserve {
				s = strings.ToUpper(s)
			}
			if col.Required && s == "" {
				return nil, &CoercionError{Source: schema.Source, Column: col.Name, Value: value}
			}
			if len(col.Valid) > 0 && !contains(col.Valid, s) {
				s = Unknown
			}
			record[col.Name] = s

		case KindInt:
			if !present || trimmed == "" {
				if col.Required {
					return nil, &CoercionError{Source: schema.Source, Column: col.Name, Value: value}
				}
				record[col.Name] = intDefault(col)
				continue
			}
			n, err := strconv.Atoi(trimmed)
			if err != nil {
				if col.Required {
					return nil, &CoercionError{Source: schema.Source, Column: col.Name, Value: value}
				}
				record[col.Name] = intDefault(col)
				continue
			}
			record[col.Name] = n

		case KindFloat:
			if !present || trimmed == "" {
				if col.Required {
					return nil, &CoercionError{Source: schema.Source, Column: col.Name, Value: value}
				}
				record[col.Name] = floatDefault(col)
				continue
			}
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				if col.Required {
					return nil, &CoercionError{Source: schema.Source, Column: col.Name, Value: value}
				}
				record[col.Name] = floatDefault(col)
				continue
			}
			record[col.Name] = f
		}
	}

	return record, nil
}

// dedup keeps exactly one record per natural key. Records are stably
// sorted by key first, so the survivor is well defined even when the
// provider's order changes between runs.
func dedup(schema Schema, records []Record) []Record {
	sort.SliceStable(records, func(i, j int) bool {
		return naturalKey(schema, records[i]) < naturalKey(schema, records[j])
	})

	seen := make(map[string]bool, len(records))
	survivors := make([]Record, 0, len(records))
	for _, record := range records {
		key := naturalKey(schema, record)
		if seen[key] {
			continue
		}
		seen[key] = true
		survivors = append(survivors, record)
	}
	return survivors
}

func naturalKey(schema Schema, record Record) string {
	parts := make([]string, len(schema.NaturalKey))
	for i, col := range schema.NaturalKey {
		parts[i] = fmt.Sprintf("%v", record[col])
	}
	return strings.Join(parts, "\x1f")
}

func intDefault(col ColumnSpec) int {
	if d, ok := col.Default.(int); ok {
		return d
	}
	return 0
}

func floatDefault(col ColumnSpec) float64 {
	if d, ok := col.Default.(float64); ok {
		return d
	}
	return 0
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
