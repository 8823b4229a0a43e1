//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StagingProvider reads raw records out of the PostgreSQL staging tables.
type StagingProvider struct {
	pool *pgxpool.Pool
}

// NewStagingProvider creates a provider over the staging tables.
func NewStagingProvider(pool *pgxpool.Pool) *StagingProvider {
	return &StagingProvider{pool: pool}
}

// Records returns all raw records of one source table.
func (p *StagingProvider) Records(ctx context.Context, source Source) ([]RawRecord, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s", source))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var records []RawRecord
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", source, err)
		}
		record := make(RawRecord, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", source, err)
	}

	return records, nil
}

// MemoryProvider serves raw records from memory. Used in tests and
// wherever a caller already holds the extracts.
type MemoryProvider struct {
	Tables map[Source][]RawRecord
}

// Records returns the in-memory records of one source table.
func (p *MemoryProvider) Records(_ context.Context, source Source) ([]RawRecord, error) {
	return p.Tables[source], nil
}
