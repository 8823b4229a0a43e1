//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunLog is one row of the pipeline run journal.
type RunLog struct {
	ID             int64
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         string
	RawRecords     int
	FactsWritten   int
	RecordsSkipped int
	AmbiguousLinks int
	ErrorMessage   string
}

// Run statuses recorded in the journal.
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusFailed     = "failed"
)

const createRunLogTableSQL = `
CREATE TABLE IF NOT EXISTS warehouse_run_log (
    id              BIGSERIAL PRIMARY KEY,
    started_at      TIMESTAMPTZ NOT NULL,
    finished_at     TIMESTAMPTZ,
    status          TEXT NOT NULL,
    raw_records     INTEGER NOT NULL DEFAULT 0,
    facts_written   INTEGER NOT NULL DEFAULT 0,
    records_skipped INTEGER NOT NULL DEFAULT 0,
    ambiguous_links INTEGER NOT NULL DEFAULT 0,
    error_message   TEXT NOT NULL DEFAULT ''
)`

// CreateRunLogTable creates the run journal table if it doesn't exist.
func CreateRunLogTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createRunLogTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create run log table: %w", err)
	}
	return nil
}

// StartRun inserts an in-progress journal entry and returns its id.
func StartRun(ctx context.Context, pool *pgxpool.Pool, startedAt time.Time) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
        INSERT INTO warehouse_run_log (started_at, status)
        VALUES ($1, $2)
        RETURNING id
    `, startedAt, RunStatusInProgress).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run log entry: %w", err)
	}
	return id, nil
}

// FinishRunSuccess marks a journal entry as successful with run counters.
func FinishRunSuccess(ctx context.Context, pool *pgxpool.Pool, id int64, rawRecords, factsWritten, recordsSkipped, ambiguousLinks int) error {
	_, err := pool.Exec(ctx, `
        UPDATE warehouse_run_log
        SET finished_at = $2, status = $3, raw_records = $4,
            facts_written = $5, records_skipped = $6, ambiguous_links = $7
        WHERE id = $1
    `, id, time.Now().UTC(), RunStatusSuccess, rawRecords, factsWritten, recordsSkipped, ambiguousLinks)
	if err != nil {
		return fmt.Errorf("failed to update run log entry %d: %w", id, err)
	}
	return nil
}

// FinishRunFailure marks a journal entry as failed.
func FinishRunFailure(ctx context.Context, pool *pgxpool.Pool, id int64, errorMessage string) error {
	_, err := pool.Exec(ctx, `
        UPDATE warehouse_run_log
        SET finished_at = $2, status = $3, error_message = $4
        WHERE id = $1
    `, id, time.Now().UTC(), RunStatusFailed, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update run log entry %d: %w", id, err)
	}
	return nil
}

// RecentRuns returns the most recent journal entries, newest first.
func RecentRuns(ctx context.Context, pool *pgxpool.Pool, limit int) ([]RunLog, error) {
	rows, err := pool.Query(ctx, `
        SELECT id, started_at, finished_at, status, raw_records,
               facts_written, records_skipped, ambiguous_links, error_message
        FROM warehouse_run_log
        ORDER BY started_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run log: %w", err)
	}
	defer rows.Close()

	var runs []RunLog
	for rows.Next() {
		var r RunLog
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.RawRecords,
			&r.FactsWritten, &r.RecordsSkipped, &r.AmbiguousLinks, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run log row: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
