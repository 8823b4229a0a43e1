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

	"github.com/jackc/pgx/v5/pgxpool"
)

// Staging tables are deliberately loose: every column is TEXT and
// nullable. Typing, trimming, and dedup happen in the cleaning stage,
// never on the way in.
const createStagingSQL = `
CREATE TABLE IF NOT EXISTS raw_churn (
    customer_id     TEXT,
    gender          TEXT,
    senior_citizen  TEXT,
    partner         TEXT,
    dependents      TEXT,
    tenure_months   TEXT,
    monthly_charge  TEXT,
    total_charges   TEXT,
    churn_label     TEXT,
    churn_score     TEXT
);

CREATE TABLE IF NOT EXISTS raw_demographics (
    customer_id          TEXT,
    gender               TEXT,
    age                  TEXT,
    married              TEXT,
    number_of_dependents TEXT
);

CREATE TABLE IF NOT EXISTS raw_location (
    customer_id TEXT,
    country     TEXT,
    state       TEXT,
    city        TEXT,
    zip_code    TEXT,
    latitude    TEXT,
    longitude   TEXT
);

CREATE TABLE IF NOT EXISTS raw_population (
    zip_code   TEXT,
    population TEXT
);

CREATE TABLE IF NOT EXISTS raw_services (
    customer_id                       TEXT,
    quarter                           TEXT,
    quarter_end_date                  TEXT,
    phone_service                     TEXT,
    multiple_lines                    TEXT,
    internet_service                  TEXT,
    internet_type                     TEXT,
    online_security                   TEXT,
    streaming_tv                      TEXT,
    contract                          TEXT,
    paperless_billing                 TEXT,
    payment_method                    TEXT,
    avg_monthly_long_distance_charges TEXT,
    avg_monthly_gb_download           TEXT
);

CREATE TABLE IF NOT EXISTS raw_status (
    customer_id        TEXT,
    churn_category     TEXT,
    churn_reason       TEXT,
    satisfaction_score TEXT
);
`

const dropStagingSQL = `
DROP TABLE IF EXISTS raw_churn;
DROP TABLE IF EXISTS raw_demographics;
DROP TABLE IF EXISTS raw_location;
DROP TABLE IF EXISTS raw_population;
DROP TABLE IF EXISTS raw_services;
DROP TABLE IF EXISTS raw_status;
`

// CreateStagingSchema creates the raw extract staging tables.
func CreateStagingSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createStagingSQL)
	return err
}

// DropStagingSchema drops the raw extract staging tables.
func DropStagingSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropStagingSQL)
	return err
}

// TruncateStaging clears all staging tables.
func TruncateStaging(ctx context.Context, pool *pgxpool.Pool) error {
	for _, source := range Sources {
		if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+string(source)); err != nil {
			return err
		}
	}
	return nil
}
