//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/aggregate"
)

// measureColumns are the shared summary columns of every aggregate
// table. churn_rate is nullable: a grain with zero customers has no
// rate.
const measureColumns = `
    customers            INTEGER NOT NULL,
    total_monthly_charge DOUBLE PRECISION NOT NULL,
    avg_monthly_charge   DOUBLE PRECISION NOT NULL,
    churned              INTEGER NOT NULL,
    churn_rate           DOUBLE PRECISION`

var measureNames = []string{
	"customers", "total_monthly_charge", "avg_monthly_charge", "churned", "churn_rate",
}

func measureValues(m aggregate.Measures) []any {
	return []any{m.Customers, m.TotalMonthlyCharge, m.AvgMonthlyCharge, m.Churned, m.ChurnRate}
}

// replaceAggregate drops, recreates, and repopulates one aggregate
// table inside a single transaction.
func replaceAggregate(ctx context.Context, pool *pgxpool.Pool, table, keyColumns string,
	keyNames []string, count int, row func(i int) ([]any, error)) error {

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s,%s\n)", table, keyColumns, measureColumns)
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	columns := append(append([]string{}, keyNames...), measureNames...)
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromSlice(count, row)); err != nil {
		return fmt.Errorf("failed to populate %s: %w", table, err)
	}

	return tx.Commit(ctx)
}

// ReplaceCustomerAggregate rebuilds agg_churn_by_customer.
func ReplaceCustomerAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.CustomerRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_by_customer",
		"\n    customer_id TEXT PRIMARY KEY,", []string{"customer_id"},
		len(rows), func(i int) ([]any, error) {
			return append([]any{rows[i].CustomerID}, measureValues(rows[i].Measures)...), nil
		})
}

// ReplaceLocationAggregate rebuilds agg_churn_by_location.
func ReplaceLocationAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.LocationRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_by_location",
		"\n    location_id BIGINT PRIMARY KEY,", []string{"location_id"},
		len(rows), func(i int) ([]any, error) {
			return append([]any{rows[i].LocationID}, measureValues(rows[i].Measures)...), nil
		})
}

// ReplaceContractAggregate rebuilds agg_churn_by_contract.
func ReplaceContractAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.ContractRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_by_contract",
		"\n    contract TEXT PRIMARY KEY,", []string{"contract"},
		len(rows), func(i int) ([]any, error) {
			return append([]any{rows[i].Contract}, measureValues(rows[i].Measures)...), nil
		})
}

// ReplaceTimeAggregate rebuilds agg_churn_by_time.
func ReplaceTimeAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.TimeRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_by_time",
		"\n    time_id INTEGER PRIMARY KEY,\n    year INTEGER NOT NULL,\n    quarter INTEGER NOT NULL,",
		[]string{"time_id", "year", "quarter"},
		len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return append([]any{r.TimeID, r.Year, r.Quarter}, measureValues(r.Measures)...), nil
		})
}

// ReplaceServiceTypeAggregate rebuilds agg_churn_by_service.
func ReplaceServiceTypeAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.ServiceTypeRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_by_service",
		"\n    internet_type TEXT PRIMARY KEY,", []string{"internet_type"},
		len(rows), func(i int) ([]any, error) {
			return append([]any{rows[i].InternetType}, measureValues(rows[i].Measures)...), nil
		})
}

// ReplaceDemographicsAggregate rebuilds agg_churn_by_demographics.
func ReplaceDemographicsAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.DemographicsRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_by_demographics",
		"\n    gender TEXT NOT NULL,\n    age_bucket TEXT NOT NULL,\n    PRIMARY KEY (gender, age_bucket),",
		[]string{"gender", "age_bucket"},
		len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return append([]any{r.Gender, r.AgeBucket}, measureValues(r.Measures)...), nil
		})
}

// ReplaceTrendAggregate rebuilds agg_churn_trend.
func ReplaceTrendAggregate(ctx context.Context, pool *pgxpool.Pool, rows []aggregate.TrendRow) error {
	return replaceAggregate(ctx, pool, "agg_churn_trend",
		"\n    time_id INTEGER PRIMARY KEY,\n    year INTEGER NOT NULL,\n    quarter INTEGER NOT NULL,",
		[]string{"time_id", "year", "quarter"},
		len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return append([]any{r.TimeID, r.Year, r.Quarter}, measureValues(r.Measures)...), nil
		})
}
