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

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/derive"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/dims"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/facts"
)

// InsertCustomers inserts customer rows that do not already exist by
// natural key. Existing rows are never updated. Returns the number of
// rows actually inserted.
func InsertCustomers(ctx context.Context, pool *pgxpool.Pool, rows []dims.CustomerRow) (int64, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
            INSERT INTO dim_customer (
                customer_id, gender, age, senior_citizen, partner, dependents,
                married, number_of_dependents, age_bucket
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            ON CONFLICT (customer_id) DO NOTHING
        `, r.CustomerID, r.Gender, r.Age, r.SeniorCitizen, r.Partner,
			r.Dependents, r.Married, r.NumberOfDependents, r.AgeBucket)
	}
	return sendInsertBatch(ctx, pool, batch, "dim_customer")
}

// InsertLocations inserts location rows that do not already exist by
// zip code.
func InsertLocations(ctx context.Context, pool *pgxpool.Pool, rows []dims.LocationRow) (int64, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
            INSERT INTO dim_location (
                location_id, zip_code, country, state, city,
                latitude, longitude, population
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT (zip_code) DO NOTHING
        `, r.LocationID, r.ZipCode, r.Country, r.State, r.City,
			r.Latitude, r.Longitude, r.Population)
	}
	return sendInsertBatch(ctx, pool, batch, "dim_location")
}

// InsertServices inserts service rows that do not already exist by
// (customer, quarter).
func InsertServices(ctx context.Context, pool *pgxpool.Pool, rows []dims.ServiceRow) (int64, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
            INSERT INTO dim_service (
                service_id, customer_id, quarter, quarter_end_date,
                phone_service, multiple_lines, internet_service, internet_type,
                online_security, streaming_tv, contract, paperless_billing,
                payment_method, avg_monthly_long_distance_charges,
                avg_monthly_gb_download
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
            ON CONFLICT (customer_id, quarter) DO NOTHING
        `, r.ServiceID, r.CustomerID, r.Quarter, r.QuarterEndDate,
			r.PhoneService, r.MultipleLines, r.InternetService, r.InternetType,
			r.OnlineSecurity, r.StreamingTV, r.Contract, r.PaperlessBilling,
			r.PaymentMethod, r.AvgMonthlyLongDistanceCharges, r.AvgMonthlyGBDownload)
	}
	return sendInsertBatch(ctx, pool, batch, "dim_service")
}

// InsertChurnStatuses inserts status rows that do not already exist by
// (customer, category).
func InsertChurnStatuses(ctx context.Context, pool *pgxpool.Pool, rows []dims.ChurnStatusRow) (int64, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
            INSERT INTO dim_churn_status (churn_status_id, customer_id, churn_category)
            VALUES ($1, $2, $3)
            ON CONFLICT (customer_id, churn_category) DO NOTHING
        `, r.ChurnStatusID, r.CustomerID, r.ChurnCategory)
	}
	return sendInsertBatch(ctx, pool, batch, "dim_churn_status")
}

// InsertTimeRows inserts calendar rows that do not already exist.
// Regenerating an already-covered span inserts nothing.
func InsertTimeRows(ctx context.Context, pool *pgxpool.Pool, rows []dims.TimeRow) (int64, error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
            INSERT INTO dim_time (
                time_id, date, day, month, month_name, quarter, year,
                day_of_week, day_name
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            ON CONFLICT (time_id) DO NOTHING
        `, r.TimeID, r.Date, r.Day, r.Month, r.MonthName, r.Quarter,
			r.Year, r.DayOfWeek, r.DayName)
	}
	return sendInsertBatch(ctx, pool, batch, "dim_time")
}

func sendInsertBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch, table string) (int64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// MaxLocationID returns the highest location surrogate key, zero when
// the dimension is empty. Allocators are seeded from it.
func MaxLocationID(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	return maxKey(ctx, pool, `SELECT COALESCE(MAX(location_id), 0) FROM dim_location`)
}

// MaxServiceID returns the highest service surrogate key.
func MaxServiceID(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	return maxKey(ctx, pool, `SELECT COALESCE(MAX(service_id), 0) FROM dim_service`)
}

// MaxChurnStatusID returns the highest churn status surrogate key.
func MaxChurnStatusID(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	return maxKey(ctx, pool, `SELECT COALESCE(MAX(churn_status_id), 0) FROM dim_churn_status`)
}

func maxKey(ctx context.Context, pool *pgxpool.Pool, sql string) (int64, error) {
	var max int64
	if err := pool.QueryRow(ctx, sql).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// TimeSpan returns the lowest and highest calendar keys, or ok=false
// when the time dimension is empty. The builder superset-checks the
// configured span against it before regenerating.
func TimeSpan(ctx context.Context, pool *pgxpool.Pool) (min, max int, ok bool, err error) {
	var count int
	err = pool.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(MIN(time_id), 0), COALESCE(MAX(time_id), 0) FROM dim_time
    `).Scan(&count, &min, &max)
	if err != nil {
		return 0, 0, false, err
	}
	return min, max, count > 0, nil
}

// ReplaceFacts replaces the full fact table with the composed rows in
// one transaction. A failure midway leaves the prior fact set intact.
func ReplaceFacts(ctx context.Context, pool *pgxpool.Pool, rows []facts.FactRow) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM fact_churn`); err != nil {
		return fmt.Errorf("failed to clear fact_churn: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"fact_churn"},
		[]string{
			"fact_id", "customer_id", "location_id", "service_id", "time_id",
			"churn_status_id", "tenure_months", "monthly_charge",
			"total_charges", "churn_score", "cltv",
		},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{
				r.FactID, r.CustomerID, r.LocationID, r.ServiceID, r.TimeID,
				r.ChurnStatusID, r.TenureMonths, r.MonthlyCharge,
				r.TotalCharges, r.ChurnScore, r.CLTV,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to populate fact_churn: %w", err)
	}

	return tx.Commit(ctx)
}

// ReplaceProfiles overwrites the derived customer profile table in one
// transaction.
func ReplaceProfiles(ctx context.Context, pool *pgxpool.Pool, rows []derive.ProfileRow) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM customer_profile`); err != nil {
		return fmt.Errorf("failed to clear customer_profile: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"customer_profile"},
		[]string{"customer_id", "tenure_bucket", "revenue_flag", "risk_category", "customer_value"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{r.CustomerID, r.TenureBucket, r.RevenueFlag, r.RiskCategory, r.CustomerValue}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to populate customer_profile: %w", err)
	}

	return tx.Commit(ctx)
}
