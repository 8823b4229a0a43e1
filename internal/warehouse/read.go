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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/dims"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/facts"
)

// LoadFacts returns the full fact table in key order.
func LoadFacts(ctx context.Context, pool *pgxpool.Pool) ([]facts.FactRow, error) {
	rows, err := pool.Query(ctx, `
        SELECT fact_id, customer_id, location_id, service_id, time_id,
               churn_status_id, tenure_months, monthly_charge, total_charges,
               churn_score, cltv
        FROM fact_churn
        ORDER BY fact_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []facts.FactRow
	for rows.Next() {
		var f facts.FactRow
		err := rows.Scan(&f.FactID, &f.CustomerID, &f.LocationID, &f.ServiceID,
			&f.TimeID, &f.ChurnStatusID, &f.TenureMonths, &f.MonthlyCharge,
			&f.TotalCharges, &f.ChurnScore, &f.CLTV)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// LocationIDsByZip returns the location surrogate key per zip code.
func LocationIDsByZip(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	rows, err := pool.Query(ctx, `SELECT zip_code, location_id FROM dim_location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byZip := make(map[string]int64)
	for rows.Next() {
		var zip string
		var id int64
		if err := rows.Scan(&zip, &id); err != nil {
			return nil, err
		}
		byZip[zip] = id
	}
	return byZip, rows.Err()
}

// LoadServices returns the full service dimension.
func LoadServices(ctx context.Context, pool *pgxpool.Pool) ([]dims.ServiceRow, error) {
	rows, err := pool.Query(ctx, `
        SELECT service_id, customer_id, quarter, quarter_end_date,
               phone_service, multiple_lines, internet_service, internet_type,
               online_security, streaming_tv, contract, paperless_billing,
               payment_method, avg_monthly_long_distance_charges,
               avg_monthly_gb_download
        FROM dim_service
        ORDER BY service_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []dims.ServiceRow
	for rows.Next() {
		var s dims.ServiceRow
		err := rows.Scan(&s.ServiceID, &s.CustomerID, &s.Quarter, &s.QuarterEndDate,
			&s.PhoneService, &s.MultipleLines, &s.InternetService, &s.InternetType,
			&s.OnlineSecurity, &s.StreamingTV, &s.Contract, &s.PaperlessBilling,
			&s.PaymentMethod, &s.AvgMonthlyLongDistanceCharges, &s.AvgMonthlyGBDownload)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// LoadChurnStatuses returns the full churn status dimension.
func LoadChurnStatuses(ctx context.Context, pool *pgxpool.Pool) ([]dims.ChurnStatusRow, error) {
	rows, err := pool.Query(ctx, `
        SELECT churn_status_id, customer_id, churn_category
        FROM dim_churn_status
        ORDER BY churn_status_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []dims.ChurnStatusRow
	for rows.Next() {
		var s dims.ChurnStatusRow
		if err := rows.Scan(&s.ChurnStatusID, &s.CustomerID, &s.ChurnCategory); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// LoadCustomers returns the customer dimension keyed by customer id.
func LoadCustomers(ctx context.Context, pool *pgxpool.Pool) (map[string]dims.CustomerRow, error) {
	rows, err := pool.Query(ctx, `
        SELECT customer_id, gender, age, senior_citizen, partner, dependents,
               married, number_of_dependents, age_bucket
        FROM dim_customer
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make(map[string]dims.CustomerRow)
	for rows.Next() {
		var c dims.CustomerRow
		err := rows.Scan(&c.CustomerID, &c.Gender, &c.Age, &c.SeniorCitizen,
			&c.Partner, &c.Dependents, &c.Married, &c.NumberOfDependents, &c.AgeBucket)
		if err != nil {
			return nil, err
		}
		customers[c.CustomerID] = c
	}
	return customers, rows.Err()
}

// LoadTimeIDs returns the set of calendar keys.
func LoadTimeIDs(ctx context.Context, pool *pgxpool.Pool) (map[int]bool, error) {
	rows, err := pool.Query(ctx, `SELECT time_id FROM dim_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// LoadTimeRows returns the time dimension keyed by calendar key.
func LoadTimeRows(ctx context.Context, pool *pgxpool.Pool) (map[int]dims.TimeRow, error) {
	rows, err := pool.Query(ctx, `
        SELECT time_id, date, day, month, month_name, quarter, year,
               day_of_week, day_name
        FROM dim_time
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calendar := make(map[int]dims.TimeRow)
	for rows.Next() {
		var t dims.TimeRow
		err := rows.Scan(&t.TimeID, &t.Date, &t.Day, &t.Month, &t.MonthName,
			&t.Quarter, &t.Year, &t.DayOfWeek, &t.DayName)
		if err != nil {
			return nil, err
		}
		calendar[t.TimeID] = t
	}
	return calendar, rows.Err()
}

// ExistingServiceKeys returns the natural keys already present in the
// service dimension.
func ExistingServiceKeys(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT customer_id, quarter FROM dim_service`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var customerID, quarter string
		if err := rows.Scan(&customerID, &quarter); err != nil {
			return nil, err
		}
		keys[dims.ServiceKey(customerID, quarter)] = true
	}
	return keys, rows.Err()
}

// ExistingStatusKeys returns the natural keys already present in the
// churn status dimension.
func ExistingStatusKeys(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT customer_id, churn_category FROM dim_churn_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var customerID, category string
		if err := rows.Scan(&customerID, &category); err != nil {
			return nil, err
		}
		keys[dims.StatusKey(customerID, category)] = true
	}
	return keys, rows.Err()
}
