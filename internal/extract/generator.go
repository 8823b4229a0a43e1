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
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/logging"
)

// Generator produces synthetic telecom extracts into the staging tables.
// The output is intentionally messy: mixed-case booleans, padded churn
// labels, blank numerics, junk categoricals, and the occasional duplicate
// customer row, so a seeded database exercises every cleaning rule.
type Generator struct {
	faker     *gofakeit.Faker
	batchSize int
}

// NewGenerator creates a generator with a time-based seed.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(uint64(time.Now().UnixNano()))
}

// NewGeneratorWithSeed creates a generator with a fixed seed for
// reproducible extracts.
func NewGeneratorWithSeed(seed uint64) *Generator {
	return &Generator{
		faker:     gofakeit.New(seed),
		batchSize: 1000,
	}
}

// Generate writes extracts for the given number of customers.
func (g *Generator) Generate(ctx context.Context, pool *pgxpool.Pool, customers int) error {
	logging.Info().Int("customers", customers).Msg("Generating synthetic extracts")

	// A zip pool much smaller than the customer count so zips repeat
	// and the location dimension gets real dedup work.
	zips := g.zipPool(max(1, customers/20))

	churn := newStagingWriter(pool, SourceChurn, g.batchSize, []string{
		"customer_id", "gender", "senior_citizen", "partner", "dependents",
		"tenure_months", "monthly_charge", "total_charges", "churn_label", "churn_score",
	})
	demographics := newStagingWriter(pool, SourceDemographics, g.batchSize, []string{
		"customer_id", "gender", "age", "married", "number_of_dependents",
	})
	location := newStagingWriter(pool, SourceLocation, g.batchSize, []string{
		"customer_id", "country", "state", "city", "zip_code", "latitude", "longitude",
	})
	services := newStagingWriter(pool, SourceServices, g.batchSize, []string{
		"customer_id", "quarter", "quarter_end_date", "phone_service", "multiple_lines",
		"internet_service", "internet_type", "online_security", "streaming_tv",
		"contract", "paperless_billing", "payment_method",
		"avg_monthly_long_distance_charges", "avg_monthly_gb_download",
	})
	status := newStagingWriter(pool, SourceStatus, g.batchSize, []string{
		"customer_id", "churn_category", "churn_reason", "satisfaction_score",
	})

	for i := 0; i < customers; i++ {
		customerID := g.customerID()
		churned := g.faker.IntRange(1, 100) <= 27

		if err := g.writeChurnRecord(ctx, churn, customerID, churned); err != nil {
			return fmt.Errorf("failed to generate churn extract: %w", err)
		}

		// 2% duplicate account rows with drifted attributes
		if g.faker.IntRange(1, 100) <= 2 {
			if err := g.writeChurnRecord(ctx, churn, customerID, churned); err != nil {
				return fmt.Errorf("failed to generate duplicate churn extract: %w", err)
			}
		}

		// Demographics coverage is incomplete on purpose
		if g.faker.IntRange(1, 100) <= 90 {
			if err := g.writeDemographicsRecord(ctx, demographics, customerID); err != nil {
				return fmt.Errorf("failed to generate demographics extract: %w", err)
			}
		}

		zip := zips[g.faker.IntRange(0, len(zips)-1)]
		if err := g.writeLocationRecord(ctx, location, customerID, zip); err != nil {
			return fmt.Errorf("failed to generate location extract: %w", err)
		}

		quarters := g.faker.IntRange(1, 3)
		for q := 0; q < quarters; q++ {
			if err := g.writeServicesRecord(ctx, services, customerID, q); err != nil {
				return fmt.Errorf("failed to generate services extract: %w", err)
			}
		}

		if churned {
			if err := g.writeStatusRecord(ctx, status, customerID); err != nil {
				return fmt.Errorf("failed to generate status extract: %w", err)
			}
			// A second category for a few churned customers makes the
			// churn-status link ambiguous downstream.
			if g.faker.IntRange(1, 100) <= 5 {
				if err := g.writeStatusRecord(ctx, status, customerID); err != nil {
					return fmt.Errorf("failed to generate status extract: %w", err)
				}
			}
		}

		if (i+1)%10000 == 0 {
			logging.Info().Int("customers", i+1).Int("total", customers).Msg("Seeding extracts")
		}
	}

	if err := g.writePopulation(ctx, pool, zips); err != nil {
		return fmt.Errorf("failed to generate population extract: %w", err)
	}

	for _, w := range []*stagingWriter{churn, demographics, location, services, status} {
		if err := w.flush(ctx); err != nil {
			return err
		}
		logging.Info().Str("table", string(w.source)).Int64("rows", w.written).Msg("Table seeded")
	}

	return nil
}

func (g *Generator) writeChurnRecord(ctx context.Context, w *stagingWriter, customerID string, churned bool) error {
	tenure := g.faker.IntRange(0, 72)
	monthly := g.faker.Float64Range(18.5, 120)

	var total any = fmt.Sprintf("%.2f", monthly*float64(max(tenure, 1)))
	if tenure == 0 && g.faker.IntRange(1, 100) <= 80 {
		total = " " // new accounts ship a blank total, like the upstream billing export
	}

	label := "No"
	if churned {
		label = g.pick("Yes", "yes", " Yes ", "YES")
	}

	var score any
	if g.faker.IntRange(1, 100) <= 95 {
		score = fmt.Sprintf("%d", g.faker.IntRange(5, 100))
	}

	return w.write(ctx, []any{
		customerID,
		g.pick("Male", "Female", "male", "female"),
		g.pick("Yes", "No", "1", "0"),
		g.pick("Yes", "No"),
		g.pick("Yes", "No"),
		fmt.Sprintf("%d", tenure),
		fmt.Sprintf("%.2f", monthly),
		total,
		label,
		score,
	})
}

func (g *Generator) writeDemographicsRecord(ctx context.Context, w *stagingWriter, customerID string) error {
	var gender any
	if g.faker.IntRange(1, 100) <= 92 {
		gender = g.pick("Male", "Female")
	}
	return w.write(ctx, []any{
		customerID,
		gender,
		fmt.Sprintf("%d", g.faker.IntRange(19, 80)),
		g.pick("Yes", "No"),
		fmt.Sprintf("%d", g.faker.IntRange(0, 4)),
	})
}

func (g *Generator) writeLocationRecord(ctx context.Context, w *stagingWriter, customerID, zip string) error {
	return w.write(ctx, []any{
		customerID,
		"United States",
		g.faker.StateAbr(),
		g.faker.City(),
		zip,
		fmt.Sprintf("%.6f", g.faker.Float64Range(25, 49)),
		fmt.Sprintf("%.6f", g.faker.Float64Range(-124, -67)),
	})
}

func (g *Generator) writeServicesRecord(ctx context.Context, w *stagingWriter, customerID string, quarterOffset int) error {
	quarterEnd := quarterEndDate(time.Now().UTC(), quarterOffset)
	internetType := g.pick("DSL", "Fiber Optic", "Cable", "None")
	// junk category the cleaner must map to UNKNOWN
	if g.faker.IntRange(1, 100) <= 3 {
		internetType = "5G-Trial"
	}

	return w.write(ctx, []any{
		customerID,
		fmt.Sprintf("Q%d", (int(quarterEnd.Month())-1)/3+1),
		quarterEnd.Format("2006-01-02"),
		g.pick("Yes", "No"),
		g.pick("Yes", "No"),
		g.pick("Yes", "No"),
		internetType,
		g.pick("Yes", "No"),
		g.pick("Yes", "No"),
		g.pick("Month-to-Month", "One Year", "Two Year"),
		g.pick("Yes", "No"),
		g.pick("Bank Withdrawal", "Credit Card", "Mailed Check"),
		fmt.Sprintf("%.2f", g.faker.Float64Range(0, 50)),
		fmt.Sprintf("%.1f", g.faker.Float64Range(0, 85)),
	})
}

func (g *Generator) writeStatusRecord(ctx context.Context, w *stagingWriter, customerID string) error {
	return w.write(ctx, []any{
		customerID,
		g.pick("Competitor", "Dissatisfaction", "Attitude", "Price", "Other"),
		g.faker.Sentence(6),
		fmt.Sprintf("%d", g.faker.IntRange(1, 5)),
	})
}

func (g *Generator) writePopulation(ctx context.Context, pool *pgxpool.Pool, zips []string) error {
	w := newStagingWriter(pool, SourcePopulation, g.batchSize, []string{"zip_code", "population"})
	for _, zip := range zips {
		// incomplete coverage: some zips have no population reference
		if g.faker.IntRange(1, 100) > 80 {
			continue
		}
		if err := w.write(ctx, []any{zip, fmt.Sprintf("%d", g.faker.IntRange(800, 120000))}); err != nil {
			return err
		}
	}
	if err := w.flush(ctx); err != nil {
		return err
	}
	logging.Info().Str("table", string(w.source)).Int64("rows", w.written).Msg("Table seeded")
	return nil
}

func (g *Generator) zipPool(n int) []string {
	seen := make(map[string]bool, n)
	zips := make([]string, 0, n)
	for len(zips) < n {
		zip := g.faker.Zip()
		if seen[zip] {
			continue
		}
		seen[zip] = true
		zips = append(zips, zip)
	}
	return zips
}

// customerID matches the upstream extract format, e.g. "7590-VHVEG".
func (g *Generator) customerID() string {
	letters := make([]byte, 5)
	for i := range letters {
		letters[i] = byte('A' + g.faker.IntRange(0, 25))
	}
	return fmt.Sprintf("%04d-%s", g.faker.IntRange(0, 9999), letters)
}

func (g *Generator) pick(options ...string) string {
	return options[g.faker.IntRange(0, len(options)-1)]
}

// quarterEndDate returns the end date of the calendar quarter that is
// offset quarters before the one containing ref.
func quarterEndDate(ref time.Time, offset int) time.Time {
	quarterStartMonth := time.Month(((int(ref.Month())-1)/3)*3 + 1)
	start := time.Date(ref.Year(), quarterStartMonth, 1, 0, 0, 0, 0, time.UTC)
	start = start.AddDate(0, -3*offset, 0)
	return start.AddDate(0, 3, -1)
}

// stagingWriter accumulates rows and copies them into a staging table
// in batches.
type stagingWriter struct {
	pool    *pgxpool.Pool
	source  Source
	columns []string
	batch   [][]any
	size    int
	written int64
}

func newStagingWriter(pool *pgxpool.Pool, source Source, size int, columns []string) *stagingWriter {
	return &stagingWriter{
		pool:    pool,
		source:  source,
		columns: columns,
		batch:   make([][]any, 0, size),
		size:    size,
	}
}

func (w *stagingWriter) write(ctx context.Context, row []any) error {
	w.batch = append(w.batch, row)
	if len(w.batch) >= w.size {
		return w.flush(ctx)
	}
	return nil
}

func (w *stagingWriter) flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}
	n, err := w.pool.CopyFrom(ctx,
		pgx.Identifier{string(w.source)},
		w.columns,
		pgx.CopyFromRows(w.batch),
	)
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", w.source, err)
	}
	w.written += n
	w.batch = w.batch[:0]
	return nil
}
