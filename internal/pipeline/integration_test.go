//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration test for the full pipeline.
// Run with: go test -tags=integration ./internal/pipeline/...
// Requires PostgreSQL to be available.
// Set CHURNWH_TEST_CONN environment variable to override connection string.

package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/extract"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/testutil"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/warehouse"
)

// TestPipelineIntegration seeds a small synthetic extract set, runs the
// full rebuild twice, and verifies referential integrity plus rerun
// stability of the warehouse tables.
func TestPipelineIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr, "pipeline")
	dbName := testutil.GetDBNameFromConnStr(testConnStr)

	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	t.Cleanup(cleanup.Cleanup)

	pool := testutil.ConnectTestDB(t, testConnStr)
	cleanup.SetPool(pool)

	ctx := context.Background()

	t.Run("CreateSchemas", func(t *testing.T) {
		if err := extract.CreateStagingSchema(ctx, pool); err != nil {
			t.Fatalf("CreateStagingSchema failed: %v", err)
		}
		if err := warehouse.CreateSchema(ctx, pool); err != nil {
			t.Fatalf("CreateSchema failed: %v", err)
		}
	})

	t.Run("Seed", func(t *testing.T) {
		generator := extract.NewGeneratorWithSeed(42)
		if err := generator.Generate(ctx, pool, 200); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	})

	runner := &pipeline.Runner{
		Pool:          pool,
		Provider:      extract.NewStagingProvider(pool),
		StageTimeout:  5 * time.Minute,
		CalendarStart: time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
		CalendarEnd:   time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC),
		Anchor:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	var firstReport pipeline.QualityReport
	t.Run("FirstRun", func(t *testing.T) {
		report, err := runner.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if report.FactsComposed == 0 {
			t.Fatal("Expected facts to be composed")
		}
		firstReport = report
	})

	t.Run("ReferentialIntegrity", func(t *testing.T) {
		// FK constraints reject dangling inserts, so a populated fact
		// table with zero unmatched references is the expected state.
		var dangling int
		err := pool.QueryRow(ctx, `
            SELECT COUNT(*) FROM fact_churn f
            LEFT JOIN dim_customer c ON c.customer_id = f.customer_id
            LEFT JOIN dim_location l ON l.location_id = f.location_id
            LEFT JOIN dim_service s ON s.service_id = f.service_id
            LEFT JOIN dim_time t ON t.time_id = f.time_id
            WHERE c.customer_id IS NULL OR l.location_id IS NULL
               OR s.service_id IS NULL OR t.time_id IS NULL
        `).Scan(&dangling)
		if err != nil {
			t.Fatalf("Integrity query failed: %v", err)
		}
		if dangling != 0 {
			t.Errorf("Expected 0 dangling fact references, got %d", dangling)
		}
	})

	t.Run("SecondRunIdempotent", func(t *testing.T) {
		dimTables := []string{"dim_customer", "dim_location", "dim_service", "dim_churn_status", "dim_time"}
		before := make(map[string]int, len(dimTables))
		for _, table := range dimTables {
			var n int
			if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
				t.Fatalf("Count query failed for %s: %v", table, err)
			}
			before[table] = n
		}

		report, err := runner.Run(ctx)
		if err != nil {
			t.Fatalf("Second run failed: %v", err)
		}
		if report.FactsComposed != firstReport.FactsComposed {
			t.Errorf("Fact count changed across reruns: %d vs %d",
				firstReport.FactsComposed, report.FactsComposed)
		}

		// dimensions are insert-if-absent: rerun must not grow them
		for _, table := range dimTables {
			var after int
			if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&after); err != nil {
				t.Fatalf("Count query failed for %s: %v", table, err)
			}
			if before[table] != after {
				t.Errorf("%s grew across reruns: %d vs %d", table, before[table], after)
			}
		}
	})

	t.Run("Aggregates", func(t *testing.T) {
		for _, table := range []string{
			"agg_churn_by_customer", "agg_churn_by_location", "agg_churn_by_contract",
			"agg_churn_by_time", "agg_churn_by_service", "agg_churn_by_demographics",
			"agg_churn_trend",
		} {
			var count int
			if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
				t.Fatalf("Aggregate %s missing: %v", table, err)
			}
			if count == 0 {
				t.Errorf("Expected %s to be populated", table)
			}
		}
	})
}
