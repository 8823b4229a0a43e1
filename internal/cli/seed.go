//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/db"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/extract"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/logging"
)

var (
	seedCustomers int
	seedSeed      uint64
	seedKeep      bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate synthetic raw extracts into the staging tables",
	Long: `Generate synthetic telecom customer extracts into the raw staging
tables. The output is deliberately messy (mixed-case booleans, blank
numerics, junk categoricals, duplicate rows) so a full pipeline run
exercises every cleaning rule.

Example:
  churn-warehouse seed --customers 10000 --connection "postgres://..."
  churn-warehouse seed --customers 1000 --seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customers to generate extracts for")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible extracts (0 = time-based)")
	seedCmd.Flags().BoolVar(&seedKeep, "keep-existing", false,
		"keep existing staging rows instead of truncating first")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedKeep {
		cfg.Seed.TruncateFirst = false
	}
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Seed.TruncateFirst {
		logging.Info().Msg("Truncating staging tables")
		if err := extract.TruncateStaging(ctx, pool); err != nil {
			return fmt.Errorf("failed to truncate staging tables: %w", err)
		}
	}

	generator := extract.NewGenerator()
	if seedSeed != 0 {
		generator = extract.NewGeneratorWithSeed(seedSeed)
	}
	if err := generator.Generate(ctx, pool, cfg.Seed.Customers); err != nil {
		return err
	}

	logging.Info().Int("customers", cfg.Seed.Customers).Msg("Seeding complete")
	return nil
}
