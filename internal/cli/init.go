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
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/warehouse"
)

// schemaVersion is recorded in warehouse metadata at init and bumped on
// any breaking change to the staging or warehouse DDL.
const schemaVersion = "1"

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the staging and warehouse schemas",
	Long: `Initialize a PostgreSQL database with the raw staging tables and the
star schema the pipeline writes into.

Example:
  churn-warehouse init --connection "postgres://..."
  churn-warehouse init --drop-existing --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing staging and warehouse schemas before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initDropExisting {
		cfg.Init.DropExisting = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to re-initialize silently over an existing warehouse
	existingVersion, err := db.GetMetadataValue(ctx, pool, "schema_version")
	if err == nil && existingVersion != "" && !cfg.Init.DropExisting {
		return fmt.Errorf(
			"database already initialized with schema version %s; "+
				"use --drop-existing to reinitialize", existingVersion)
	}

	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schemas")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop warehouse schema: %w", err)
		}
		if err := extract.DropStagingSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop staging schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating staging schema")
	if err := extract.CreateStagingSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create staging schema: %w", err)
	}

	logging.Info().Msg("Creating warehouse schema")
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create warehouse schema: %w", err)
	}
	if err := db.CreateRunLogTable(ctx, pool); err != nil {
		return err
	}

	if err := db.SaveMetadata(ctx, pool, schemaVersion); err != nil {
		return err
	}

	logging.Info().Str("schema_version", schemaVersion).Msg("Initialization complete")
	return nil
}
