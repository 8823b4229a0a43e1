//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for churn-warehouse.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/config"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/logging"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "churn-warehouse",
		Short: "Telecom churn star-schema warehouse builder",
		Long: `churn-warehouse transforms raw telecom customer extracts into a
star schema in PostgreSQL: five dimensions, a churn fact table, a derived
customer profile, and seven reporting rollups.

The pipeline runs in strictly ordered stages (clean, dimensions, derive,
facts, aggregates); each stage commits before the next starts, so a failed
run leaves the previously committed tables intact.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./churn-warehouse.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
