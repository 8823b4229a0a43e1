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
	"time"

	"github.com/spf13/cobra"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/db"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent pipeline runs",
	Long: `Show the most recent entries of the run journal: when each run
started and finished, its outcome, and its row counters.

Example:
  churn-warehouse status --connection "postgres://..."`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10,
		"number of runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	initializedAt, err := db.GetMetadataValue(ctx, pool, "initialized_at")
	if err == nil {
		cmd.Printf("Warehouse initialized: %s\n\n", initializedAt)
	}

	runs, err := db.RecentRuns(ctx, pool, statusLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No pipeline runs recorded.")
		return nil
	}

	cmd.Printf("%-6s %-20s %-10s %10s %8s %8s %10s\n",
		"ID", "STARTED", "STATUS", "RAW", "FACTS", "SKIPPED", "AMBIGUOUS")
	for _, r := range runs {
		duration := ""
		if r.FinishedAt != nil {
			duration = fmt.Sprintf(" (%s)", r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
		}
		cmd.Printf("%-6d %-20s %-10s %10d %8d %8d %10d%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Status,
			r.RawRecords, r.FactsWritten, r.RecordsSkipped, r.AmbiguousLinks, duration)
		if r.ErrorMessage != "" {
			cmd.Printf("       error: %s\n", r.ErrorMessage)
		}
	}
	return nil
}
