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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/db"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/extract"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/logging"
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline"
)

var (
	runStageTimeout time.Duration
	runInterval     time.Duration
	runAnchorDate   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the warehouse rebuild pipeline",
	Long: `Run the full pipeline over the staging tables: clean the six raw
sources, grow the dimensions, recompute the derived customer profile,
replace the fact table, and rebuild the seven aggregates.

With --interval the pipeline is re-run on that cadence until interrupted
with Ctrl+C.

Example:
  churn-warehouse run --connection "postgres://..."
  churn-warehouse run --interval 24h --connection "postgres://..."`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().DurationVar(&runStageTimeout, "stage-timeout", 0,
		"maximum duration per pipeline stage (default: 30m)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0,
		"re-run the pipeline on this cadence (0 = run once)")
	runCmd.Flags().StringVar(&runAnchorDate, "anchor-date", "",
		"reference date for contract-start estimation, YYYY-MM-DD (default: today)")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runStageTimeout > 0 {
		cfg.Run.StageTimeout = runStageTimeout
	}
	if runInterval > 0 {
		cfg.Run.Interval = runInterval
	}
	if runAnchorDate != "" {
		cfg.Run.AnchorDate = runAnchorDate
	}
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to run against an uninitialized database
	if _, err := db.GetMetadataValue(ctx, pool, "schema_version"); err != nil {
		return fmt.Errorf("database has not been initialized; run 'churn-warehouse init' first")
	}

	calendarStart, calendarEnd, err := cfg.CalendarSpan()
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Pool:          pool,
		Provider:      extract.NewStagingProvider(pool),
		StageTimeout:  cfg.Run.StageTimeout,
		CalendarStart: calendarStart,
		CalendarEnd:   calendarEnd,
		Anchor:        cfg.Anchor(time.Now()),
	}

	if cfg.Run.Interval <= 0 {
		_, err := runner.Run(ctx)
		return err
	}
	return runScheduled(ctx, runner, cfg.Run.Interval)
}

// runScheduled re-runs the pipeline on a fixed cadence until the
// process is interrupted. Overlapping runs are prevented; a run that
// outlasts the interval delays the next one.
func runScheduled(ctx context.Context, runner *pipeline.Runner, interval time.Duration) error {
	logging.Info().Dur("interval", interval).Msg("Starting scheduled mode")

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).StartImmediately().Do(func() {
		if _, err := runner.Run(ctx); err != nil {
			logging.Error().Err(err).Msg("Scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pipeline: %w", err)
	}
	scheduler.StartAsync()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	scheduler.Stop()
	return nil
}
