//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/pipeline"
)

var (
	runSkipWeather bool
	runSkipSQL     bool
	runSkipML      bool
	runSkipExport  bool
	runOffline     bool
	runSeed        uint64
	runVariants    []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the end-to-end pipeline",
	Long: `Run every pipeline stage in order: dimensions, bank holidays, the
date dimension, weather, simulated bookings, route-day and route-week
facts, validation, forecasting, the warehouse load and the workbook
export. Any stage failure stops the run.

The warehouse load is skipped when no warehouse connection is configured.

Example:
  pgedge-tourcast run
  pgedge-tourcast run --skip-weather --skip-sql
  pgedge-tourcast run --offline --variants weekly`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runSkipWeather, "skip-weather", false,
		"skip the weather pull and rollup")
	runCmd.Flags().BoolVar(&runSkipSQL, "skip-sql", false,
		"skip loading the PostgreSQL warehouse")
	runCmd.Flags().BoolVar(&runSkipML, "skip-ml", false,
		"skip model training and forecast scoring")
	runCmd.Flags().BoolVar(&runSkipExport, "skip-export", false,
		"skip the workbook export")
	runCmd.Flags().BoolVar(&runOffline, "offline", false,
		"reuse raw pulls saved by an earlier run instead of fetching")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0,
		"simulation seed (default from config: 42)")
	runCmd.Flags().StringSliceVar(&runVariants, "variants", nil,
		"forecast variants to train (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = runSeed
	}
	if len(runVariants) > 0 {
		cfg.ML.Variants = runVariants
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := pipeline.New(cfg, pipeline.Options{
		SkipWeather: runSkipWeather,
		SkipSQL:     runSkipSQL,
		SkipML:      runSkipML,
		SkipExport:  runSkipExport,
		Offline:     runOffline,
	})
	return runner.Run(ctx)
}
