//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-tourcast.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	dataDir  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-tourcast",
		Short: "Guided tours booking simulation and demand forecasting",
		Long: `pgedge-tourcast builds a synthetic guided-tours data set and forecasts
demand from it. A run pulls UK bank holidays and route weather, simulates
two years of bookings per route and day, rolls them up to route-day and
route-week facts, validates the result, trains the configured forecast
variants, loads everything into PostgreSQL and exports workbooks for
reporting.

Output is reproducible: the same seed and inputs give identical tables.`,
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
		"config file (default: ./pgedge-tourcast.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"data directory holding raw, interim, processed, models and pbi")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(variantsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logCfg := logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		logCfg.File = f
	}
	logging.Init(logCfg)

	return cfg.Validate()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
