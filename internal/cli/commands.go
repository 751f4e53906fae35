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
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/pipeline"
	"github.com/pgEdge/pgedge-tourcast/internal/variants"
)

var (
	loadConnection string
	loadSchema     string
	runsLimit      int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the processed tables",
	Long: `Check the processed dimension and booking tables for missing columns,
duplicate keys, dangling references, out-of-range values, bookings on
closed days and VAT drift. Exits non-zero when any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.Validate(cfg)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the processed tables into PostgreSQL",
	Long: `Replace the warehouse tables from the processed files, one table per
file, then add indexes, the weekly comparison view and run metadata.

Example:
  pgedge-tourcast load --connection "postgres://user@localhost/tours" --schema tours`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loadConnection != "" {
			cfg.Warehouse.Connection = loadConnection
		}
		if loadSchema != "" {
			cfg.Warehouse.Schema = loadSchema
		}
		_, err := pipeline.LoadWarehouse(context.Background(), cfg, uuid.NewString())
		return err
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the run loaded into the warehouse",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loadConnection != "" {
			cfg.Warehouse.Connection = loadConnection
		}
		if loadSchema != "" {
			cfg.Warehouse.Schema = loadSchema
		}
		meta, err := pipeline.WarehouseStatus(context.Background(), cfg)
		if err != nil {
			return err
		}
		if meta == nil {
			cmd.Printf("Schema %s has not been loaded; run 'pgedge-tourcast load' first.\n",
				cfg.Warehouse.Schema)
			return nil
		}
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("  %-10s %s\n", k, meta[k])
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reporting tables as workbooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.Export(cfg)
	},
}

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List available forecast variants",
	Long: `List the registered forecast variants. Each variant has its own
feature set, train/test split and output table.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available forecast variants:")
		cmd.Println()
		for _, name := range variants.List() {
			v, err := variants.Get(name)
			if err != nil {
				continue
			}
			cmd.Printf("  %-10s - %s\n", name, v.Description())
			cmd.Printf("  %-10s   grain %s, version %s\n", "", v.Grain(), v.Version())
		}
		cmd.Println()
		cmd.Println("Use 'pgedge-tourcast variants runs' for recorded training runs.")
	},
}

var variantsRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent recorded training runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		connStr := cfg.RunsConnection()
		if connStr == "" {
			return fmt.Errorf("runs_connection or a warehouse connection is required")
		}

		ctx := context.Background()
		rec, err := forecast.NewPostgresRunRecorder(ctx, connStr)
		if err != nil {
			return err
		}
		defer rec.Close()

		runs, err := rec.Recent(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No recorded runs.")
			return nil
		}
		for _, r := range runs {
			cmd.Printf("%s  %-10s %-18s mae=%.3f rmse=%.3f r2=%.3f  %s\n",
				r.TrainedAt.Format("2006-01-02 15:04"), r.Variant, r.Version,
				r.MAE, r.RMSE, r.R2, r.RunID)
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadConnection, "connection", "",
		"PostgreSQL connection string")
	loadCmd.Flags().StringVar(&loadSchema, "schema", "",
		"target schema (default: public)")
	statusCmd.Flags().StringVar(&loadConnection, "connection", "",
		"PostgreSQL connection string")
	statusCmd.Flags().StringVar(&loadSchema, "schema", "",
		"warehouse schema (default: public)")

	variantsRunsCmd.Flags().IntVar(&runsLimit, "limit", 10,
		"number of runs to show")
	variantsCmd.AddCommand(variantsRunsCmd)
}
