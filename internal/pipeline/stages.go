//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"

	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/db"
	"github.com/pgEdge/pgedge-tourcast/internal/export"
	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/validate"
	"github.com/pgEdge/pgedge-tourcast/internal/variants"
	"github.com/pgEdge/pgedge-tourcast/internal/warehouse"
)

// Validate checks the processed tables. Warnings are logged; any failure
// is returned as validate.ErrValidationFailed.
func Validate(cfg *config.Config) error {
	in, err := validate.Load(cfg.Paths.Processed(), catalog.New(cfg.Horizon), cfg.Simulation.VATRate)
	if err != nil {
		return err
	}
	report := validate.Run(in)
	logging.Info().
		Int("ok", report.Count(validate.OK)).
		Int("warnings", report.Count(validate.Warn)).
		Int("failures", report.Count(validate.Fail)).
		Msg("Validation finished")
	return report.Err()
}

// Export writes the reporting tables as workbooks.
func Export(cfg *config.Config) error {
	names := catalog.New(cfg.Horizon)
	sum, err := export.Tables(cfg.Paths.Processed(), cfg.Paths.Export(), names.ExportTables())
	if err != nil {
		return err
	}
	logging.Info().
		Int("written", len(sum.Written)).
		Int("skipped", len(sum.Skipped)).
		Str("dir", cfg.Paths.Export()).
		Msg("Export finished")
	return nil
}

// LoadWarehouse replaces the warehouse tables from the processed files and
// stamps runID into the metadata table.
func LoadWarehouse(ctx context.Context, cfg *config.Config, runID string) (*warehouse.Summary, error) {
	if err := cfg.ValidateWarehouse(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg.Warehouse.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	names := catalog.New(cfg.Horizon)
	loader := warehouse.NewLoader(pool, cfg.Warehouse.Schema)
	sum, err := loader.Load(ctx, cfg.Paths.Processed(), names.WarehouseTables(), runID)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("tables", len(sum.Loaded)).
		Int("skipped", len(sum.Skipped)).
		Strs("views", sum.Views).
		Str("schema", cfg.Warehouse.Schema).
		Msg("Warehouse loaded")
	return sum, nil
}

// WarehouseStatus returns the metadata stamped by the last load, or nil
// when the schema has never been loaded.
func WarehouseStatus(ctx context.Context, cfg *config.Config) (map[string]string, error) {
	if err := cfg.ValidateWarehouse(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg.Warehouse.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	exists, err := db.MetadataExists(ctx, pool, cfg.Warehouse.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to check metadata: %w", err)
	}
	if !exists {
		return nil, nil
	}
	return db.GetAllMetadata(ctx, pool, cfg.Warehouse.Schema)
}

// OpenRecorder returns the run history store selected by cfg.
func OpenRecorder(ctx context.Context, cfg *config.Config) (forecast.RunRecorder, error) {
	if !cfg.ML.RecordRuns {
		return forecast.NoopRecorder{}, nil
	}
	rec, err := forecast.NewPostgresRunRecorder(ctx, cfg.RunsConnection())
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return rec, nil
}

func (r *Runner) loadWarehouse(ctx context.Context) error {
	if r.cfg.Warehouse.Connection == "" {
		r.log.Warn().Msg("No warehouse connection configured, skipping load")
		return nil
	}
	_, err := LoadWarehouse(ctx, r.cfg, r.runID)
	return err
}

// forecast trains and scores every configured variant, writing forecast
// tables, model bundles and metrics.
func (r *Runner) forecast(ctx context.Context) error {
	if err := r.cfg.ValidateML(); err != nil {
		return err
	}
	selected, err := variants.Resolve(r.cfg.ML.Variants)
	if err != nil {
		return err
	}

	recorder, err := OpenRecorder(ctx, r.cfg)
	if err != nil {
		return err
	}
	defer recorder.Close()

	in := variants.Inputs{
		Horizon:    r.cfg.Horizon,
		Features:   r.featureContext(),
		RouteDays:  r.routeDays,
		RouteWeeks: r.routeWeeks,
	}

	models := r.cfg.Paths.Models()
	for _, v := range selected {
		out, err := variants.Execute(ctx, v, in, r.runID, r.now())
		if err != nil {
			return err
		}

		if err := write(r.cfg.Paths.Processed(), out.Table); err != nil {
			return err
		}
		if err := forecast.SaveBundle(forecast.BundlePath(models, v.Name()), out.Bundle); err != nil {
			return err
		}
		if err := forecast.SaveMetrics(forecast.MetricsPath(models, v.Name()), out.Metrics); err != nil {
			return err
		}
		if err := recorder.Record(ctx, forecast.NewRunRecord(v.Name(), v.Version(), out.Metrics)); err != nil {
			return fmt.Errorf("failed to record run for %s: %w", v.Name(), err)
		}
	}
	return nil
}
