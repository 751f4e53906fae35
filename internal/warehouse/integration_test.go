//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the warehouse loader.
// Run with: go test -tags=integration ./internal/warehouse/...
// Set TOURCAST_TEST_CONN to override the connection string.

package warehouse_test

import (
	"context"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/db"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
	"github.com/pgEdge/pgedge-tourcast/internal/testutil"
	"github.com/pgEdge/pgedge-tourcast/internal/warehouse"
)

func TestLoadIntegration(t *testing.T) {
	tdb := testutil.NewDatabase(t, "warehouse")
	pool := tdb.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := t.TempDir()
	names := catalog.New(config.DefaultConfig().Horizon)

	week := table.New(names.RouteWeek(), "iso_year", "iso_week", "route_id", "region", "bookings_count")
	week.Append("2024", "1", "1", "lake_district", "12")
	week.Append("2024", "1", "2", "scotland", "9")

	forecast := table.New(names.ForecastWeek(), "iso_year", "iso_week", "route_id", "predicted_bookings_count")
	forecast.Append("2026", "1", "1", "11.5")

	for _, tbl := range []*table.Table{week, forecast} {
		if err := table.Write(table.Path(dir, tbl.Name), tbl); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	loads := []catalog.Load{}
	for _, ld := range names.WarehouseTables() {
		if ld.Table == "fact_route_week" || ld.Table == names.ForecastWeek() || ld.Table == names.Forecast() {
			loads = append(loads, ld)
		}
	}

	sum, err := warehouse.NewLoader(pool, "tours").Load(ctx, dir, loads, "run-it")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n := tdb.TableRowCount(t, "tours", "fact_route_week"); n != 2 {
		t.Errorf("Expected 2 route-week rows, got %d", n)
	}
	if sum.Loaded["fact_route_week"] != 2 || sum.Loaded[names.ForecastWeek()] != 1 {
		t.Errorf("Unexpected loaded counts %v", sum.Loaded)
	}
	if len(sum.Skipped) != 1 || sum.Skipped[0] != names.Forecast() {
		t.Errorf("Expected the daily forecast to be skipped, got %v", sum.Skipped)
	}

	var actual int
	var predicted *float64
	err = pool.QueryRow(ctx, `
        SELECT actual_bookings, forecast_bookings
        FROM tours.v_weekly_actual_vs_forecast
        WHERE route_id = 1
    `).Scan(&actual, &predicted)
	if err != nil {
		t.Fatalf("Failed to query view: %v", err)
	}
	if actual != 12 || predicted == nil || *predicted != 11.5 {
		t.Errorf("Unexpected view row %d/%v", actual, predicted)
	}

	runID, err := db.GetMetadataValue(ctx, pool, "tours", "run_id")
	if err != nil || runID != "run-it" {
		t.Errorf("Expected run_id metadata, got %q (%v)", runID, err)
	}

	// A missing core table fails before writing.
	core := []catalog.Load{{Stem: "dim_route", Table: "dim_route"}}
	if _, err := warehouse.NewLoader(pool, "tours").Load(ctx, dir, core, "run-it"); err == nil {
		t.Error("Expected error for a missing core table")
	}
}
