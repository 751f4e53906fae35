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

// Integration tests for the training run history.
// Run with: go test -tags=integration ./internal/forecast/...
// Set TOURCAST_TEST_CONN to override the connection string.

package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/testutil"
)

func TestPostgresRunRecorder(t *testing.T) {
	tdb := testutil.NewDatabase(t, "runs")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := forecast.NewPostgresRunRecorder(ctx, tdb.ConnStr)
	if err != nil {
		t.Fatalf("NewPostgresRunRecorder failed: %v", err)
	}
	defer rec.Close()

	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	for i, variant := range []string{"baseline", "weekly"} {
		m := forecast.Metrics{
			MAE: 1.5, RMSE: 2.0, R2: 0.4,
			NTrain: 100, NTest: 25, Features: 12,
			Split: "train=2024, test=2025", Grain: "route-week",
			RunID: "run-1", TrainedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := rec.Record(ctx, forecast.NewRunRecord(variant, variant+"_v1", m)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	runs, err := rec.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Variant != "weekly" || runs[1].Variant != "baseline" {
		t.Errorf("Expected newest first, got %s then %s", runs[0].Variant, runs[1].Variant)
	}
	if runs[0].NTrain != 100 || runs[0].Version != "weekly_v1" || runs[0].RunID != "run-1" {
		t.Errorf("Unexpected round trip %+v", runs[0])
	}

	limited, err := rec.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("Expected one run with limit 1, got %d (%v)", len(limited), err)
	}
}
