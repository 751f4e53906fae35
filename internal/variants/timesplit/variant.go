//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package timesplit implements the weather-aware daily forecast trained on
// one historical year and tested on the next.
package timesplit

import (
	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/variants"
)

// Variant implements the v2 daily forecast.
type Variant struct{}

// New creates the time-split variant.
func New() *Variant {
	return &Variant{}
}

// Name returns the registry name.
func (v *Variant) Name() string {
	return "timesplit"
}

// Description returns a human-readable description.
func (v *Variant) Description() string {
	return "Daily route forecast with weather features, trained on the " +
		"train year and tested on the test year"
}

// Version is stamped on every prediction row.
func (v *Variant) Version() string {
	return "time_split_xgb_v2"
}

// Grain returns the forecast grain.
func (v *Variant) Grain() string {
	return variants.GrainDaily
}

// Notes is recorded in the metrics file.
func (v *Variant) Notes() string {
	return "v2 adds weather-ready features (joined if available; deterministic " +
		"seasonal fallback otherwise) and uses a time-based split."
}

// Params returns the boosting parameters.
func (v *Variant) Params() forecast.Params {
	return forecast.Params{
		Trees:        600,
		LearningRate: 0.04,
		MaxDepth:     7,
		Subsample:    0.9,
		ColSample:    0.9,
		Seed:         42,
	}
}

// Split trains on TrainYear and tests on TestYear by calendar year.
func (v *Variant) Split(h config.HorizonConfig) forecast.Split {
	return forecast.YearSplit{Column: "year", TrainYear: h.TrainYear, TestYear: h.TestYear}
}

// OutputTable names the forecast table.
func (v *Variant) OutputTable(n catalog.Names) string {
	return n.ForecastV2()
}

// TrainingFrame builds the route-day frame with weather.
func (v *Variant) TrainingFrame(in variants.Inputs) *features.Frame {
	ctx := in.Features
	ctx.WithWeather = true
	return features.DailyTraining(ctx, in.RouteDays, in.Horizon.HistoryStartYear, in.Horizon.HistoryEndYear)
}

// ScoringFrame builds every route on every forecast-year day with weather.
func (v *Variant) ScoringFrame(in variants.Inputs) *features.Frame {
	ctx := in.Features
	ctx.WithWeather = true
	return features.DailyScoring(ctx, in.Horizon.ForecastYear)
}

func init() {
	variants.Register(New())
}
