//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package baseline implements the daily calendar-and-route forecast with a
// random holdout.
package baseline

import (
	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/variants"
)

// Variant implements the baseline daily forecast.
type Variant struct{}

// New creates the baseline variant.
func New() *Variant {
	return &Variant{}
}

// Name returns the registry name.
func (v *Variant) Name() string {
	return "baseline"
}

// Description returns a human-readable description.
func (v *Variant) Description() string {
	return "Daily route forecast from calendar, route and bank holiday " +
		"features, evaluated on a random 80/20 holdout"
}

// Version is stamped on every prediction row.
func (v *Variant) Version() string {
	return "baseline_xgb_v1"
}

// Grain returns the forecast grain.
func (v *Variant) Grain() string {
	return variants.GrainDaily
}

// Notes is recorded in the metrics file.
func (v *Variant) Notes() string {
	return "Baseline model uses calendar + route attributes + bank holiday flags " +
		"(no full-year historical weather yet)."
}

// Params returns the boosting parameters.
func (v *Variant) Params() forecast.Params {
	return forecast.Params{
		Trees:        400,
		LearningRate: 0.05,
		MaxDepth:     6,
		Subsample:    0.9,
		ColSample:    0.9,
		Seed:         42,
	}
}

// Split holds out 20% of route-days at random.
func (v *Variant) Split(config.HorizonConfig) forecast.Split {
	return forecast.RandomSplit{TestFraction: 0.2, Seed: 42}
}

// OutputTable names the forecast table.
func (v *Variant) OutputTable(n catalog.Names) string {
	return n.Forecast()
}

// TrainingFrame builds the route-day frame without weather.
func (v *Variant) TrainingFrame(in variants.Inputs) *features.Frame {
	ctx := in.Features
	ctx.WithWeather = false
	return features.DailyTraining(ctx, in.RouteDays, in.Horizon.HistoryStartYear, in.Horizon.HistoryEndYear)
}

// ScoringFrame builds every route on every forecast-year day.
func (v *Variant) ScoringFrame(in variants.Inputs) *features.Frame {
	ctx := in.Features
	ctx.WithWeather = false
	return features.DailyScoring(ctx, in.Horizon.ForecastYear)
}

func init() {
	variants.Register(New())
}
