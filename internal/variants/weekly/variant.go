//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package weekly implements the route-week forecast.
//
// Weekly aggregation smooths the daily Poisson noise. Its frame one-hot
// encodes region and difficulty only, since a week has no single season
// or day name.
package weekly

import (
	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/variants"
)

// Variant implements the weekly forecast.
type Variant struct{}

// New creates the weekly variant.
func New() *Variant {
	return &Variant{}
}

// Name returns the registry name.
func (v *Variant) Name() string {
	return "weekly"
}

// Description returns a human-readable description.
func (v *Variant) Description() string {
	return "Route-week forecast from route attributes and weekly " +
		"weekend and bank holiday counts, split by ISO year"
}

// Version is stamped on every prediction row.
func (v *Variant) Version() string {
	return "weekly_xgb_v1"
}

// Grain returns the forecast grain.
func (v *Variant) Grain() string {
	return variants.GrainWeekly
}

// Notes is recorded in the metrics file.
func (v *Variant) Notes() string {
	return "Weekly aggregation reduces daily Poisson noise and improves learnability. " +
		"Features include route + calendar + weekly holiday/weekend counts."
}

// Params returns the boosting parameters.
func (v *Variant) Params() forecast.Params {
	return forecast.Params{
		Trees:        800,
		LearningRate: 0.04,
		MaxDepth:     7,
		Subsample:    0.9,
		ColSample:    0.9,
		Seed:         42,
	}
}

// Split trains on TrainYear and tests on TestYear by ISO year.
func (v *Variant) Split(h config.HorizonConfig) forecast.Split {
	return forecast.YearSplit{Column: "iso_year", TrainYear: h.TrainYear, TestYear: h.TestYear}
}

// OutputTable names the forecast table.
func (v *Variant) OutputTable(n catalog.Names) string {
	return n.ForecastWeek()
}

// TrainingFrame builds the route-week frame.
func (v *Variant) TrainingFrame(in variants.Inputs) *features.Frame {
	return features.WeeklyTraining(in.RouteWeeks)
}

// ScoringFrame builds every route in every forecast-year ISO week.
func (v *Variant) ScoringFrame(in variants.Inputs) *features.Frame {
	return features.WeeklyScoring(in.Features.Days, in.Features.Routes, in.Horizon.ForecastYear)
}

func init() {
	variants.Register(New())
}
