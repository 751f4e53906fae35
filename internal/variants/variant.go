//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package variants defines the forecast variant interface and the shared
// train-and-score flow. Variant implementations live in subpackages and
// register themselves from init.
package variants

import (
	"github.com/pgEdge/pgedge-tourcast/internal/aggregate"
	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/config"
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
)

// Grains of a forecast.
const (
	GrainDaily  = "route-day"
	GrainWeekly = "route-week"
)

// Inputs is everything a variant may train and score on.
type Inputs struct {
	Horizon    config.HorizonConfig
	Features   features.Context
	RouteDays  []aggregate.RouteDay
	RouteWeeks []aggregate.RouteWeek
}

// Variant defines a named forecast configuration.
type Variant interface {
	// Name returns the registry name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Version is stamped on every prediction row.
	Version() string

	// Grain is GrainDaily or GrainWeekly.
	Grain() string

	// Notes is recorded in the metrics file.
	Notes() string

	// Params returns the boosting parameters.
	Params() forecast.Params

	// Split returns the train/test policy.
	Split(h config.HorizonConfig) forecast.Split

	// OutputTable names the forecast table.
	OutputTable(n catalog.Names) string

	// TrainingFrame builds the labelled frame.
	TrainingFrame(in Inputs) *features.Frame

	// ScoringFrame builds the forecast-year scaffold.
	ScoringFrame(in Inputs) *features.Frame
}
