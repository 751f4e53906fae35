//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package variants

import (
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/forecast"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Outcome is a trained and scored variant.
type Outcome struct {
	Variant Variant
	Metrics forecast.Metrics
	Bundle  *forecast.Bundle
	Table   *table.Table
}

// Execute trains v, evaluates it and scores the forecast year.
func Execute(ctx context.Context, v Variant, in Inputs, runID string, now time.Time) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logging.Component("variants").With().Str("variant", v.Name()).Logger()

	train := v.TrainingFrame(in)
	if train.Len() == 0 {
		return nil, fmt.Errorf("variant %s has no training rows", v.Name())
	}
	log.Info().
		Int("rows", train.Len()).
		Int("features", len(train.Columns)).
		Msg("Training")

	params := v.Params()
	res, err := forecast.Train(train, v.Split(in.Horizon), params)
	if err != nil {
		return nil, fmt.Errorf("failed to train %s: %w", v.Name(), err)
	}

	m := res.Metrics
	m.Grain = v.Grain()
	m.Notes = v.Notes()
	m.RunID = runID
	m.TrainedAt = now.UTC()

	log.Info().
		Float64("mae", m.MAE).
		Float64("rmse", m.RMSE).
		Float64("r2", m.R2).
		Int("n_train", m.NTrain).
		Int("n_test", m.NTest).
		Msg("Trained")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scoring := v.ScoringFrame(in)
	preds := forecast.Score(res.Model, res.FeatureColumns, scoring)

	name := v.OutputTable(catalog.New(in.Horizon))
	var out *table.Table
	if v.Grain() == GrainWeekly {
		out = WeeklyTable(name, v.Version(), in.Horizon.ForecastYear, scoring, preds)
	} else {
		out = DailyTable(name, v.Version(), in.Horizon.ForecastYear, scoring, preds)
	}
	log.Info().Str("table", name).Int("rows", out.Len()).Msg("Scored")

	return &Outcome{
		Variant: v,
		Metrics: m,
		Bundle: &forecast.Bundle{
			Variant:        v.Name(),
			Version:        v.Version(),
			RunID:          runID,
			FeatureColumns: res.FeatureColumns,
			Params:         params,
			Model:          res.Model,
		},
		Table: out,
	}, nil
}
