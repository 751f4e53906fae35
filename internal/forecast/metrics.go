//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package forecast

import (
	"math"
	"time"
)

// Metrics is the evaluation summary written next to a model.
type Metrics struct {
	MAE       float64   `json:"mae"`
	RMSE      float64   `json:"rmse"`
	R2        float64   `json:"r2"`
	NTrain    int       `json:"n_train"`
	NTest     int       `json:"n_test"`
	Features  int       `json:"features"`
	Target    string    `json:"target"`
	Split     string    `json:"split"`
	Grain     string    `json:"grain"`
	Notes     string    `json:"notes,omitempty"`
	RunID     string    `json:"run_id"`
	TrainedAt time.Time `json:"trained_at"`
}

// Evaluate computes MAE, RMSE and R2 of preds against actual. R2 is 1 for
// a perfect fit of a constant target and 0 otherwise.
func Evaluate(actual, preds []float64) Metrics {
	var m Metrics
	n := len(actual)
	if n == 0 {
		return m
	}

	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(n)

	var absErr, ssRes, ssTot float64
	for i, v := range actual {
		d := v - preds[i]
		absErr += math.Abs(d)
		ssRes += d * d
		ssTot += (v - mean) * (v - mean)
	}

	m.MAE = absErr / float64(n)
	m.RMSE = math.Sqrt(ssRes / float64(n))
	switch {
	case ssTot > 0:
		m.R2 = 1 - ssRes/ssTot
	case ssRes == 0:
		m.R2 = 1
	}
	return m
}
