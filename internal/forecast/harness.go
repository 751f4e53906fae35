//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package forecast fits gradient-boosted regression trees on feature
// frames, evaluates them on a holdout split and scores forward onto
// calendar scaffolds.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pgEdge/pgedge-tourcast/internal/datagen"
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
)

// ErrEmptySplit is returned when either side of a train/test split has no
// rows.
var ErrEmptySplit = errors.New("empty train/test split")

// ClosedColumn forces a prediction to zero when set.
const ClosedColumn = "is_closed_day"

// Split partitions frame rows into train and test indexes.
type Split interface {
	Describe() string
	Partition(f *features.Frame) (train, test []int, err error)
}

// RandomSplit holds out a seeded random fraction of rows.
type RandomSplit struct {
	TestFraction float64
	Seed         uint64
}

// Describe implements Split.
func (s RandomSplit) Describe() string {
	return fmt.Sprintf("random holdout test=%.0f%%, seed=%d", s.TestFraction*100, s.Seed)
}

// Partition implements Split. The test side holds ceil(fraction * n) rows.
func (s RandomSplit) Partition(f *features.Frame) ([]int, []int, error) {
	n := f.Len()
	nTest := int(math.Ceil(s.TestFraction * float64(n)))
	if nTest <= 0 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d rows with test fraction %.2f", ErrEmptySplit, n, s.TestFraction)
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	datagen.Shuffle(datagen.NewFakerWithSeed(s.Seed), perm)

	test := append([]int(nil), perm[:nTest]...)
	train := append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return train, test, nil
}

// YearSplit trains on one year and tests on another, read from a frame
// column.
type YearSplit struct {
	Column    string
	TrainYear int
	TestYear  int
}

// Describe implements Split.
func (s YearSplit) Describe() string {
	return fmt.Sprintf("train=%d, test=%d", s.TrainYear, s.TestYear)
}

// Partition implements Split.
func (s YearSplit) Partition(f *features.Frame) ([]int, []int, error) {
	col, ok := f.ColumnIndex(s.Column)
	if !ok {
		return nil, nil, fmt.Errorf("split column %s not in frame", s.Column)
	}

	var train, test []int
	for i, row := range f.Rows {
		switch int(row[col]) {
		case s.TrainYear:
			train = append(train, i)
		case s.TestYear:
			test = append(test, i)
		}
	}
	if len(train) == 0 || len(test) == 0 {
		return nil, nil, fmt.Errorf("%w: %s=%d has %d rows, %s=%d has %d rows",
			ErrEmptySplit, s.Column, s.TrainYear, len(train), s.Column, s.TestYear, len(test))
	}
	return train, test, nil
}

// Result is a fitted model with its evaluation.
type Result struct {
	Model          *Model
	FeatureColumns []string
	Metrics        Metrics
}

func subset(f *features.Frame, idx []int) ([][]float64, []float64) {
	X := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for k, i := range idx {
		X[k] = f.Rows[i]
		y[k] = f.Target[i]
	}
	return X, y
}

// Train fits a model on the train side of split and reports metrics on the
// test side. Test predictions are clipped at zero before scoring.
func Train(f *features.Frame, s Split, p Params) (*Result, error) {
	if f.Target == nil {
		return nil, fmt.Errorf("frame has no %s target", features.Target)
	}

	trainIdx, testIdx, err := s.Partition(f)
	if err != nil {
		return nil, err
	}

	Xtr, ytr := subset(f, trainIdx)
	model, err := Fit(Xtr, ytr, p)
	if err != nil {
		return nil, fmt.Errorf("failed to fit model: %w", err)
	}

	Xte, yte := subset(f, testIdx)
	preds := make([]float64, len(Xte))
	for i, row := range Xte {
		preds[i] = math.Max(0, model.Predict(row))
	}

	m := Evaluate(yte, preds)
	m.NTrain = len(trainIdx)
	m.NTest = len(testIdx)
	m.Features = len(f.Columns)
	m.Target = features.Target
	m.Split = s.Describe()

	return &Result{
		Model:          model,
		FeatureColumns: append([]string(nil), f.Columns...),
		Metrics:        m,
	}, nil
}

// Align returns the rows of f reordered to columns. Columns missing from f
// are filled with zero; extra columns are dropped.
func Align(f *features.Frame, columns []string) [][]float64 {
	src := make([]int, len(columns))
	for i, c := range columns {
		j, ok := f.ColumnIndex(c)
		if !ok {
			j = -1
		}
		src[i] = j
	}

	out := make([][]float64, f.Len())
	for r, row := range f.Rows {
		aligned := make([]float64, len(columns))
		for i, j := range src {
			if j >= 0 {
				aligned[i] = row[j]
			}
		}
		out[r] = aligned
	}
	return out
}

// Score predicts every row of a scoring frame. Predictions are clipped at
// zero, rounded to 3 dp and forced to zero on closed days.
func Score(model *Model, columns []string, f *features.Frame) []float64 {
	rows := Align(f, columns)
	closed, hasClosed := f.ColumnIndex(ClosedColumn)

	preds := make([]float64, len(rows))
	for i, row := range rows {
		if hasClosed && f.Rows[i][closed] == 1 {
			continue
		}
		preds[i] = numeric.Round(math.Max(0, model.Predict(row)), 3)
	}
	return preds
}
