package forecast

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/pgEdge/pgedge-tourcast/internal/features"
)

// stepFrame has a target that depends only on x: 2 below 5, 10 from 5 up.
func stepFrame(n int) *features.Frame {
	f := &features.Frame{
		Columns: []string{"x", "year", ClosedColumn},
	}
	for i := 0; i < n; i++ {
		x := float64(i % 10)
		year := 2024.0
		if i >= n/2 {
			year = 2025
		}
		y := 2.0
		if x >= 5 {
			y = 10
		}
		f.Rows = append(f.Rows, []float64{x, year, 0})
		f.Target = append(f.Target, y)
	}
	return f
}

var quick = Params{Trees: 60, LearningRate: 0.3, MaxDepth: 3, Subsample: 1, ColSample: 1, Seed: 42}

func TestFitLearnsStep(t *testing.T) {
	f := stepFrame(200)
	m, err := Fit(f.Rows, f.Target, quick)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 2}, {4, 2}, {5, 10}, {9, 10},
	}
	for _, tt := range tests {
		got := m.Predict([]float64{tt.x, 2024, 0})
		if math.Abs(got-tt.want) > 0.05 {
			t.Errorf("Predict(x=%v) = %v, want ~%v", tt.x, got, tt.want)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	f := stepFrame(120)
	p := quick
	p.Subsample = 0.7
	p.ColSample = 0.67

	a, err := Fit(f.Rows, f.Target, p)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	b, err := Fit(f.Rows, f.Target, p)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	for i, row := range f.Rows {
		if a.Predict(row) != b.Predict(row) {
			t.Fatalf("Row %d: predictions differ across fits with the same seed", i)
		}
	}
}

func TestFitErrors(t *testing.T) {
	if _, err := Fit(nil, nil, quick); !errors.Is(err, ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", err)
	}
	if _, err := Fit([][]float64{{1}, {2}}, []float64{1}, quick); err == nil {
		t.Error("Expected error for target length mismatch")
	}
	if _, err := Fit([][]float64{{1}, {2, 3}}, []float64{1, 2}, quick); err == nil {
		t.Error("Expected error for ragged rows")
	}
}

func TestFitConstantFeature(t *testing.T) {
	X := [][]float64{{1}, {1}, {1}, {1}}
	y := []float64{1, 2, 3, 4}
	m, err := Fit(X, y, quick)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got := m.Predict([]float64{1}); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Expected mean prediction 2.5, got %v", got)
	}
}

func TestCutPoints(t *testing.T) {
	cuts := cutPoints([]float64{3, 1, 2, 2, 1}, 64)
	want := []float64{1.5, 2.5}
	if len(cuts) != len(want) || cuts[0] != want[0] || cuts[1] != want[1] {
		t.Errorf("Expected midpoints %v, got %v", want, cuts)
	}

	var many []float64
	for i := 0; i < 1000; i++ {
		many = append(many, float64(i))
	}
	cuts = cutPoints(many, 16)
	if len(cuts) == 0 || len(cuts) > 15 {
		t.Fatalf("Expected at most 15 quantile cuts, got %d", len(cuts))
	}
	for i := 1; i < len(cuts); i++ {
		if cuts[i] <= cuts[i-1] {
			t.Fatalf("Cuts not strictly ascending: %v", cuts)
		}
	}

	if cutPoints([]float64{7, 7, 7}, 64) != nil {
		t.Error("Constant column should have no cuts")
	}
}

func TestRandomSplit(t *testing.T) {
	f := stepFrame(10)
	train, test, err := RandomSplit{TestFraction: 0.2, Seed: 42}.Partition(f)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(test) != 2 || len(train) != 8 {
		t.Errorf("Expected 8/2 split, got %d/%d", len(train), len(test))
	}

	seen := map[int]bool{}
	for _, i := range append(train, test...) {
		if seen[i] {
			t.Fatalf("Row %d on both sides", i)
		}
		seen[i] = true
	}

	// ceil(0.2 * 11) = 3
	_, test, _ = RandomSplit{TestFraction: 0.2, Seed: 42}.Partition(stepFrame(11))
	if len(test) != 3 {
		t.Errorf("Expected 3 test rows, got %d", len(test))
	}

	if _, _, err := (RandomSplit{TestFraction: 0.2}).Partition(stepFrame(1)); !errors.Is(err, ErrEmptySplit) {
		t.Errorf("Expected ErrEmptySplit for a single row, got %v", err)
	}
}

func TestYearSplit(t *testing.T) {
	f := stepFrame(10)
	s := YearSplit{Column: "year", TrainYear: 2024, TestYear: 2025}

	train, test, err := s.Partition(f)
	if err != nil {
		t.Fatalf("Partition failed: %v", err)
	}
	if len(train) != 5 || len(test) != 5 {
		t.Errorf("Expected 5/5 split, got %d/%d", len(train), len(test))
	}
	if s.Describe() != "train=2024, test=2025" {
		t.Errorf("Unexpected description %q", s.Describe())
	}

	tests := []struct {
		name  string
		split YearSplit
	}{
		{"no test year", YearSplit{Column: "year", TrainYear: 2024, TestYear: 2026}},
		{"no train year", YearSplit{Column: "year", TrainYear: 2023, TestYear: 2025}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.split.Partition(f); !errors.Is(err, ErrEmptySplit) {
				t.Errorf("Expected ErrEmptySplit, got %v", err)
			}
		})
	}

	if _, _, err := (YearSplit{Column: "iso_year", TrainYear: 2024, TestYear: 2025}).Partition(f); err == nil {
		t.Error("Expected error for missing split column")
	}
}

func TestTrain(t *testing.T) {
	f := stepFrame(200)
	res, err := Train(f, YearSplit{Column: "year", TrainYear: 2024, TestYear: 2025}, quick)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	m := res.Metrics
	if m.NTrain != 100 || m.NTest != 100 || m.Features != 3 {
		t.Errorf("Unexpected counts %+v", m)
	}
	if m.Target != "bookings_count" || m.Split != "train=2024, test=2025" {
		t.Errorf("Unexpected labels %+v", m)
	}
	if m.MAE > 0.1 || m.R2 < 0.99 {
		t.Errorf("Step function should be learned, got MAE %v R2 %v", m.MAE, m.R2)
	}
	if len(res.FeatureColumns) != 3 {
		t.Errorf("Expected 3 feature columns, got %v", res.FeatureColumns)
	}

	scoring := &features.Frame{Columns: f.Columns, Rows: f.Rows}
	if _, err := Train(scoring, RandomSplit{TestFraction: 0.2}, quick); err == nil {
		t.Error("Expected error training on a frame without target")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		actual   []float64
		preds    []float64
		wantMAE  float64
		wantRMSE float64
		wantR2   float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, 0, 1},
		{"mean prediction", []float64{1, 2, 3}, []float64{2, 2, 2}, 2.0 / 3, math.Sqrt(2.0 / 3), 0},
		{"constant target exact", []float64{4, 4}, []float64{4, 4}, 0, 0, 1},
		{"constant target missed", []float64{4, 4}, []float64{3, 5}, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Evaluate(tt.actual, tt.preds)
			if math.Abs(m.MAE-tt.wantMAE) > 1e-9 {
				t.Errorf("MAE = %v, want %v", m.MAE, tt.wantMAE)
			}
			if math.Abs(m.RMSE-tt.wantRMSE) > 1e-9 {
				t.Errorf("RMSE = %v, want %v", m.RMSE, tt.wantRMSE)
			}
			if math.Abs(m.R2-tt.wantR2) > 1e-9 {
				t.Errorf("R2 = %v, want %v", m.R2, tt.wantR2)
			}
		})
	}
}

func TestAlign(t *testing.T) {
	f := &features.Frame{
		Columns: []string{"b", "extra", "a"},
		Rows:    [][]float64{{2, 9, 1}},
	}
	got := Align(f, []string{"a", "b", "missing"})
	want := []float64{1, 2, 0}
	for i := range want {
		if got[0][i] != want[i] {
			t.Errorf("Aligned column %d = %v, want %v", i, got[0][i], want[i])
		}
	}
}

func TestScore(t *testing.T) {
	// A single leaf tree predicting base + value.
	m := &Model{Base: -1}
	cols := []string{"x", ClosedColumn}

	f := &features.Frame{
		Columns: []string{"x", ClosedColumn},
		Rows:    [][]float64{{1, 0}, {1, 1}},
	}
	preds := Score(m, cols, f)
	if preds[0] != 0 {
		t.Errorf("Negative prediction should clip to 0, got %v", preds[0])
	}

	m.Base = 3.14159
	preds = Score(m, cols, f)
	if preds[0] != 3.142 {
		t.Errorf("Expected 3.142 rounded to 3 dp, got %v", preds[0])
	}
	if preds[1] != 0 {
		t.Errorf("Closed day should predict 0, got %v", preds[1])
	}
}

func TestBundleFiles(t *testing.T) {
	dir := t.TempDir()
	f := stepFrame(50)
	m, err := Fit(f.Rows, f.Target, quick)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	path := BundlePath(dir, "weekly")
	if filepath.Base(path) != "booking_forecast_weekly.json" {
		t.Errorf("Unexpected bundle path %s", path)
	}
	if filepath.Base(MetricsPath(dir, "weekly")) != "ml_metrics_weekly.json" {
		t.Errorf("Unexpected metrics path %s", MetricsPath(dir, "weekly"))
	}

	in := &Bundle{Variant: "weekly", RunID: "run-1", FeatureColumns: f.Columns, Params: quick, Model: m}
	if err := SaveBundle(path, in); err != nil {
		t.Fatalf("SaveBundle failed: %v", err)
	}
	out, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	for i, row := range f.Rows {
		if in.Model.Predict(row) != out.Model.Predict(row) {
			t.Fatalf("Row %d: loaded model predicts differently", i)
		}
	}

	if _, err := LoadBundle(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing bundle")
	}
}

func TestNoopRecorder(t *testing.T) {
	var r RunRecorder = NoopRecorder{}
	if err := r.Record(context.Background(), NewRunRecord("baseline", "baseline_xgb_v1", Metrics{})); err != nil {
		t.Errorf("Noop recorder returned %v", err)
	}
}
