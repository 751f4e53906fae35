//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"math"
	"testing"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence across every draw kind
	for i := 0; i < 50; i++ {
		if v1, v2 := f1.Int(0, 1000), f2.Int(0, 1000); v1 != v2 {
			t.Errorf("Same seed produced different ints: %d != %d", v1, v2)
		}
		if v1, v2 := f1.Normal(1, 0.06), f2.Normal(1, 0.06); v1 != v2 {
			t.Errorf("Same seed produced different normals: %f != %f", v1, v2)
		}
		if v1, v2 := f1.Poisson(1.3), f2.Poisson(1.3); v1 != v2 {
			t.Errorf("Same seed produced different counts: %d != %d", v1, v2)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d not in range [5, 10]", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFakerWithSeed(2)
	for i := 0; i < 100; i++ {
		v := f.Float64(0.05, 0.20)
		if v < 0.05 || v >= 0.20 {
			t.Errorf("Float64 %f not in range [0.05, 0.20)", v)
		}
	}
}

func TestFakerUnit(t *testing.T) {
	f := NewFakerWithSeed(3)
	for i := 0; i < 1000; i++ {
		v := f.Unit()
		if v < 0 || v >= 1 {
			t.Fatalf("Unit %f not in [0, 1)", v)
		}
	}
}

func TestFakerNormalMoments(t *testing.T) {
	f := NewFakerWithSeed(4)
	n := 20000
	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		v := f.Normal(0.62, 0.06)
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(n)
	sd := math.Sqrt(sumSq/float64(n) - mean*mean)

	if math.Abs(mean-0.62) > 0.005 {
		t.Errorf("Normal mean %f too far from 0.62", mean)
	}
	if math.Abs(sd-0.06) > 0.005 {
		t.Errorf("Normal sd %f too far from 0.06", sd)
	}
}

func TestFakerPoisson(t *testing.T) {
	tests := []struct {
		name   string
		lambda float64
	}{
		{"low", 0.05},
		{"baseline", 0.55},
		{"peak", 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFakerWithSeed(5)
			n := 20000
			total := 0
			for i := 0; i < n; i++ {
				k := f.Poisson(tt.lambda)
				if k < 0 {
					t.Fatalf("Poisson returned negative count %d", k)
				}
				total += k
			}
			mean := float64(total) / float64(n)
			if math.Abs(mean-tt.lambda) > 0.05+tt.lambda*0.05 {
				t.Errorf("Poisson mean %f too far from %f", mean, tt.lambda)
			}
		})
	}
}

func TestFakerPoissonNonPositive(t *testing.T) {
	f := NewFakerWithSeed(6)
	if k := f.Poisson(0); k != 0 {
		t.Errorf("Poisson(0) = %d, want 0", k)
	}
	if k := f.Poisson(-1); k != 0 {
		t.Errorf("Poisson(-1) = %d, want 0", k)
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 100; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) should never be true")
		}
		if !f.Chance(1) {
			t.Fatal("Chance(1) should always be true")
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFakerWithSeed(8)
	items := []int{101, 102, 103, 104, 105}

	for i := 0; i < 100; i++ {
		chosen := Choose(f, items)
		found := false
		for _, item := range items {
			if item == chosen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in slice: %d", chosen)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFakerWithSeed(9)
	var items []string

	chosen := Choose(f, items)
	if chosen != "" {
		t.Errorf("Choose on empty slice should return zero value, got: %s", chosen)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(10)
	items := []string{"a", "b", "c"}
	weights := []float64{0.1, 0.2, 0.7} // c should be chosen ~70% of the time

	counts := make(map[string]int)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		chosen := ChooseWeighted(f, items, weights)
		counts[chosen]++
	}

	if counts["c"] < counts["a"] || counts["c"] < counts["b"] {
		t.Errorf("Weighted choice distribution unexpected: %v", counts)
	}
}

func TestChooseWeightedZeroWeightNeverChosen(t *testing.T) {
	f := NewFakerWithSeed(11)
	items := []int{1, 2, 3}
	weights := []float64{0.5, 0, 0.5}

	for i := 0; i < 500; i++ {
		if got := ChooseWeighted(f, items, weights); got == 2 {
			t.Fatal("Item with zero weight was chosen")
		}
	}
}

func TestChooseWeightedEmpty(t *testing.T) {
	f := NewFakerWithSeed(12)
	var items []string
	var weights []float64

	chosen := ChooseWeighted(f, items, weights)
	if chosen != "" {
		t.Errorf("ChooseWeighted on empty slices should return zero value, got: %s", chosen)
	}
}

func TestShuffle(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	Shuffle(NewFakerWithSeed(13), a)
	Shuffle(NewFakerWithSeed(13), b)

	seen := make(map[int]bool)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Same seed produced different permutations: %v vs %v", a, b)
		}
		seen[a[i]] = true
	}
	if len(seen) != 10 {
		t.Errorf("Shuffle lost elements: %v", a)
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("bookings", 10, 0)
	p.Update(3, 12)
	p.Update(2, 8)
	if p.Rows() != 20 {
		t.Errorf("Expected 20 rows, got %d", p.Rows())
	}
	p.Done()
}

// Benchmarks
func BenchmarkFakerPoisson(b *testing.B) {
	f := NewFakerWithSeed(1)
	for i := 0; i < b.N; i++ {
		f.Poisson(0.8)
	}
}

func BenchmarkChooseWeighted(b *testing.B) {
	f := NewFakerWithSeed(1)
	items := []int{1, 2, 3, 4, 5, 6}
	weights := []float64{0.15, 0.28, 0.25, 0.17, 0.10, 0.05}
	for i := 0; i < b.N; i++ {
		ChooseWeighted(f, items, weights)
	}
}
