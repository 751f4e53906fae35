//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package numeric provides rounding and clamping helpers shared by the
// generators and aggregators.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v to the given number of decimal places, half away from zero,
// on the shortest decimal representation of v.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Money rounds a monetary amount to pence.
func Money(v float64) float64 {
	return Round(v, 2)
}

// Pct rounds a ratio to four decimal places.
func Pct(v float64) float64 {
	return Round(v, 4)
}

// Clip limits v to [lo, hi].
func Clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Sum adds values exactly in decimal and returns the total rounded to places.
// Repeated float addition of rounded amounts drifts in the last digit.
func Sum(values []float64, places int32) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(places).InexactFloat64()
}
