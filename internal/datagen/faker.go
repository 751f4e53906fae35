//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides the seeded random stream used by the generators.
//
// A Faker is created once per run and passed explicitly to every sampling
// call. All draws (uniform, gaussian, Poisson, categorical) consume the same
// underlying gofakeit source in call order, so a fixed seed and fixed inputs
// reproduce an identical sequence.
package datagen

import (
	"math"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker wraps a seeded gofakeit generator.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 in [min, max).
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Unit returns a uniform draw in [0, 1).
func (f *Faker) Unit() float64 {
	return f.faker.Float64Range(0, 1)
}

// Normal draws from a gaussian with the given mean and standard deviation
// using the Box-Muller transform. Each call consumes exactly two uniforms.
func (f *Faker) Normal(mean, sd float64) float64 {
	u1 := 1 - f.Unit() // (0, 1]
	u2 := f.Unit()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + sd*z
}

// Poisson draws a count with mean lambda (Knuth's multiplication method).
// Suitable for the small means used by the demand model.
func (f *Faker) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := f.Unit()
	for p > limit {
		k++
		p *= f.Unit()
	}
	return k
}

// Chance reports whether a uniform draw falls below p.
func (f *Faker) Chance(p float64) bool {
	return f.Unit() < p
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights. Weights need not
// sum to one.
func ChooseWeighted[T any](f *Faker, items []T, weights []float64) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0.0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Unit() * totalWeight
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](f *Faker, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := f.Int(0, i)
		items[i], items[j] = items[j], items[i]
	}
}
