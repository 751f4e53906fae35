//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package booking

import (
	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/datagen"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
)

// Demand model constants.
const (
	baseIntensity     = 0.55
	minIntensity      = 0.05
	maxIntensity      = 3.0
	weekendUplift     = 1.20
	openHolidayUplift = 1.40
)

var regionUplift = map[string]float64{
	"lake_district": 1.35,
	"wales":         1.15,
	"peak_district": 1.00,
	"scotland":      0.90,
}

var seasonUplift = map[string]float64{
	calendar.Winter: 1.30,
	calendar.Spring: 1.00,
	calendar.Summer: 0.85,
	calendar.Autumn: 1.10,
}

var difficultyUplift = map[string]float64{
	"easy":     1.20,
	"moderate": 1.00,
	"hard":     0.90,
	"severe":   0.75,
}

var difficultyPriceMultiplier = map[string]float64{
	"easy":     0.95,
	"moderate": 1.00,
	"hard":     1.10,
	"severe":   1.20,
}

var partySizes = []int{1, 2, 3, 4, 5, 6}

// partySizeWeights skews easier routes towards bigger groups. Any other
// difficulty uses the severe table.
var partySizeWeights = map[string][]float64{
	"easy":     {0.10, 0.25, 0.25, 0.20, 0.12, 0.08},
	"moderate": {0.15, 0.28, 0.25, 0.17, 0.10, 0.05},
	"hard":     {0.22, 0.33, 0.23, 0.13, 0.07, 0.02},
	"severe":   {0.30, 0.38, 0.20, 0.08, 0.03, 0.01},
}

func factor(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}

// ExpectedBookings returns the Poisson mean for one route-day. openHoliday
// is true for a bank holiday that is not a closed day.
func ExpectedBookings(region, season, difficulty string, weekend, openHoliday bool) float64 {
	mu := baseIntensity
	mu *= factor(regionUplift, region)
	mu *= factor(seasonUplift, season)
	mu *= factor(difficultyUplift, difficulty)
	if weekend {
		mu *= weekendUplift
	}
	if openHoliday {
		mu *= openHolidayUplift
	}
	return numeric.Clip(mu, minIntensity, maxIntensity)
}

// PartySize draws a group size in 1..6.
func PartySize(f *datagen.Faker, difficulty string) int {
	weights, ok := partySizeWeights[difficulty]
	if !ok {
		weights = partySizeWeights["severe"]
	}
	return datagen.ChooseWeighted(f, partySizes, weights)
}

// DiscountProbability returns the chance a booking is discounted.
func DiscountProbability(party int, season string, weekend bool) float64 {
	p := 0.10
	if party >= 4 {
		p += 0.10
	}
	if season == calendar.Summer {
		p += 0.05
	}
	if !weekend {
		p += 0.03
	}
	return min(p, 0.35)
}

// Discount draws the discount flag and, when flagged, its percentage.
func Discount(f *datagen.Faker, party int, season string, weekend bool) (bool, float64) {
	if !f.Chance(DiscountProbability(party, season, weekend)) {
		return false, 0
	}
	return true, f.Float64(0.05, 0.20)
}

// PricePerPerson draws the ex-VAT price for one person, within [60, 190].
func PricePerPerson(f *datagen.Faker, durationHours float64, difficulty string) float64 {
	base := 75.0 + durationHours*8.0
	mult := factor(difficultyPriceMultiplier, difficulty)
	return numeric.Clip(base*mult*f.Normal(1.0, 0.06), 60, 190)
}

// MarginPct draws a margin percentage within [0.30, 0.50].
func MarginPct(f *datagen.Faker, discounted bool, party int) float64 {
	m := f.Float64(0.30, 0.50)
	if discounted {
		m -= f.Float64(0.03, 0.08)
	}
	m += min(float64(max(party-2, 0))*0.008, 0.03)
	return numeric.Clip(m, 0.30, 0.50)
}

// StaffShare draws the staff share of total cost within [0.50, 0.75].
func StaffShare(f *datagen.Faker) float64 {
	return numeric.Clip(f.Normal(0.62, 0.06), 0.50, 0.75)
}
