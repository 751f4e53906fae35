//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package booking simulates the booking fact table: zero or more bookings
// per route and calendar day, drawn from a single seeded stream.
package booking

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/datagen"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
	"github.com/pgEdge/pgedge-tourcast/internal/holidays"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
)

// Booking is a row of the booking fact table.
type Booking struct {
	BookingID           int
	BookingDate         time.Time
	DateKey             int
	RouteID             int
	Region              string
	GuideID             int
	PartySize           int
	Difficulty          string
	DurationHours       float64
	DiscountFlag        bool
	DiscountPct         float64
	PricePerPersonExVAT float64
	SalesExVAT          float64
	VATAmount           float64
	SalesIncVAT         float64
	StaffCost           float64
	MarginAmount        float64
	MarginPct           float64
	Season              string
	IsWeekend           bool
	IsBankHoliday       bool
	HolidayDivision     string
}

// Inputs are the dimensions a generation run iterates over.
type Inputs struct {
	Routes    []dims.Route
	GuideIDs  []int
	Days      []calendar.Day
	Divisions holidays.DivisionMap
	Closed    holidays.ClosedDays
}

// Engine generates bookings. It is not safe for concurrent use; the
// stream order is part of the output.
type Engine struct {
	faker   *datagen.Faker
	vatRate float64
	log     zerolog.Logger
}

// NewEngine creates an engine drawing from faker.
func NewEngine(faker *datagen.Faker, vatRate float64) *Engine {
	return &Engine{
		faker:   faker,
		vatRate: vatRate,
		log:     logging.Component("booking"),
	}
}

// Generate walks routes in order and, for each route, every day in order.
// Closed days are skipped before any draw. Booking ids are assigned
// sequentially from 1. No guides or no routes yields no bookings.
func (e *Engine) Generate(ctx context.Context, in Inputs) ([]Booking, error) {
	if len(in.Routes) == 0 || len(in.GuideIDs) == 0 {
		e.log.Warn().
			Int("routes", len(in.Routes)).
			Int("guides", len(in.GuideIDs)).
			Msg("Nothing to generate")
		return nil, nil
	}

	divisions := in.Divisions
	if divisions == nil {
		divisions = holidays.DefaultDivisions()
	}

	progress := datagen.NewProgressReporter("bookings", int64(len(in.Routes)),
		int64(max(1, len(in.Routes)/10)))

	var out []Booking
	nextID := 1
	closedSkipped := 0

	for _, route := range in.Routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		division := divisions.Resolve(route.Region)
		before := len(out)

		for _, day := range in.Days {
			if in.Closed.IsClosed(division, day.Date) {
				closedSkipped++
				continue
			}

			isBH := day.BankHolidayFor(division)
			mu := ExpectedBookings(route.Region, day.Season, route.Difficulty, day.IsWeekend, isBH)

			n := e.faker.Poisson(mu)
			for i := 0; i < n; i++ {
				b := e.draw(route, day, division, isBH, in.GuideIDs)
				b.BookingID = nextID
				nextID++
				out = append(out, b)
			}
		}

		progress.Update(1, int64(len(out)-before))
	}
	progress.Done()

	e.log.Debug().
		Int("bookings", len(out)).
		Int("closed_route_days", closedSkipped).
		Msg("Bookings generated")
	return out, nil
}

// draw samples one booking. Draw order: party size, discount, price,
// margin, staff share, guide.
func (e *Engine) draw(route dims.Route, day calendar.Day, division string, isBH bool, guides []int) Booking {
	f := e.faker

	party := PartySize(f, route.Difficulty)
	discounted, discountPct := Discount(f, party, day.Season, day.IsWeekend)
	ppp := PricePerPerson(f, route.DurationHours, route.Difficulty)

	listValue := ppp * float64(party)
	discountValue := 0.0
	if discounted {
		discountValue = listValue * discountPct
	}
	salesExVAT := math.Max(listValue-discountValue, 0)

	marginPct := MarginPct(f, discounted, party)
	marginAmount := salesExVAT * marginPct
	totalCost := math.Max(salesExVAT-marginAmount, 0)
	staffCost := totalCost * StaffShare(f)

	vat := salesExVAT * e.vatRate
	salesIncVAT := salesExVAT + vat

	guideID := datagen.Choose(f, guides)

	return Booking{
		BookingDate:         day.Date,
		DateKey:             day.DateKey,
		RouteID:             route.RouteID,
		Region:              route.Region,
		GuideID:             guideID,
		PartySize:           party,
		Difficulty:          route.Difficulty,
		DurationHours:       numeric.Money(route.DurationHours),
		DiscountFlag:        discounted,
		DiscountPct:         numeric.Pct(discountPct),
		PricePerPersonExVAT: numeric.Money(ppp),
		SalesExVAT:          numeric.Money(salesExVAT),
		VATAmount:           numeric.Money(vat),
		SalesIncVAT:         numeric.Money(salesIncVAT),
		StaffCost:           numeric.Money(staffCost),
		MarginAmount:        numeric.Money(marginAmount),
		MarginPct:           numeric.Pct(marginPct),
		Season:              day.Season,
		IsWeekend:           day.IsWeekend,
		IsBankHoliday:       isBH,
		HolidayDivision:     division,
	}
}
