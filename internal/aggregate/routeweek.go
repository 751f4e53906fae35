//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package aggregate

import (
	"sort"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// RouteWeek is one route in one ISO week.
type RouteWeek struct {
	ISOYear int
	ISOWeek int
	RouteID int
	Region  string

	BookingsCount      int
	PartySizeTotal     int
	SalesExVAT         float64
	VATAmount          float64
	SalesIncVAT        float64
	StaffCost          float64
	MarginAmount       float64
	DiscountBookings   int
	BankHolidayDaysAny int
	WeekendDays        int
	DiscountRate       *float64
	MarginPctWeighted  *float64

	Difficulty    string
	DistanceKM    float64
	DurationHours float64
	WeekStart     time.Time
}

// RouteWeekColumns is the route-week schema.
var RouteWeekColumns = []string{
	"iso_year", "iso_week", "route_id", "region", "bookings_count",
	"party_size_total", "sales_ex_vat", "vat_amount", "sales_inc_vat",
	"staff_cost", "margin_amount", "discount_bookings",
	"bank_holiday_days_any", "weekend_days", "discount_rate",
	"margin_pct_weighted", "difficulty", "distance_km", "duration_hours",
	"week_start",
}

type weekKey struct {
	isoYear int
	isoWeek int
	routeID int
	region  string
}

type weekMeasures struct {
	count     int
	party     int
	discounts int
	holidays  int
	weekends  int
	sales     []float64
	vat       []float64
	salesInc  []float64
	staff     []float64
	margin    []float64
}

// weekFields are the calendar values a route-day contributes to its week.
type weekFields struct {
	isoYear, isoWeek int
	holiday, weekend bool
}

// resolveWeek merges a route-day with the calendar. Calendar values win
// over the route-day's own; a date key that is neither in the calendar nor
// a valid date cannot be placed in a week.
func resolveWeek(rd RouteDay, dayIdx map[int]calendar.Day) (weekFields, bool) {
	if d, ok := dayIdx[rd.DateKey]; ok {
		return weekFields{d.ISOYear, d.ISOWeek, d.BankHolidayAny, d.IsWeekend}, true
	}
	if rd.HasDay {
		d := rd.Day
		return weekFields{d.ISOYear, d.ISOWeek, d.BankHolidayAny, d.IsWeekend}, true
	}
	date, err := time.Parse("20060102", table.Int(rd.DateKey))
	if err != nil {
		return weekFields{}, false
	}
	d := calendar.NewDay(date)
	return weekFields{d.ISOYear, d.ISOWeek, false, d.IsWeekend}, true
}

// BuildRouteWeek rolls route-days up to ISO weeks and keeps weeks whose ISO
// year is in [fromYear, toYear]. Route-days that cannot be placed in a week
// are dropped with a warning. The result is sorted by ISO year, ISO week
// and route id.
func BuildRouteWeek(routeDays []RouteDay, days []calendar.Day, routes []dims.Route, fromYear, toYear int) []RouteWeek {
	log := logging.Component("aggregate")
	dayIdx := calendar.Index(days)
	routeIdx := dims.RouteIndex(routes)

	groups := make(map[weekKey]*weekMeasures)
	dropped := 0

	for _, rd := range routeDays {
		wf, ok := resolveWeek(rd, dayIdx)
		if !ok {
			dropped++
			continue
		}

		region := rd.Region
		if region == "" {
			if r, ok := routeIdx[rd.RouteID]; ok {
				region = r.Region
			}
		}

		k := weekKey{isoYear: wf.isoYear, isoWeek: wf.isoWeek, routeID: rd.RouteID, region: region}
		m, ok := groups[k]
		if !ok {
			m = &weekMeasures{}
			groups[k] = m
		}
		m.count += rd.BookingsCount
		m.party += rd.PartySizeTotal
		m.discounts += rd.DiscountBookings
		if wf.holiday {
			m.holidays++
		}
		if wf.weekend {
			m.weekends++
		}
		m.sales = append(m.sales, rd.SalesExVAT)
		m.vat = append(m.vat, rd.VATAmount)
		m.salesInc = append(m.salesInc, rd.SalesIncVAT)
		m.staff = append(m.staff, rd.StaffCost)
		m.margin = append(m.margin, rd.MarginAmount)
	}

	if dropped > 0 {
		log.Warn().Int("rows", dropped).Msg("Dropped route-days without ISO week")
	}

	out := make([]RouteWeek, 0, len(groups))
	for k, m := range groups {
		if k.isoYear < fromYear || k.isoYear > toYear {
			continue
		}
		w := RouteWeek{
			ISOYear:            k.isoYear,
			ISOWeek:            k.isoWeek,
			RouteID:            k.routeID,
			Region:             k.region,
			BookingsCount:      m.count,
			PartySizeTotal:     m.party,
			SalesExVAT:         numeric.Sum(m.sales, 2),
			VATAmount:          numeric.Sum(m.vat, 2),
			SalesIncVAT:        numeric.Sum(m.salesInc, 2),
			StaffCost:          numeric.Sum(m.staff, 2),
			MarginAmount:       numeric.Sum(m.margin, 2),
			DiscountBookings:   m.discounts,
			BankHolidayDaysAny: m.holidays,
			WeekendDays:        m.weekends,
			WeekStart:          calendar.ISOWeekStart(k.isoYear, k.isoWeek),
		}
		w.DiscountRate = ratio(float64(m.discounts), float64(m.count))
		w.MarginPctWeighted = ratio(w.MarginAmount, w.SalesExVAT)
		if r, ok := routeIdx[k.routeID]; ok {
			w.Difficulty = r.Difficulty
			w.DistanceKM = r.DistanceKM
			w.DurationHours = r.DurationHours
		}
		out = append(out, w)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ISOYear != b.ISOYear {
			return a.ISOYear < b.ISOYear
		}
		if a.ISOWeek != b.ISOWeek {
			return a.ISOWeek < b.ISOWeek
		}
		if a.RouteID != b.RouteID {
			return a.RouteID < b.RouteID
		}
		return a.Region < b.Region
	})
	return out
}

// RouteWeekTable renders route-week rows.
func RouteWeekTable(name string, rows []RouteWeek) *table.Table {
	t := table.New(name, RouteWeekColumns...)
	for _, w := range rows {
		t.Append(
			table.Int(w.ISOYear),
			table.Int(w.ISOWeek),
			table.Int(w.RouteID),
			w.Region,
			table.Int(w.BookingsCount),
			table.Int(w.PartySizeTotal),
			table.Float(w.SalesExVAT),
			table.Float(w.VATAmount),
			table.Float(w.SalesIncVAT),
			table.Float(w.StaffCost),
			table.Float(w.MarginAmount),
			table.Int(w.DiscountBookings),
			table.Int(w.BankHolidayDaysAny),
			table.Int(w.WeekendDays),
			table.NullFloat(w.DiscountRate),
			table.NullFloat(w.MarginPctWeighted),
			w.Difficulty,
			table.Float(w.DistanceKM),
			table.Float(w.DurationHours),
			table.Date(w.WeekStart),
		)
	}
	return t
}
