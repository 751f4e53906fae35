//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package aggregate rolls bookings up to the sparse route-day and
// route-week fact tables.
package aggregate

import (
	"sort"

	"github.com/pgEdge/pgedge-tourcast/internal/booking"
	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// RouteDay is one route on one day with at least one booking.
type RouteDay struct {
	DateKey int
	RouteID int
	Region  string

	// Day holds calendar attributes when the date is in the calendar.
	Day    calendar.Day
	HasDay bool

	// Route holds route attributes when the route is in the dimension.
	Route    dims.Route
	HasRoute bool

	BookingsCount     int
	PartySizeTotal    int
	PartySizeAvg      float64
	DiscountBookings  int
	DiscountRate      float64
	SalesExVAT        float64
	VATAmount         float64
	SalesIncVAT       float64
	StaffCost         float64
	MarginAmount      float64
	MarginPctWeighted *float64
}

// RouteDayColumns is the route-day schema.
var RouteDayColumns = []string{
	"date_key", "date", "year", "quarter", "month", "month_name",
	"iso_year", "iso_week", "day_name", "is_weekend", "season",
	"route_id", "region", "difficulty", "distance_km", "duration_hours",
	"route_lat", "route_lon", "bookings_count", "party_size_total",
	"party_size_avg", "discount_bookings", "discount_rate",
	"sales_ex_vat", "vat_amount", "sales_inc_vat", "staff_cost",
	"margin_amount", "margin_pct_weighted",
	"is_bank_holiday_england_wales", "is_bank_holiday_scotland",
	"is_bank_holiday_northern_ireland", "is_bank_holiday_any",
}

type dayKey struct {
	dateKey int
	routeID int
	region  string
}

type dayMeasures struct {
	count     int
	party     int
	discounts int
	sales     []float64
	vat       []float64
	salesInc  []float64
	staff     []float64
	margin    []float64
}

// ratio returns num/den, or nil when den is zero.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	r := num / den
	return &r
}

// BuildRouteDay groups bookings by date, route and region and joins the
// calendar and route attributes. The result is sorted by date key then
// route id.
func BuildRouteDay(bookings []booking.Booking, days []calendar.Day, routes []dims.Route) []RouteDay {
	groups := make(map[dayKey]*dayMeasures)
	for _, b := range bookings {
		k := dayKey{dateKey: b.DateKey, routeID: b.RouteID, region: b.Region}
		m, ok := groups[k]
		if !ok {
			m = &dayMeasures{}
			groups[k] = m
		}
		m.count++
		m.party += b.PartySize
		if b.DiscountFlag {
			m.discounts++
		}
		m.sales = append(m.sales, b.SalesExVAT)
		m.vat = append(m.vat, b.VATAmount)
		m.salesInc = append(m.salesInc, b.SalesIncVAT)
		m.staff = append(m.staff, b.StaffCost)
		m.margin = append(m.margin, b.MarginAmount)
	}

	dayIdx := calendar.Index(days)
	routeIdx := dims.RouteIndex(routes)

	out := make([]RouteDay, 0, len(groups))
	for k, m := range groups {
		rd := RouteDay{
			DateKey:          k.dateKey,
			RouteID:          k.routeID,
			Region:           k.region,
			BookingsCount:    m.count,
			PartySizeTotal:   m.party,
			PartySizeAvg:     float64(m.party) / float64(m.count),
			DiscountBookings: m.discounts,
			DiscountRate:     float64(m.discounts) / float64(m.count),
			SalesExVAT:       numeric.Sum(m.sales, 2),
			VATAmount:        numeric.Sum(m.vat, 2),
			SalesIncVAT:      numeric.Sum(m.salesInc, 2),
			StaffCost:        numeric.Sum(m.staff, 2),
			MarginAmount:     numeric.Sum(m.margin, 2),
		}
		rd.MarginPctWeighted = ratio(rd.MarginAmount, rd.SalesExVAT)
		rd.Day, rd.HasDay = dayIdx[k.dateKey]
		rd.Route, rd.HasRoute = routeIdx[k.routeID]
		out = append(out, rd)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DateKey != out[j].DateKey {
			return out[i].DateKey < out[j].DateKey
		}
		if out[i].RouteID != out[j].RouteID {
			return out[i].RouteID < out[j].RouteID
		}
		return out[i].Region < out[j].Region
	})
	return out
}

// RouteDayTable renders route-day rows. Calendar and route attributes are
// empty where the join found nothing.
func RouteDayTable(name string, rows []RouteDay) *table.Table {
	t := table.New(name, RouteDayColumns...)
	for _, r := range rows {
		cal := make([]string, 10)
		hol := make([]string, 4)
		if r.HasDay {
			d := r.Day
			cal = []string{
				table.Date(d.Date), table.Int(d.Year), table.Int(d.Quarter),
				table.Int(d.Month), d.MonthName, table.Int(d.ISOYear),
				table.Int(d.ISOWeek), d.DayName, table.Bool(d.IsWeekend), d.Season,
			}
			hol = []string{
				table.Bool(d.BankHolidayEnglandWales), table.Bool(d.BankHolidayScotland),
				table.Bool(d.BankHolidayNorthernIreland), table.Bool(d.BankHolidayAny),
			}
		}

		rt := make([]string, 5)
		if r.HasRoute {
			rt = []string{
				r.Route.Difficulty, table.Float(r.Route.DistanceKM),
				table.Float(r.Route.DurationHours), table.Float(r.Route.Lat),
				table.Float(r.Route.Lon),
			}
		}

		row := make([]string, 0, len(RouteDayColumns))
		row = append(row, table.Int(r.DateKey))
		row = append(row, cal...)
		row = append(row, table.Int(r.RouteID), r.Region)
		row = append(row, rt...)
		row = append(row,
			table.Int(r.BookingsCount),
			table.Int(r.PartySizeTotal),
			table.Float(r.PartySizeAvg),
			table.Int(r.DiscountBookings),
			table.Float(r.DiscountRate),
			table.Float(r.SalesExVAT),
			table.Float(r.VATAmount),
			table.Float(r.SalesIncVAT),
			table.Float(r.StaffCost),
			table.Float(r.MarginAmount),
			table.NullFloat(r.MarginPctWeighted),
		)
		row = append(row, hol...)
		t.Append(row...)
	}
	return t
}
