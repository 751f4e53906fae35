package aggregate

import (
	"testing"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/booking"
	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
	"github.com/pgEdge/pgedge-tourcast/internal/holidays"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

var routes = []dims.Route{
	{RouteID: 1, Name: "Scafell Pike", Region: "lake_district", DistanceKM: 12, DurationHours: 6, Difficulty: "moderate", Lat: 54.45, Lon: -3.2},
	{RouteID: 2, Name: "Ben Nevis", Region: "scotland", DistanceKM: 17, DurationHours: 8, Difficulty: "hard", Lat: 56.8, Lon: -5.0},
}

func days(t *testing.T) []calendar.Day {
	t.Helper()
	events := []holidays.Event{
		{Date: date("2024-12-30"), Division: holidays.Scotland, Title: "Made-up holiday"},
	}
	out, err := calendar.Build(date("2024-12-23"), date("2025-01-12"), events)
	if err != nil {
		t.Fatalf("calendar.Build failed: %v", err)
	}
	return out
}

func bk(id int, d string, route int, region string, party int, sales, margin float64, discount bool) booking.Booking {
	bd := date(d)
	return booking.Booking{
		BookingID:    id,
		BookingDate:  bd,
		DateKey:      calendar.DateKey(bd),
		RouteID:      route,
		Region:       region,
		PartySize:    party,
		DiscountFlag: discount,
		SalesExVAT:   sales,
		VATAmount:    sales * 0.2,
		SalesIncVAT:  sales * 1.2,
		StaffCost:    (sales - margin) * 0.6,
		MarginAmount: margin,
	}
}

func TestBuildRouteDay(t *testing.T) {
	bookings := []booking.Booking{
		bk(1, "2024-12-30", 2, "scotland", 2, 200.10, 80.04, false),
		bk(2, "2024-12-30", 1, "lake_district", 3, 300.20, 120.08, true),
		bk(3, "2024-12-30", 1, "lake_district", 4, 100.10, 40.04, false),
		bk(4, "2024-12-27", 1, "lake_district", 1, 0, 0, false),
	}

	rows := BuildRouteDay(bookings, days(t), routes)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 route-days, got %d", len(rows))
	}

	// Sorted by date key then route id.
	if rows[0].DateKey != 20241227 || rows[1].RouteID != 1 || rows[2].RouteID != 2 {
		t.Errorf("Unexpected order: %d/%d, %d/%d, %d/%d",
			rows[0].DateKey, rows[0].RouteID, rows[1].DateKey, rows[1].RouteID, rows[2].DateKey, rows[2].RouteID)
	}

	r := rows[1]
	if r.BookingsCount != 2 || r.PartySizeTotal != 7 || r.PartySizeAvg != 3.5 {
		t.Errorf("Unexpected counts %+v", r)
	}
	if r.DiscountBookings != 1 || r.DiscountRate != 0.5 {
		t.Errorf("Unexpected discount measures %d/%v", r.DiscountBookings, r.DiscountRate)
	}
	if r.SalesExVAT != 400.30 {
		t.Errorf("Expected exact money sum 400.30, got %v", r.SalesExVAT)
	}
	if r.MarginPctWeighted == nil || *r.MarginPctWeighted != r.MarginAmount/r.SalesExVAT {
		t.Errorf("Unexpected weighted margin %v", r.MarginPctWeighted)
	}
	if !r.HasDay || r.Day.ISOYear != 2025 || r.Day.ISOWeek != 1 {
		t.Errorf("Expected calendar joined with ISO 2025-W1, got %+v", r.Day)
	}
	if !r.HasRoute || r.Route.Difficulty != "moderate" {
		t.Errorf("Expected route joined, got %+v", r.Route)
	}

	if rows[0].MarginPctWeighted != nil {
		t.Error("Expected nil weighted margin when sales are zero")
	}
}

func TestRouteDayTable(t *testing.T) {
	bookings := []booking.Booking{
		bk(1, "2024-12-27", 1, "lake_district", 1, 0, 0, false),
		bk(2, "2030-06-01", 9, "wales", 2, 100, 40, false),
	}
	rows := BuildRouteDay(bookings, days(t), routes)
	tbl := RouteDayTable("fact_route_day_2024_2025", rows)

	if len(tbl.Columns) != len(RouteDayColumns) {
		t.Fatalf("Expected %d columns, got %d", len(RouteDayColumns), len(tbl.Columns))
	}
	for i, row := range tbl.Rows {
		if len(row) != len(RouteDayColumns) {
			t.Errorf("Row %d has %d cells", i, len(row))
		}
	}
	if tbl.Value(0, "margin_pct_weighted") != "" {
		t.Errorf("Expected empty weighted margin, got %q", tbl.Value(0, "margin_pct_weighted"))
	}
	if tbl.Value(0, "day_name") != "Friday" || tbl.Value(0, "difficulty") != "moderate" {
		t.Errorf("Unexpected joined attributes %v", tbl.Rows[0])
	}
	if tbl.Value(1, "date") != "" || tbl.Value(1, "difficulty") != "" {
		t.Errorf("Expected empty attributes for unmatched joins, got %v", tbl.Rows[1])
	}
}

func TestBuildRouteWeek(t *testing.T) {
	cal := days(t)
	bookings := []booking.Booking{
		bk(1, "2024-12-28", 1, "lake_district", 2, 100, 40, true),  // 2024-W52 Saturday
		bk(2, "2024-12-29", 1, "lake_district", 3, 150, 60, false), // 2024-W52 Sunday
		bk(3, "2024-12-30", 1, "lake_district", 1, 50, 20, false),  // 2025-W1
		bk(4, "2024-12-30", 2, "scotland", 4, 200, 80, false),      // 2025-W1, scotland holiday
		bk(5, "2025-01-01", 2, "scotland", 2, 0, 0, false),         // 2025-W1
	}

	rd := BuildRouteDay(bookings, cal, routes)
	weeks := BuildRouteWeek(rd, cal, routes, 2024, 2025)

	if len(weeks) != 3 {
		t.Fatalf("Expected 3 route-weeks, got %d", len(weeks))
	}

	w := weeks[0]
	if w.ISOYear != 2024 || w.ISOWeek != 52 || w.RouteID != 1 {
		t.Errorf("Unexpected first week %d-W%d route %d", w.ISOYear, w.ISOWeek, w.RouteID)
	}
	if w.BookingsCount != 2 || w.PartySizeTotal != 5 || w.SalesExVAT != 250 {
		t.Errorf("Unexpected week measures %+v", w)
	}
	if w.WeekendDays != 2 || w.BankHolidayDaysAny != 0 {
		t.Errorf("Expected 2 weekend days and no holidays, got %d/%d", w.WeekendDays, w.BankHolidayDaysAny)
	}
	if w.DiscountRate == nil || *w.DiscountRate != 0.5 {
		t.Errorf("Unexpected discount rate %v", w.DiscountRate)
	}
	if w.WeekStart.Format("2006-01-02") != "2024-12-23" {
		t.Errorf("Unexpected week start %s", w.WeekStart.Format("2006-01-02"))
	}
	if w.Difficulty != "moderate" || w.DistanceKM != 12 {
		t.Errorf("Expected route attributes joined, got %s/%v", w.Difficulty, w.DistanceKM)
	}

	scot := weeks[2]
	if scot.ISOYear != 2025 || scot.RouteID != 2 {
		t.Fatalf("Unexpected third week %+v", scot)
	}
	if scot.BankHolidayDaysAny != 1 || scot.BookingsCount != 2 {
		t.Errorf("Expected 1 holiday day and 2 bookings, got %d/%d", scot.BankHolidayDaysAny, scot.BookingsCount)
	}
	if scot.WeekStart.Format("2006-01-02") != "2024-12-30" {
		t.Errorf("Expected ISO Monday 2024-12-30, got %s", scot.WeekStart.Format("2006-01-02"))
	}
}

func TestBuildRouteWeekCalendarWins(t *testing.T) {
	cal := days(t)

	// A route-day carrying stale calendar values and no region.
	rd := []RouteDay{{
		DateKey:       20241230,
		RouteID:       2,
		HasDay:        true,
		Day:           calendar.Day{ISOYear: 1999, ISOWeek: 7},
		BookingsCount: 1,
		SalesExVAT:    10,
	}}

	weeks := BuildRouteWeek(rd, cal, routes, 2024, 2025)
	if len(weeks) != 1 {
		t.Fatalf("Expected 1 week, got %d", len(weeks))
	}
	if weeks[0].ISOYear != 2025 || weeks[0].ISOWeek != 1 {
		t.Errorf("Expected calendar ISO values, got %d-W%d", weeks[0].ISOYear, weeks[0].ISOWeek)
	}
	if weeks[0].Region != "scotland" {
		t.Errorf("Expected region from route dimension, got %q", weeks[0].Region)
	}
}

func TestBuildRouteWeekDropsAndFilters(t *testing.T) {
	rd := []RouteDay{
		{DateKey: 20241399, RouteID: 1, Region: "lake_district", BookingsCount: 1},
		{DateKey: 20230615, RouteID: 1, Region: "lake_district", BookingsCount: 1},
		{DateKey: 20240615, RouteID: 1, Region: "lake_district", BookingsCount: 3},
	}

	weeks := BuildRouteWeek(rd, nil, routes, 2024, 2025)
	if len(weeks) != 1 {
		t.Fatalf("Expected invalid and out-of-range rows removed, got %d weeks", len(weeks))
	}
	if weeks[0].BookingsCount != 3 || weeks[0].ISOWeek != 24 {
		t.Errorf("Unexpected surviving week %+v", weeks[0])
	}
	if weeks[0].MarginPctWeighted != nil {
		t.Error("Expected nil weighted margin for zero sales")
	}

	tbl := RouteWeekTable("fact_route_week_2024_2025", weeks)
	if tbl.Value(0, "margin_pct_weighted") != "" || tbl.Value(0, "week_start") != "2024-06-10" {
		t.Errorf("Unexpected table row %v", tbl.Rows[0])
	}
}
