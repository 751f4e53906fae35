//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package variants

import (
	"github.com/pgEdge/pgedge-tourcast/internal/features"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// DailyColumns is the daily forecast schema.
var DailyColumns = []string{
	"date_key", "date", "route_id", "region", "difficulty", "season",
	"day_name", "is_bank_holiday_division", "is_closed_day",
	"predicted_bookings_count", "prediction_version", "year",
}

// WeeklyColumns is the weekly forecast schema.
var WeeklyColumns = []string{
	"iso_year", "iso_week", "week_start", "route_id", "region", "difficulty",
	"distance_km", "duration_hours", "weekend_days", "bank_holiday_days_any",
	"predicted_bookings_count", "prediction_version", "year",
}

// DailyTable renders scored daily scaffold rows.
func DailyTable(name, version string, year int, f *features.Frame, preds []float64) *table.Table {
	t := table.New(name, DailyColumns...)
	for i, m := range f.Meta {
		t.Append(
			table.Int(m.DateKey),
			table.Date(m.Date),
			table.Int(m.RouteID),
			m.Region,
			m.Difficulty,
			m.Season,
			m.DayName,
			table.Bool(m.BankHolidayDivision),
			table.Bool(m.Closed),
			table.Float(preds[i]),
			version,
			table.Int(year),
		)
	}
	return t
}

// WeeklyTable renders scored weekly scaffold rows.
func WeeklyTable(name, version string, year int, f *features.Frame, preds []float64) *table.Table {
	t := table.New(name, WeeklyColumns...)
	for i, m := range f.Meta {
		t.Append(
			table.Int(m.ISOYear),
			table.Int(m.ISOWeek),
			table.Date(m.WeekStart),
			table.Int(m.RouteID),
			m.Region,
			m.Difficulty,
			table.Float(m.DistanceKM),
			table.Float(m.DurationHours),
			table.Int(m.WeekendDays),
			table.Int(m.BankHolidayDaysAny),
			table.Float(preds[i]),
			version,
			table.Int(year),
		)
	}
	return t
}
