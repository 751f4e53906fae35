//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package calendar builds the daily date dimension with ISO week parts,
// seasons and per-division bank holiday flags.
package calendar

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/holidays"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Seasons in calendar order.
const (
	Winter = "winter"
	Spring = "spring"
	Summer = "summer"
	Autumn = "autumn"
)

// Day is a row of dim_date.
type Day struct {
	Date       time.Time
	DateKey    int
	Year       int
	Quarter    int
	Month      int
	MonthName  string
	DayOfMonth int
	DayName    string
	ISOYear    int
	ISOWeek    int
	ISODay     int
	IsWeekend  bool
	Season     string

	BankHolidayAny             bool
	BankHolidayEnglandWales    bool
	BankHolidayScotland        bool
	BankHolidayNorthernIreland bool
}

// Columns is the dim_date schema.
var Columns = []string{
	"date", "date_key", "year", "quarter", "month", "month_name", "day",
	"day_name", "iso_year", "iso_week", "iso_day", "is_weekend", "season",
	"is_bank_holiday_any", "is_bank_holiday_england_wales",
	"is_bank_holiday_scotland", "is_bank_holiday_northern_ireland",
}

// DateKey returns the YYYYMMDD integer key for t.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Season maps a month to its season: Dec-Feb winter, Mar-May spring,
// Jun-Aug summer, Sep-Nov autumn.
func Season(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// ISOWeekStart returns the Monday of the given ISO week.
func ISOWeekStart(isoYear, isoWeek int) time.Time {
	// January 4th is always in ISO week 1.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1 := jan4.AddDate(0, 0, -offset)
	return week1.AddDate(0, 0, (isoWeek-1)*7)
}

// NewDay derives the calendar attributes of a single date. Bank holiday
// flags are left unset.
func NewDay(date time.Time) Day {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	isoYear, isoWeek := date.ISOWeek()
	weekday := date.Weekday()

	return Day{
		Date:       date,
		DateKey:    DateKey(date),
		Year:       date.Year(),
		Quarter:    (int(date.Month())-1)/3 + 1,
		Month:      int(date.Month()),
		MonthName:  date.Month().String(),
		DayOfMonth: date.Day(),
		DayName:    weekday.String(),
		ISOYear:    isoYear,
		ISOWeek:    isoWeek,
		ISODay:     (int(weekday)+6)%7 + 1,
		IsWeekend:  weekday == time.Saturday || weekday == time.Sunday,
		Season:     Season(date.Month()),
	}
}

// Build returns one Day per date from start to end inclusive, flagged with
// the bank holidays in events.
func Build(start, end time.Time, events []holidays.Event) ([]Day, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("calendar end %s is before start %s",
			end.Format(table.DateLayout), start.Format(table.DateLayout))
	}

	flagged := make(map[string]map[int]bool, len(holidays.Divisions))
	for _, ev := range events {
		if flagged[ev.Division] == nil {
			flagged[ev.Division] = make(map[int]bool)
		}
		flagged[ev.Division][DateKey(ev.Date)] = true
	}

	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := NewDay(d)
		day.BankHolidayEnglandWales = flagged[holidays.EnglandAndWales][day.DateKey]
		day.BankHolidayScotland = flagged[holidays.Scotland][day.DateKey]
		day.BankHolidayNorthernIreland = flagged[holidays.NorthernIreland][day.DateKey]
		day.BankHolidayAny = day.BankHolidayEnglandWales ||
			day.BankHolidayScotland || day.BankHolidayNorthernIreland
		days = append(days, day)
	}
	return days, nil
}

// BankHolidayFor returns the flag for division. Unknown divisions use the
// england-and-wales flag.
func (d Day) BankHolidayFor(division string) bool {
	switch division {
	case holidays.Scotland:
		return d.BankHolidayScotland
	case holidays.NorthernIreland:
		return d.BankHolidayNorthernIreland
	default:
		return d.BankHolidayEnglandWales
	}
}

// Index maps date key to day.
func Index(days []Day) map[int]Day {
	idx := make(map[int]Day, len(days))
	for _, d := range days {
		idx[d.DateKey] = d
	}
	return idx
}

// Years returns the days whose calendar year falls in [from, to].
func Years(days []Day, from, to int) []Day {
	var out []Day
	for _, d := range days {
		if d.Year >= from && d.Year <= to {
			out = append(out, d)
		}
	}
	return out
}

// Table renders days as dim_date.
func Table(days []Day) *table.Table {
	t := table.New("dim_date", Columns...)
	for _, d := range days {
		t.Append(
			table.Date(d.Date),
			table.Int(d.DateKey),
			table.Int(d.Year),
			table.Int(d.Quarter),
			table.Int(d.Month),
			d.MonthName,
			table.Int(d.DayOfMonth),
			d.DayName,
			table.Int(d.ISOYear),
			table.Int(d.ISOWeek),
			table.Int(d.ISODay),
			table.Bool(d.IsWeekend),
			d.Season,
			table.Bool(d.BankHolidayAny),
			table.Bool(d.BankHolidayEnglandWales),
			table.Bool(d.BankHolidayScotland),
			table.Bool(d.BankHolidayNorthernIreland),
		)
	}
	return t
}
