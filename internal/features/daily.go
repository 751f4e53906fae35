//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package features

import (
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/aggregate"
	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
	"github.com/pgEdge/pgedge-tourcast/internal/holidays"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
	"github.com/pgEdge/pgedge-tourcast/internal/weather"
)

// DailyColumns are the numeric daily features in frame order.
var DailyColumns = []string{
	"date_key", "year", "quarter", "month", "iso_week", "is_weekend",
	"route_id", "distance_km", "duration_hours",
	"is_bank_holiday_england_wales", "is_bank_holiday_scotland",
	"is_bank_holiday_northern_ireland", "is_bank_holiday_any",
	"is_bank_holiday_division", "is_closed_day",
}

// WeatherColumns are appended to DailyColumns when weather is enabled.
var WeatherColumns = []string{
	"temp_mean", "temp_min", "temp_max", "precip_sum", "snowfall_sum",
	"windspeed_mean", "windgusts_max", "severity_index",
}

// DailyCategoricals are one-hot encoded in daily frames.
var DailyCategoricals = []string{"region", "difficulty", "season", "day_name"}

// Context is the shared enrichment input for daily frames.
type Context struct {
	Days      []calendar.Day
	Routes    []dims.Route
	Divisions holidays.DivisionMap
	Closed    holidays.ClosedDays

	// WithWeather adds weather features, from Weather where recorded and
	// synthesised otherwise.
	WithWeather bool
	Weather     weather.Index

	dayIdx   map[int]calendar.Day
	routeIdx map[int]dims.Route
}

func (c *Context) init() {
	if c.dayIdx == nil {
		c.dayIdx = calendar.Index(c.Days)
	}
	if c.routeIdx == nil {
		c.routeIdx = dims.RouteIndex(c.Routes)
	}
	if c.Divisions == nil {
		c.Divisions = holidays.DefaultDivisions()
	}
}

// day resolves calendar attributes for a date key.
func (c *Context) day(dateKey int, fallback calendar.Day, hasFallback bool) calendar.Day {
	if d, ok := c.dayIdx[dateKey]; ok {
		return d
	}
	if hasFallback {
		return fallback
	}
	date, err := time.Parse("20060102", table.Int(dateKey))
	if err != nil {
		return calendar.Day{DateKey: dateKey}
	}
	return calendar.NewDay(date)
}

func (c *Context) columns() []string {
	cols := append([]string(nil), DailyColumns...)
	if c.WithWeather {
		cols = append(cols, WeatherColumns...)
	}
	return cols
}

// dailyRecord enriches one route-day.
func (c *Context) dailyRecord(route dims.Route, region string, day calendar.Day) record {
	division := c.Divisions.Resolve(region)
	bhDivision := day.BankHolidayFor(division)
	closed := c.Closed.IsClosed(division, day.Date)

	num := []float64{
		float64(day.DateKey),
		float64(day.Year),
		float64(day.Quarter),
		float64(day.Month),
		float64(day.ISOWeek),
		flag(day.IsWeekend),
		float64(route.RouteID),
		route.DistanceKM,
		route.DurationHours,
		flag(day.BankHolidayEnglandWales),
		flag(day.BankHolidayScotland),
		flag(day.BankHolidayNorthernIreland),
		flag(day.BankHolidayAny),
		flag(bhDivision),
		flag(closed),
	}

	meta := RowMeta{
		RouteID:             route.RouteID,
		Region:              region,
		Difficulty:          route.Difficulty,
		DistanceKM:          route.DistanceKM,
		DurationHours:       route.DurationHours,
		Date:                day.Date,
		DateKey:             day.DateKey,
		Season:              day.Season,
		DayName:             day.DayName,
		BankHolidayDivision: bhDivision,
		Closed:              closed,
		ISOYear:             day.ISOYear,
		ISOWeek:             day.ISOWeek,
	}

	if c.WithWeather {
		w, synthesized := c.Weather.Resolve(route.RouteID, day.DateKey, day.Season)
		num = append(num,
			w.TempMean, w.TempMin, w.TempMax, w.PrecipSum, w.SnowfallSum,
			w.WindspeedMean, w.WindgustsMax, w.SeverityIndex,
		)
		meta.WeatherSynthesized = synthesized
	}

	return record{
		numeric: num,
		cats:    []string{region, route.Difficulty, day.Season, day.DayName},
		meta:    meta,
	}
}

func logFallback(frame string, recs []record) {
	n := 0
	for _, r := range recs {
		if r.meta.WeatherSynthesized {
			n++
		}
	}
	if n > 0 {
		log := logging.Component("features")
		log.Warn().
			Str("frame", frame).
			Int("rows", n).
			Int("total", len(recs)).
			Msg("Using synthesised weather")
	}
}

// DailyTraining builds the training frame from route-day facts whose date
// falls in the history years [fromYear, toYear]. Rows outside that range,
// or whose date cannot be resolved, are left out.
func DailyTraining(c Context, rows []aggregate.RouteDay, fromYear, toYear int) *Frame {
	c.init()

	recs := make([]record, 0, len(rows))
	for _, rd := range rows {
		route := rd.Route
		if !rd.HasRoute {
			route = c.routeIdx[rd.RouteID]
			route.RouteID = rd.RouteID
		}
		region := rd.Region
		if region == "" {
			region = route.Region
		}

		day := c.day(rd.DateKey, rd.Day, rd.HasDay)
		if day.Year < fromYear || day.Year > toYear {
			continue
		}

		rec := c.dailyRecord(route, region, day)
		rec.target = float64(rd.BookingsCount)
		recs = append(recs, rec)
	}

	if c.WithWeather {
		logFallback("daily_training", recs)
	}
	return encode(c.columns(), DailyCategoricals, recs, true)
}

// DailyScoring builds the scaffold of every route on every calendar day of
// year, ordered by date then route.
func DailyScoring(c Context, year int) *Frame {
	c.init()

	days := calendar.Years(c.Days, year, year)
	recs := make([]record, 0, len(days)*len(c.Routes))
	for _, day := range days {
		for _, route := range c.Routes {
			recs = append(recs, c.dailyRecord(route, route.Region, day))
		}
	}

	if c.WithWeather {
		logFallback("daily_scoring", recs)
	}
	return encode(c.columns(), DailyCategoricals, recs, false)
}
