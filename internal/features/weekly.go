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
	"sort"

	"github.com/pgEdge/pgedge-tourcast/internal/aggregate"
	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/dims"
)

// WeeklyColumns are the numeric weekly features in frame order.
var WeeklyColumns = []string{
	"iso_year", "iso_week", "route_id", "distance_km", "duration_hours",
	"bank_holiday_days_any", "weekend_days",
}

// WeeklyCategoricals are one-hot encoded in weekly frames.
var WeeklyCategoricals = []string{"region", "difficulty"}

func weeklyRecord(meta RowMeta) record {
	return record{
		numeric: []float64{
			float64(meta.ISOYear),
			float64(meta.ISOWeek),
			float64(meta.RouteID),
			meta.DistanceKM,
			meta.DurationHours,
			float64(meta.BankHolidayDaysAny),
			float64(meta.WeekendDays),
		},
		cats: []string{meta.Region, meta.Difficulty},
		meta: meta,
	}
}

// WeeklyTraining builds the training frame from route-week facts.
func WeeklyTraining(rows []aggregate.RouteWeek) *Frame {
	recs := make([]record, 0, len(rows))
	for _, w := range rows {
		rec := weeklyRecord(RowMeta{
			RouteID:            w.RouteID,
			Region:             w.Region,
			Difficulty:         w.Difficulty,
			DistanceKM:         w.DistanceKM,
			DurationHours:      w.DurationHours,
			ISOYear:            w.ISOYear,
			ISOWeek:            w.ISOWeek,
			WeekStart:          w.WeekStart,
			WeekendDays:        w.WeekendDays,
			BankHolidayDaysAny: w.BankHolidayDaysAny,
		})
		rec.target = float64(w.BookingsCount)
		recs = append(recs, rec)
	}
	return encode(WeeklyColumns, WeeklyCategoricals, recs, true)
}

type isoWeek struct {
	year, week int
}

// WeeklyScoring builds the scaffold of every route in every ISO week that
// has a day in the given calendar year. Weekend and holiday counts only
// include days of that year.
func WeeklyScoring(days []calendar.Day, routes []dims.Route, year int) *Frame {
	type counts struct {
		weekends, holidays int
	}
	weeks := map[isoWeek]*counts{}
	for _, d := range calendar.Years(days, year, year) {
		k := isoWeek{d.ISOYear, d.ISOWeek}
		c, ok := weeks[k]
		if !ok {
			c = &counts{}
			weeks[k] = c
		}
		if d.IsWeekend {
			c.weekends++
		}
		if d.BankHolidayAny {
			c.holidays++
		}
	}

	keys := make([]isoWeek, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].week < keys[j].week
	})

	recs := make([]record, 0, len(keys)*len(routes))
	for _, k := range keys {
		c := weeks[k]
		for _, r := range routes {
			recs = append(recs, weeklyRecord(RowMeta{
				RouteID:            r.RouteID,
				Region:             r.Region,
				Difficulty:         r.Difficulty,
				DistanceKM:         r.DistanceKM,
				DurationHours:      r.DurationHours,
				ISOYear:            k.year,
				ISOWeek:            k.week,
				WeekStart:          calendar.ISOWeekStart(k.year, k.week),
				WeekendDays:        c.weekends,
				BankHolidayDaysAny: c.holidays,
			}))
		}
	}
	return encode(WeeklyColumns, WeeklyCategoricals, recs, false)
}
