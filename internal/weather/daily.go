//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package weather

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Daily is the weather for one route on one day.
type Daily struct {
	RouteID         int
	Date            time.Time
	DateKey         int
	TempMean        float64
	TempMin         float64
	TempMax         float64
	PrecipSum       float64
	SnowfallSum     float64
	WindspeedMean   float64
	WindgustsMax    float64
	WeatherCodeMode *int
	SeverityIndex   float64
}

// Key identifies a route-day.
type Key struct {
	RouteID int
	DateKey int
}

// Index is daily weather keyed by route-day.
type Index map[Key]Daily

// DailyColumns is the fact_weather_daily_ukmo schema.
var DailyColumns = []string{
	"route_id", "date", "date_key", "temp_mean", "temp_min", "temp_max",
	"precip_sum", "snowfall_sum", "windspeed_mean", "windgusts_max",
	"weather_code_mode", "severity_index",
}

// Severity combines precipitation, snowfall and gusts into a 0-120 index.
func Severity(precip, snow, gusts float64) float64 {
	return numeric.Clip(precip*4+snow*8+gusts*1.2, 0, 120)
}

type dayAcc struct {
	temps   []float64
	precip  float64
	snow    float64
	wind    []float64
	gusts   float64
	hasGust bool
	codes   map[int]int
}

// BuildDaily rolls hourly rows up to one row per route-day. Days without any
// temperature reading are dropped. The result is sorted by route and date.
func BuildDaily(rows []Hourly) []Daily {
	accs := make(map[Key]*dayAcc)
	dates := make(map[Key]time.Time)

	for _, r := range rows {
		date := time.Date(r.Time.Year(), r.Time.Month(), r.Time.Day(), 0, 0, 0, 0, time.UTC)
		k := Key{RouteID: r.RouteID, DateKey: calendar.DateKey(date)}
		acc, ok := accs[k]
		if !ok {
			acc = &dayAcc{codes: make(map[int]int)}
			accs[k] = acc
			dates[k] = date
		}

		if v, ok := value(r.Temperature); ok {
			acc.temps = append(acc.temps, v)
		}
		if v, ok := value(r.Precipitation); ok {
			acc.precip += v
		}
		if v, ok := value(r.Snowfall); ok {
			acc.snow += v
		}
		if v, ok := value(r.WindSpeed); ok {
			acc.wind = append(acc.wind, v)
		}
		if v, ok := value(r.WindGusts); ok {
			if !acc.hasGust || v > acc.gusts {
				acc.gusts = v
			}
			acc.hasGust = true
		}
		if v, ok := value(r.WeatherCode); ok {
			acc.codes[int(v)]++
		}
	}

	out := make([]Daily, 0, len(accs))
	for k, acc := range accs {
		if len(acc.temps) == 0 {
			continue
		}
		lo, hi, sum := acc.temps[0], acc.temps[0], 0.0
		for _, v := range acc.temps {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			sum += v
		}

		d := Daily{
			RouteID:         k.RouteID,
			Date:            dates[k],
			DateKey:         k.DateKey,
			TempMean:        numeric.Round(sum/float64(len(acc.temps)), 2),
			TempMin:         numeric.Round(lo, 2),
			TempMax:         numeric.Round(hi, 2),
			PrecipSum:       numeric.Round(acc.precip, 2),
			SnowfallSum:     numeric.Round(acc.snow, 2),
			WindspeedMean:   numeric.Round(mean(acc.wind), 2),
			WindgustsMax:    numeric.Round(acc.gusts, 2),
			WeatherCodeMode: mode(acc.codes),
		}
		d.SeverityIndex = numeric.Round(Severity(d.PrecipSum, d.SnowfallSum, d.WindgustsMax), 2)
		out = append(out, d)
	}

	SortDaily(out)
	return out
}

func value(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// mode returns the most frequent code, preferring the smallest on ties.
func mode(counts map[int]int) *int {
	if len(counts) == 0 {
		return nil
	}
	best, bestCount := 0, -1
	for code, n := range counts {
		if n > bestCount || (n == bestCount && code < best) {
			best, bestCount = code, n
		}
	}
	return &best
}

// SortDaily orders rows by route then date.
func SortDaily(rows []Daily) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RouteID != rows[j].RouteID {
			return rows[i].RouteID < rows[j].RouteID
		}
		return rows[i].DateKey < rows[j].DateKey
	})
}

// NewIndex keys daily rows by route-day.
func NewIndex(rows []Daily) Index {
	idx := make(Index, len(rows))
	for _, r := range rows {
		idx[Key{RouteID: r.RouteID, DateKey: r.DateKey}] = r
	}
	return idx
}

// Lookup returns recorded weather for a route-day.
func (idx Index) Lookup(routeID, dateKey int) (Daily, bool) {
	d, ok := idx[Key{RouteID: routeID, DateKey: dateKey}]
	return d, ok
}

// DailyTable renders rows as fact_weather_daily_ukmo.
func DailyTable(rows []Daily) *table.Table {
	t := table.New("fact_weather_daily_ukmo", DailyColumns...)
	for _, r := range rows {
		code := ""
		if r.WeatherCodeMode != nil {
			code = table.Int(*r.WeatherCodeMode)
		}
		t.Append(
			table.Int(r.RouteID),
			table.Date(r.Date),
			table.Int(r.DateKey),
			table.Float(r.TempMean),
			table.Float(r.TempMin),
			table.Float(r.TempMax),
			table.Float(r.PrecipSum),
			table.Float(r.SnowfallSum),
			table.Float(r.WindspeedMean),
			table.Float(r.WindgustsMax),
			code,
			table.Float(r.SeverityIndex),
		)
	}
	return t
}

// DailyFromTable reads fact_weather_daily_ukmo back. Rows without a
// temperature are skipped.
func DailyFromTable(t *table.Table) ([]Daily, error) {
	if missing := t.Missing("route_id", "date_key", "temp_mean"); len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing columns %v", t.Name, missing)
	}

	num := func(row int, col string) float64 {
		if !t.Has(col) {
			return 0
		}
		v, err := table.ParseFloat(t.Value(row, col))
		if err != nil {
			return 0
		}
		return v
	}

	out := make([]Daily, 0, t.Len())
	for i := range t.Rows {
		routeID, err := table.ParseInt(t.Value(i, "route_id"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", t.Name, i+1, err)
		}
		dateKey, err := table.ParseInt(t.Value(i, "date_key"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", t.Name, i+1, err)
		}
		if _, err := table.ParseFloat(t.Value(i, "temp_mean")); err != nil {
			continue
		}

		d := Daily{
			RouteID:       routeID,
			DateKey:       dateKey,
			TempMean:      num(i, "temp_mean"),
			TempMin:       num(i, "temp_min"),
			TempMax:       num(i, "temp_max"),
			PrecipSum:     num(i, "precip_sum"),
			SnowfallSum:   num(i, "snowfall_sum"),
			WindspeedMean: num(i, "windspeed_mean"),
			WindgustsMax:  num(i, "windgusts_max"),
			SeverityIndex: num(i, "severity_index"),
		}
		if t.Has("date") {
			d.Date, _ = table.ParseDate(t.Value(i, "date"))
		}
		if t.Has("weather_code_mode") {
			if code, err := table.ParseInt(t.Value(i, "weather_code_mode")); err == nil {
				d.WeatherCodeMode = &code
			}
		}
		out = append(out, d)
	}
	return out, nil
}
