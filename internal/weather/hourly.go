//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package weather flattens hourly forecast pulls, rolls them up to daily
// route weather and synthesises deterministic seasonal weather where no
// forecast exists.
package weather

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Hourly is a single flattened forecast observation. Missing values are nil.
type Hourly struct {
	RouteID       int
	Time          time.Time
	Temperature   *float64
	Precipitation *float64
	Snowfall      *float64
	WindSpeed     *float64
	WindGusts     *float64
	WeatherCode   *float64
	Model         string
}

// HourlyColumns is the weather_hourly_ukmo schema.
var HourlyColumns = []string{
	"route_id", "datetime", "temperature_2m", "precipitation", "snowfall",
	"wind_speed_10m", "wind_gusts_10m", "weather_code", "model",
}

// legacyNames maps current series names to the names used by older API
// versions.
var legacyNames = map[string]string{
	"wind_speed_10m": "windspeed_10m",
	"wind_gusts_10m": "windgusts_10m",
	"weather_code":   "weathercode",
}

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

type forecastDoc struct {
	Hourly map[string]json.RawMessage `json:"hourly"`
}

// ParseForecast flattens one raw forecast document for a route. Rows with
// unparsable timestamps are dropped; the result is sorted by time.
func ParseForecast(routeID int, model string, data []byte) ([]Hourly, error) {
	var doc forecastDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid forecast for route %d: %w", routeID, err)
	}

	var times []string
	if raw, ok := doc.Hourly["time"]; ok {
		if err := json.Unmarshal(raw, &times); err != nil {
			return nil, fmt.Errorf("invalid forecast times for route %d: %w", routeID, err)
		}
	}

	series := func(name string) ([]*float64, error) {
		raw, ok := doc.Hourly[name]
		if !ok {
			if legacy, has := legacyNames[name]; has {
				raw, ok = doc.Hourly[legacy]
			}
		}
		if !ok {
			return nil, nil
		}
		var values []*float64
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("invalid %s series for route %d: %w", name, routeID, err)
		}
		return values, nil
	}

	cols := make(map[string][]*float64, 6)
	for _, name := range []string{
		"temperature_2m", "precipitation", "snowfall",
		"wind_speed_10m", "wind_gusts_10m", "weather_code",
	} {
		values, err := series(name)
		if err != nil {
			return nil, err
		}
		cols[name] = values
	}

	at := func(name string, i int) *float64 {
		values := cols[name]
		if i < len(values) {
			return values[i]
		}
		return nil
	}

	rows := make([]Hourly, 0, len(times))
	for i, ts := range times {
		parsed, ok := parseTime(ts)
		if !ok {
			continue
		}
		rows = append(rows, Hourly{
			RouteID:       routeID,
			Time:          parsed,
			Temperature:   at("temperature_2m", i),
			Precipitation: at("precipitation", i),
			Snowfall:      at("snowfall", i),
			WindSpeed:     at("wind_speed_10m", i),
			WindGusts:     at("wind_gusts_10m", i),
			WeatherCode:   at("weather_code", i),
			Model:         "open-meteo-" + model,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time.Before(rows[j].Time)
	})
	return rows, nil
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortHourly orders rows by route then time.
func SortHourly(rows []Hourly) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].RouteID != rows[j].RouteID {
			return rows[i].RouteID < rows[j].RouteID
		}
		return rows[i].Time.Before(rows[j].Time)
	})
}

// HourlyTable renders rows as weather_hourly_ukmo.
func HourlyTable(rows []Hourly) *table.Table {
	t := table.New("weather_hourly_ukmo", HourlyColumns...)
	for _, r := range rows {
		t.Append(
			table.Int(r.RouteID),
			r.Time.Format("2006-01-02 15:04:05"),
			table.NullFloat(r.Temperature),
			table.NullFloat(r.Precipitation),
			table.NullFloat(r.Snowfall),
			table.NullFloat(r.WindSpeed),
			table.NullFloat(r.WindGusts),
			table.NullFloat(r.WeatherCode),
			r.Model,
		)
	}
	return t
}
