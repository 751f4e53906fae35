//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package catalog names the persisted tables and says which of them the
// warehouse loader and the spreadsheet exporter consume.
package catalog

import (
	"fmt"

	"github.com/pgEdge/pgedge-tourcast/internal/config"
)

// Dimension and weather tables with fixed names.
const (
	DimRoute              = "dim_route"
	DimGuide              = "dim_guide"
	DimDate               = "dim_date"
	DimBankHoliday        = "dim_bank_holiday"
	BridgeBankHolidayDate = "bridge_bank_holiday_date"
	DimRegionDivision     = "dim_region_division"
	WeatherHourly         = "weather_hourly_ukmo"
	WeatherDaily          = "fact_weather_daily_ukmo"
)

// Names derives the year-stamped table names from a horizon.
type Names struct {
	HistoryFrom  int
	HistoryTo    int
	ForecastYear int
}

// New returns the names for h.
func New(h config.HorizonConfig) Names {
	return Names{
		HistoryFrom:  h.HistoryStartYear,
		HistoryTo:    h.HistoryEndYear,
		ForecastYear: h.ForecastYear,
	}
}

func (n Names) history(stem string) string {
	return fmt.Sprintf("%s_%d_%d", stem, n.HistoryFrom, n.HistoryTo)
}

// Bookings is the booking fact file, e.g. fact_bookings_2024_2025.
func (n Names) Bookings() string { return n.history("fact_bookings") }

// RouteDay is the route-day fact file.
func (n Names) RouteDay() string { return n.history("fact_route_day") }

// RouteWeek is the route-week fact file.
func (n Names) RouteWeek() string { return n.history("fact_route_week") }

// Forecast is the daily baseline forecast, e.g. fact_forecast_2026.
func (n Names) Forecast() string { return fmt.Sprintf("fact_forecast_%d", n.ForecastYear) }

// ForecastV2 is the weather-aware daily forecast.
func (n Names) ForecastV2() string { return n.Forecast() + "_v2" }

// ForecastWeek is the weekly forecast, e.g. fact_forecast_week_2026.
func (n Names) ForecastWeek() string { return fmt.Sprintf("fact_forecast_week_%d", n.ForecastYear) }

// Index is a warehouse index over one or more columns.
type Index struct {
	Name    string
	Columns []string
}

// Load maps a processed file to a warehouse table.
type Load struct {
	Stem  string
	Table string

	// Optional tables are skipped with a notice when their file is
	// missing; any other missing file fails the load.
	Optional bool

	Indexes []Index
}

func idx(name string, columns ...string) Index {
	return Index{Name: name, Columns: columns}
}

// WarehouseTables lists the tables loaded into the warehouse, in load
// order.
func (n Names) WarehouseTables() []Load {
	return []Load{
		{Stem: DimRoute, Table: DimRoute, Indexes: []Index{idx("idx_dim_route_route_id", "route_id")}},
		{Stem: DimGuide, Table: DimGuide, Indexes: []Index{idx("idx_dim_guide_guide_id", "guide_id")}},
		{Stem: DimDate, Table: DimDate, Indexes: []Index{idx("idx_dim_date_date_key", "date_key")}},
		{Stem: DimBankHoliday, Table: DimBankHoliday, Indexes: []Index{idx("idx_dim_bank_holiday_id", "bank_holiday_id")}},
		{Stem: BridgeBankHolidayDate, Table: BridgeBankHolidayDate, Indexes: []Index{
			idx("idx_bridge_hol_date", "date"),
			idx("idx_bridge_hol_id", "bank_holiday_id"),
		}},
		{Stem: DimRegionDivision, Table: DimRegionDivision},
		{Stem: n.Bookings(), Table: "fact_bookings", Indexes: []Index{
			idx("idx_fact_bookings_date_key", "date_key"),
			idx("idx_fact_bookings_route_id", "route_id"),
			idx("idx_fact_bookings_guide_id", "guide_id"),
		}},
		{Stem: n.RouteDay(), Table: "fact_route_day", Indexes: []Index{
			idx("idx_fact_route_day_date_key", "date_key"),
			idx("idx_fact_route_day_route_id", "route_id"),
		}},
		{Stem: n.RouteWeek(), Table: "fact_route_week", Indexes: []Index{
			idx("idx_fact_route_week_route_id", "route_id"),
			idx("idx_fact_route_week_iso", "iso_year", "iso_week"),
		}},
		{Stem: n.ForecastWeek(), Table: n.ForecastWeek(), Optional: true, Indexes: []Index{
			idx("idx_fcst_week_route_id", "route_id"),
			idx("idx_fcst_week_iso", "iso_year", "iso_week"),
		}},
		{Stem: n.Forecast(), Table: n.Forecast(), Optional: true},
		{Stem: n.ForecastV2(), Table: n.ForecastV2(), Optional: true},
	}
}

// ExportTables lists the files written to the spreadsheet export.
func (n Names) ExportTables() []string {
	return []string{
		DimDate,
		DimRoute,
		DimGuide,
		n.Bookings(),
		n.RouteWeek(),
		n.ForecastWeek(),
	}
}
