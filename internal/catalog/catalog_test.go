package catalog

import (
	"testing"

	"github.com/pgEdge/pgedge-tourcast/internal/config"
)

func TestNames(t *testing.T) {
	n := New(config.DefaultConfig().Horizon)

	tests := []struct {
		got  string
		want string
	}{
		{n.Bookings(), "fact_bookings_2024_2025"},
		{n.RouteDay(), "fact_route_day_2024_2025"},
		{n.RouteWeek(), "fact_route_week_2024_2025"},
		{n.Forecast(), "fact_forecast_2026"},
		{n.ForecastV2(), "fact_forecast_2026_v2"},
		{n.ForecastWeek(), "fact_forecast_week_2026"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestWarehouseTables(t *testing.T) {
	n := New(config.DefaultConfig().Horizon)
	loads := n.WarehouseTables()

	byTable := map[string]Load{}
	for _, l := range loads {
		byTable[l.Table] = l
	}

	if l := byTable["fact_bookings"]; l.Stem != "fact_bookings_2024_2025" || len(l.Indexes) != 3 {
		t.Errorf("Unexpected fact_bookings load %+v", l)
	}
	if l := byTable[DimRoute]; l.Optional {
		t.Error("Core tables must not be optional")
	}
	if l := byTable["fact_forecast_week_2026"]; !l.Optional {
		t.Error("Forecast tables should be optional")
	}
	iso := byTable["fact_route_week"].Indexes[1]
	if iso.Name != "idx_fact_route_week_iso" || len(iso.Columns) != 2 {
		t.Errorf("Unexpected iso index %+v", iso)
	}

	names := map[string]bool{}
	for _, l := range loads {
		for _, i := range l.Indexes {
			if names[i.Name] {
				t.Errorf("Duplicate index name %s", i.Name)
			}
			names[i.Name] = true
		}
	}
}

func TestExportTables(t *testing.T) {
	got := New(config.DefaultConfig().Horizon).ExportTables()
	if len(got) != 6 || got[5] != "fact_forecast_week_2026" {
		t.Errorf("Unexpected export tables %v", got)
	}
}
