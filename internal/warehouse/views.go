//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"
)

// WeeklyComparisonView compares actual weekly bookings with the weekly
// forecast for the same ISO week and route.
const WeeklyComparisonView = "v_weekly_actual_vs_forecast"

// weeklyViewSQL joins fact_route_week to the weekly forecast.
func (l *Loader) weeklyViewSQL(forecastTable string) string {
	return fmt.Sprintf(`
CREATE VIEW %s AS
SELECT
    a.iso_year AS actual_year,
    a.iso_week,
    a.route_id,
    a.region,
    a.bookings_count AS actual_bookings,
    f.predicted_bookings_count AS forecast_bookings
FROM %s a
LEFT JOIN %s f
  ON a.iso_week = f.iso_week AND a.route_id = f.route_id`,
		l.ident(WeeklyComparisonView), l.ident("fact_route_week"), l.ident(forecastTable))
}

// createViews adds the comparison view when both sides were loaded.
func (l *Loader) createViews(ctx context.Context, loaded map[string]int64) ([]string, error) {
	if _, ok := loaded["fact_route_week"]; !ok {
		return nil, nil
	}
	var forecast string
	for name := range loaded {
		if strings.HasPrefix(name, "fact_forecast_week_") {
			forecast = name
		}
	}
	if forecast == "" {
		l.log.Warn().Str("view", WeeklyComparisonView).Msg("No weekly forecast loaded, skipping view")
		return nil, nil
	}

	if _, err := l.pool.Exec(ctx, "DROP VIEW IF EXISTS "+l.ident(WeeklyComparisonView)); err != nil {
		return nil, fmt.Errorf("failed to drop %s: %w", WeeklyComparisonView, err)
	}
	if _, err := l.pool.Exec(ctx, l.weeklyViewSQL(forecast)); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", WeeklyComparisonView, err)
	}
	l.log.Info().Str("view", WeeklyComparisonView).Str("forecast", forecast).Msg("Created view")
	return []string{WeeklyComparisonView}, nil
}
