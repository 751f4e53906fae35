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

	"github.com/pgEdge/pgedge-tourcast/internal/calendar"
	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
	"github.com/pgEdge/pgedge-tourcast/internal/stablehash"
)

var seasonBaseTemp = map[string]float64{
	calendar.Winter: 2.5,
	calendar.Spring: 8.0,
	calendar.Summer: 13.0,
	calendar.Autumn: 7.5,
}

var seasonSeverity = map[string]float64{
	calendar.Winter: 1.25,
	calendar.Spring: 1.0,
	calendar.Summer: 0.85,
	calendar.Autumn: 1.1,
}

func lookup(m map[string]float64, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// Synthesize returns reproducible seasonal weather for a route-day that has
// no recorded forecast. The same inputs always give the same values.
func Synthesize(routeID, dateKey int, season string) Daily {
	unit := func(suffix string) float64 {
		return stablehash.ToUnit(fmt.Sprintf("%d-%d-%s", routeID, dateKey, suffix))
	}
	u, v, w := unit("u"), unit("v"), unit("w")

	base := lookup(seasonBaseTemp, season, 8.0)
	sev := lookup(seasonSeverity, season, 1.0)

	tempMean := base + (u-0.5)*6
	tempMin := tempMean - (1.5 + v*3)
	tempMax := tempMean + (1 + w*3)

	snowScale := 0.3
	if season == calendar.Winter {
		snowScale = 1.4
	}
	precip := math.Max(0, (v*8-2)*sev)
	snow := math.Max(0, (u*4-2.5)*snowScale)
	wind := 6 + w*10*sev
	gusts := wind + 6 + u*14*sev

	return Daily{
		RouteID:       routeID,
		DateKey:       dateKey,
		TempMean:      numeric.Round(tempMean, 2),
		TempMin:       numeric.Round(tempMin, 2),
		TempMax:       numeric.Round(tempMax, 2),
		PrecipSum:     numeric.Round(precip, 2),
		SnowfallSum:   numeric.Round(snow, 2),
		WindspeedMean: numeric.Round(wind, 2),
		WindgustsMax:  numeric.Round(gusts, 2),
		SeverityIndex: numeric.Round(Severity(precip, snow, gusts), 2),
	}
}

// Resolve returns recorded weather when present and synthesised weather
// otherwise. The second result reports whether the fallback was used.
func (idx Index) Resolve(routeID, dateKey int, season string) (Daily, bool) {
	if d, ok := idx.Lookup(routeID, dateKey); ok {
		return d, false
	}
	return Synthesize(routeID, dateKey, season), true
}
