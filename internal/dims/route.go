//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dims

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pgEdge/pgedge-tourcast/internal/numeric"
	"github.com/pgEdge/pgedge-tourcast/internal/stablehash"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Route is a row of dim_route.
type Route struct {
	RouteID       int
	Name          string
	Region        string
	GPXPath       string
	DistanceKM    float64
	DurationHours float64
	Difficulty    string
	Lat           float64
	Lon           float64
}

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// RegionBounds holds approximate boxes used to place routes on a map.
var RegionBounds = map[string]Bounds{
	"lake_district": {LatMin: 54.35, LatMax: 54.70, LonMin: -3.35, LonMax: -2.80},
	"wales":         {LatMin: 51.55, LatMax: 53.35, LonMin: -4.40, LonMax: -2.70},
	"scotland":      {LatMin: 56.60, LatMax: 58.60, LonMin: -6.30, LonMax: -3.10},
	"peak_district": {LatMin: 53.20, LatMax: 54.15, LonMin: -2.55, LonMax: -1.55},
}

// textFixes repairs encoding artefacts in seed names. Specific words come
// before the bare replacement character.
var textFixes = strings.NewReplacer(
	"Ar\uFFFDte", "Arete",
	"M\uFFFDr", "Mor",
	"\uFFFD", "'",
)

// RouteColumns is the dim_route schema.
var RouteColumns = []string{
	"route_id", "route_name", "region", "gpx_path", "distance_km",
	"duration_hours", "difficulty", "route_lat", "route_lon",
}

type seedRoute struct {
	RouteID       seedNumber `json:"route_id"`
	Name          seedString `json:"name"`
	Region        seedString `json:"region"`
	GPXPath       seedString `json:"gpx_path"`
	DistanceKM    seedNumber `json:"distance_km"`
	DurationHours seedNumber `json:"duration_hours"`
	Difficulty    seedString `json:"difficulty"`
}

// CleanText fixes encoding artefacts and collapses whitespace.
func CleanText(s string) string {
	return strings.Join(strings.Fields(textFixes.Replace(s)), " ")
}

// Coordinates places a route inside its region's bounding box. Latitude is
// derived from key and longitude from the reversed key.
func Coordinates(region, key string) (float64, float64, error) {
	b, ok := RegionBounds[region]
	if !ok {
		return 0, 0, fmt.Errorf("%w %q: available regions are %s",
			ErrUnknownRegion, region, strings.Join(Regions(), ", "))
	}

	u := stablehash.ToUnit(key)
	v := stablehash.ToUnit(stablehash.Reverse(key))

	lat := b.LatMin + u*(b.LatMax-b.LatMin)
	lon := b.LonMin + v*(b.LonMax-b.LonMin)
	return numeric.Round(lat, 5), numeric.Round(lon, 5), nil
}

// Regions returns the known region names, sorted.
func Regions() []string {
	out := make([]string, 0, len(RegionBounds))
	for r := range RegionBounds {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// LoadRoutes reads and normalises the routes seed file.
func LoadRoutes(path string) ([]Route, error) {
	data, err := readSeed(path)
	if err != nil {
		return nil, err
	}
	return ParseRoutes(data, path)
}

// ParseRoutes normalises raw route seed JSON into dim_route rows sorted by
// route id.
func ParseRoutes(data []byte, source string) ([]Route, error) {
	var seeds []seedRoute
	if err := decodeSeed(data, source, &seeds); err != nil {
		return nil, err
	}

	routes := make([]Route, 0, len(seeds))
	for i, s := range seeds {
		switch {
		case !s.RouteID.set:
			return nil, missingField(source, i, "route_id")
		case !s.Name.set:
			return nil, missingField(source, i, "name")
		case !s.Region.set:
			return nil, missingField(source, i, "region")
		case !s.DistanceKM.set:
			return nil, missingField(source, i, "distance_km")
		case !s.DurationHours.set:
			return nil, missingField(source, i, "duration_hours")
		case !s.Difficulty.set:
			return nil, missingField(source, i, "difficulty")
		}

		r := Route{
			RouteID:       s.RouteID.int(),
			Name:          CleanText(s.Name.value),
			Region:        strings.ToLower(strings.TrimSpace(s.Region.value)),
			GPXPath:       s.GPXPath.value,
			DistanceKM:    s.DistanceKM.value,
			DurationHours: s.DurationHours.value,
			Difficulty:    strings.ToLower(strings.TrimSpace(s.Difficulty.value)),
		}

		key := fmt.Sprintf("%d-%s-%s", r.RouteID, r.Name, r.Region)
		lat, lon, err := Coordinates(r.Region, key)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", r.RouteID, err)
		}
		r.Lat, r.Lon = lat, lon

		routes = append(routes, r)
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].RouteID < routes[j].RouteID
	})
	return routes, nil
}

// RoutesTable renders routes as dim_route.
func RoutesTable(routes []Route) *table.Table {
	t := table.New("dim_route", RouteColumns...)
	for _, r := range routes {
		t.Append(
			table.Int(r.RouteID),
			r.Name,
			r.Region,
			r.GPXPath,
			table.Float(r.DistanceKM),
			table.Float(r.DurationHours),
			r.Difficulty,
			table.Float(r.Lat),
			table.Float(r.Lon),
		)
	}
	return t
}

// RouteIndex maps route id to route.
func RouteIndex(routes []Route) map[int]Route {
	idx := make(map[int]Route, len(routes))
	for _, r := range routes {
		idx[r.RouteID] = r
	}
	return idx
}
