package dims

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const routesSeed = `[
  {"route_id": 2, "name": "Snowdon  via Pyg Track", "region": "Wales", "distance_km": 11.5, "duration_hours": 6, "difficulty": "Moderate"},
  {"route_id": 1, "name": "Scafell Pike", "region": "lake_district", "distance_km": 12, "duration_hours": 6, "difficulty": "moderate", "gpx_path": "gpx/scafell.gpx"},
  {"route_id": "3", "name": "Striding Edge Ar\uFFFDte", "region": "lake_district", "distance_km": "14.2", "duration_hours": 7, "difficulty": "hard"}
]`

func TestParseRoutes(t *testing.T) {
	routes, err := ParseRoutes([]byte(routesSeed), "routes.json")
	if err != nil {
		t.Fatalf("ParseRoutes failed: %v", err)
	}

	if len(routes) != 3 {
		t.Fatalf("Expected 3 routes, got %d", len(routes))
	}
	for i, want := range []int{1, 2, 3} {
		if routes[i].RouteID != want {
			t.Errorf("routes[%d].RouteID = %d, want %d", i, routes[i].RouteID, want)
		}
	}

	if routes[1].Name != "Snowdon via Pyg Track" {
		t.Errorf("Expected whitespace collapsed, got %q", routes[1].Name)
	}
	if routes[1].Region != "wales" || routes[1].Difficulty != "moderate" {
		t.Errorf("Expected lower-cased region and difficulty, got %q/%q",
			routes[1].Region, routes[1].Difficulty)
	}
	if routes[2].Name != "Striding Edge Arete" {
		t.Errorf("Expected encoding artefact repaired, got %q", routes[2].Name)
	}
	if routes[2].DistanceKM != 14.2 {
		t.Errorf("Expected numeric string distance parsed, got %v", routes[2].DistanceKM)
	}
	if routes[0].GPXPath != "gpx/scafell.gpx" || routes[1].GPXPath != "" {
		t.Errorf("Unexpected gpx paths %q, %q", routes[0].GPXPath, routes[1].GPXPath)
	}
}

func TestScafellPikeCoordinates(t *testing.T) {
	routes, err := ParseRoutes([]byte(routesSeed), "routes.json")
	if err != nil {
		t.Fatalf("ParseRoutes failed: %v", err)
	}

	r := routes[0]
	b := RegionBounds["lake_district"]
	if r.Lat < b.LatMin || r.Lat > b.LatMax {
		t.Errorf("Latitude %v outside [%v, %v]", r.Lat, b.LatMin, b.LatMax)
	}
	if r.Lon < b.LonMin || r.Lon > b.LonMax {
		t.Errorf("Longitude %v outside [%v, %v]", r.Lon, b.LonMin, b.LonMax)
	}

	lat, lon, err := Coordinates("lake_district", "1-Scafell Pike-lake_district")
	if err != nil {
		t.Fatalf("Coordinates failed: %v", err)
	}
	if lat != r.Lat || lon != r.Lon {
		t.Errorf("Coordinates not stable: (%v, %v) vs (%v, %v)", lat, lon, r.Lat, r.Lon)
	}
}

func TestCoordinatesUnknownRegion(t *testing.T) {
	_, _, err := Coordinates("cornwall", "9-Lands End-cornwall")
	if !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("Expected ErrUnknownRegion, got %v", err)
	}

	seed := `[{"route_id": 9, "name": "Lands End", "region": "cornwall", "distance_km": 5, "duration_hours": 2, "difficulty": "easy"}]`
	if _, err := ParseRoutes([]byte(seed), "routes.json"); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("Expected ParseRoutes to fail with ErrUnknownRegion, got %v", err)
	}
}

func TestParseRoutesErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", ErrEmptySeed},
		{"whitespace", "  \n\t ", ErrEmptySeed},
		{"bom only", "\ufeff", ErrEmptySeed},
		{"not json", "route_id,name", ErrInvalidSeed},
		{"object not list", `{"route_id": 1}`, ErrInvalidSeed},
		{"missing difficulty", `[{"route_id": 1, "name": "A", "region": "wales", "distance_km": 1, "duration_hours": 1}]`, ErrInvalidSeed},
		{"missing route id", `[{"name": "A", "region": "wales", "distance_km": 1, "duration_hours": 1, "difficulty": "easy"}]`, ErrInvalidSeed},
		{"bad number", `[{"route_id": 1, "name": "A", "region": "wales", "distance_km": "far", "duration_hours": 1, "difficulty": "easy"}]`, ErrInvalidSeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoutes([]byte(tt.data), "routes.json")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRoutesWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(routesSeed)...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write seed: %v", err)
	}

	routes, err := LoadRoutes(path)
	if err != nil {
		t.Fatalf("LoadRoutes failed: %v", err)
	}
	if len(routes) != 3 {
		t.Errorf("Expected 3 routes, got %d", len(routes))
	}

	if _, err := LoadRoutes(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing seed file, got nil")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Helvellyn", "Helvellyn"},
		{"  Cadair   Idris ", "Cadair Idris"},
		{"Crib Go\uFFFDch", "Crib Go'ch"},
		{"Ben M\uFFFDr Coigach", "Ben Mor Coigach"},
		{"Sharp Edge Ar\uFFFDte", "Sharp Edge Arete"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseGuides(t *testing.T) {
	seed := `[
	  {"guide_id": 11, "name": " Ffion Jones ", "email": "ffion@example.com"},
	  {"guide_id": 10, "name": "Ewan Ross", "phone": "07700 900123", "bio": "Mountain leader"}
	]`

	guides, err := ParseGuides([]byte(seed), "guides.json")
	if err != nil {
		t.Fatalf("ParseGuides failed: %v", err)
	}
	if len(guides) != 2 {
		t.Fatalf("Expected 2 guides, got %d", len(guides))
	}
	if guides[0].GuideID != 10 || guides[1].GuideID != 11 {
		t.Errorf("Expected guides sorted by id, got %d, %d", guides[0].GuideID, guides[1].GuideID)
	}
	if guides[1].Name != "Ffion Jones" {
		t.Errorf("Expected trimmed name, got %q", guides[1].Name)
	}
	if guides[1].Phone != "" || guides[0].Email != "" {
		t.Error("Expected missing optional fields to default to empty")
	}

	ids := GuideIDs(guides)
	if len(ids) != 2 || ids[0] != 10 {
		t.Errorf("Unexpected guide ids %v", ids)
	}

	if _, err := ParseGuides([]byte(`[{"name": "Nobody"}]`), "guides.json"); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("Expected ErrInvalidSeed for missing guide_id, got %v", err)
	}
}

func TestDimensionTables(t *testing.T) {
	routes, err := ParseRoutes([]byte(routesSeed), "routes.json")
	if err != nil {
		t.Fatalf("ParseRoutes failed: %v", err)
	}

	rt := RoutesTable(routes)
	if rt.Name != "dim_route" || rt.Len() != 3 {
		t.Errorf("Unexpected route table %s with %d rows", rt.Name, rt.Len())
	}
	if missing := rt.Missing(RouteColumns...); len(missing) != 0 {
		t.Errorf("Route table missing columns %v", missing)
	}
	if rt.Value(0, "route_id") != "1" || rt.Value(0, "distance_km") != "12" {
		t.Errorf("Unexpected first row %v", rt.Rows[0])
	}

	gt := GuidesTable([]Guide{{GuideID: 1, Name: "Ann"}})
	if gt.Name != "dim_guide" || gt.Value(0, "guide_name") != "Ann" {
		t.Errorf("Unexpected guide table %v", gt.Rows)
	}

	idx := RouteIndex(routes)
	if idx[2].Region != "wales" {
		t.Errorf("Unexpected route index entry %+v", idx[2])
	}
}
