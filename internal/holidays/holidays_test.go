package holidays

import (
	"testing"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

const feed = `{
  "england-and-wales": {
    "division": "england-and-wales",
    "events": [
      {"title": "Christmas Day", "date": "2024-12-25", "notes": "", "bunting": true},
      {"title": "Boxing Day", "date": "2024-12-26", "notes": "", "bunting": true},
      {"title": "Early May bank holiday", "date": "2024-05-06", "notes": "", "bunting": true},
      {"title": "Good Friday", "date": "2024-03-29", "notes": "", "bunting": false},
      {"title": "Broken", "date": "not-a-date", "notes": "", "bunting": false}
    ]
  },
  "scotland": {
    "division": "scotland",
    "events": [
      {"title": "Christmas Day", "date": "2024-12-25", "notes": "", "bunting": true},
      {"title": "2nd January", "date": "2024-01-02", "notes": "", "bunting": true},
      {"title": "St Andrew’s Day", "date": "2024-12-02", "notes": "Substitute day", "bunting": true},
      {"title": "New Year’s Day", "date": "2024-01-01", "notes": "", "bunting": true}
    ]
  },
  "northern-ireland": {
    "division": "northern-ireland",
    "events": []
  }
}`

func mustParse(t *testing.T) []Event {
	t.Helper()
	events, err := Parse([]byte(feed))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return events
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestParse(t *testing.T) {
	events := mustParse(t)

	if len(events) != 8 {
		t.Fatalf("Expected 8 events (invalid date dropped), got %d", len(events))
	}

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if cur.Date.Before(prev.Date) {
			t.Errorf("Events not sorted by date at %d", i)
		}
		if cur.Date.Equal(prev.Date) && cur.Division < prev.Division {
			t.Errorf("Events not sorted by division at %d", i)
		}
	}

	first := events[0]
	if first.Division != Scotland || first.Title != "New Year’s Day" {
		t.Errorf("Unexpected first event %+v", first)
	}
	if first.ID != EventID(Scotland, date("2024-01-01"), "New Year’s Day") {
		t.Error("Event id does not match EventID")
	}
	if first.ID < 0 || first.ID >= idModulus {
		t.Errorf("Event id %d outside [0, 1e12)", first.ID)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("[1, 2]")); err == nil {
		t.Error("Expected error for non-object feed, got nil")
	}
}

func TestParseDropsDuplicates(t *testing.T) {
	dup := `{"scotland": {"events": [
	  {"title": "Christmas Day", "date": "2025-12-25", "bunting": true},
	  {"title": "Christmas Day", "date": "2025-12-25", "bunting": true}
	]}}`
	events, err := Parse([]byte(dup))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Expected duplicates removed, got %d events", len(events))
	}
}

func TestEventIDStable(t *testing.T) {
	a := EventID(EnglandAndWales, date("2024-12-25"), "Christmas Day")
	b := EventID(EnglandAndWales, date("2024-12-25"), "Christmas Day")
	c := EventID(Scotland, date("2024-12-25"), "Christmas Day")
	if a != b {
		t.Error("EventID not deterministic")
	}
	if a == c {
		t.Error("EventID should differ across divisions")
	}
}

func TestResolveClosedDays(t *testing.T) {
	closed := ResolveClosedDays(mustParse(t))

	tests := []struct {
		division string
		date     string
		want     bool
	}{
		{EnglandAndWales, "2024-12-25", true},
		{EnglandAndWales, "2024-12-26", true},
		{EnglandAndWales, "2024-03-29", true},
		{EnglandAndWales, "2024-05-06", false},
		{Scotland, "2024-12-25", true},
		{Scotland, "2024-01-01", true},
		{Scotland, "2024-12-26", false},
		{Scotland, "2024-01-02", false},
		{Scotland, "2024-12-02", false},
		{NorthernIreland, "2024-12-25", false},
		{"unknown", "2024-12-25", false},
	}

	for _, tt := range tests {
		t.Run(tt.division+"/"+tt.date, func(t *testing.T) {
			if got := closed.IsClosed(tt.division, date(tt.date)); got != tt.want {
				t.Errorf("IsClosed = %v, want %v", got, tt.want)
			}
		})
	}

	if closed.Count(EnglandAndWales) != 3 {
		t.Errorf("Expected 3 closed days in england-and-wales, got %d", closed.Count(EnglandAndWales))
	}
}

func TestResolveClosedDaysEmpty(t *testing.T) {
	closed := ResolveClosedDays(nil)
	if len(closed) != 0 {
		t.Errorf("Expected empty closed set, got %v", closed)
	}
	if closed.IsClosed(EnglandAndWales, date("2024-12-25")) {
		t.Error("Empty closed set should never report closed")
	}
}

func TestIsClosing(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Christmas Day", true},
		{"christmas day", true},
		{"New Year's Day (substitute day)", true},
		{"New Year’s Day", true},
		{"Easter Monday", true},
		{"Summer bank holiday", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := IsClosing(tt.title); got != tt.want {
				t.Errorf("IsClosing(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestDivisionMap(t *testing.T) {
	m := DefaultDivisions()

	tests := []struct {
		region string
		want   string
	}{
		{"lake_district", EnglandAndWales},
		{"scotland", Scotland},
		{"wales", EnglandAndWales},
		{"antrim_coast", DefaultDivision},
		{"", DefaultDivision},
	}
	for _, tt := range tests {
		if got := m.Resolve(tt.region); got != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.region, got, tt.want)
		}
	}

	tbl := m.Table()
	if tbl.Len() != 4 || tbl.Value(0, "region") != "lake_district" {
		t.Errorf("Unexpected dim_region_division %v", tbl.Rows)
	}

	back, err := DivisionMapFromTable(tbl)
	if err != nil {
		t.Fatalf("DivisionMapFromTable failed: %v", err)
	}
	if back.Resolve("scotland") != Scotland {
		t.Error("Round trip lost scotland mapping")
	}
}

func TestTables(t *testing.T) {
	events := mustParse(t)

	dim := EventsTable(events)
	if dim.Len() != len(events) {
		t.Errorf("Expected %d rows, got %d", len(events), dim.Len())
	}
	if dim.Value(0, "date") != "2024-01-01" || dim.Value(0, "bunting") != "1" {
		t.Errorf("Unexpected first row %v", dim.Rows[0])
	}

	bridge := BridgeTable(events)
	if missing := bridge.Missing(BridgeColumns...); len(missing) != 0 {
		t.Errorf("Bridge missing columns %v", missing)
	}

	back, err := EventsFromTable(dim)
	if err != nil {
		t.Fatalf("EventsFromTable failed: %v", err)
	}
	if len(back) != len(events) || back[0].ID != events[0].ID {
		t.Error("EventsFromTable did not reproduce events")
	}

	if _, err := EventsFromTable(table.New("dim_bank_holiday", "date")); err == nil {
		t.Error("Expected error for missing columns, got nil")
	}
}
