//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package holidays turns the GOV.UK bank holiday feed into the holiday
// dimension, its date bridge, the region to division mapping and the
// per-division closed-day sets.
package holidays

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-tourcast/internal/stablehash"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Bank holiday divisions as named by the GOV.UK feed.
const (
	EnglandAndWales = "england-and-wales"
	Scotland        = "scotland"
	NorthernIreland = "northern-ireland"
)

// Divisions lists the divisions in dimension column order.
var Divisions = []string{EnglandAndWales, Scotland, NorthernIreland}

// idModulus bounds the surrogate bank holiday id.
const idModulus = 1_000_000_000_000

// Event is a row of dim_bank_holiday.
type Event struct {
	ID       int64
	Date     time.Time
	Division string
	Title    string
	Notes    string
	Bunting  bool
}

// EventColumns is the dim_bank_holiday schema.
var EventColumns = []string{"bank_holiday_id", "date", "division", "title", "notes", "bunting"}

// BridgeColumns is the bridge_bank_holiday_date schema.
var BridgeColumns = []string{"date", "division", "bank_holiday_id"}

type feedDivision struct {
	Division string      `json:"division"`
	Events   []feedEvent `json:"events"`
}

type feedEvent struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
	Bunting bool   `json:"bunting"`
}

// EventID derives the stable surrogate key for an event.
func EventID(division string, date time.Time, title string) int64 {
	return stablehash.ID(division+"|"+date.Format(table.DateLayout)+"|"+title, idModulus)
}

// Parse flattens the feed into events. Events with unparsable dates are
// dropped. The result is sorted by date, division and title with exact
// duplicates removed.
func Parse(data []byte) ([]Event, error) {
	var feed map[string]feedDivision
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("invalid bank holiday feed: %w", err)
	}

	var events []Event
	for division, d := range feed {
		for _, ev := range d.Events {
			date, err := time.Parse(table.DateLayout, strings.TrimSpace(ev.Date))
			if err != nil {
				continue
			}
			events = append(events, Event{
				ID:       EventID(division, date, ev.Title),
				Date:     date,
				Division: division,
				Title:    ev.Title,
				Notes:    ev.Notes,
				Bunting:  ev.Bunting,
			})
		}
	}

	sortEvents(events)
	return dedupe(events), nil
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Division != b.Division {
			return a.Division < b.Division
		}
		return a.Title < b.Title
	})
}

func dedupe(events []Event) []Event {
	if len(events) == 0 {
		return events
	}
	out := events[:1]
	for _, ev := range events[1:] {
		if ev != out[len(out)-1] {
			out = append(out, ev)
		}
	}
	return out
}

// EventsTable renders events as dim_bank_holiday.
func EventsTable(events []Event) *table.Table {
	t := table.New("dim_bank_holiday", EventColumns...)
	for _, ev := range events {
		t.Append(
			table.Int64(ev.ID),
			table.Date(ev.Date),
			ev.Division,
			ev.Title,
			ev.Notes,
			table.Bool(ev.Bunting),
		)
	}
	return t
}

// BridgeTable renders the date to holiday bridge, sorted by date and
// division.
func BridgeTable(events []Event) *table.Table {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Division < sorted[j].Division
	})

	t := table.New("bridge_bank_holiday_date", BridgeColumns...)
	for _, ev := range sorted {
		t.Append(table.Date(ev.Date), ev.Division, table.Int64(ev.ID))
	}
	return t
}

// EventsFromTable reads dim_bank_holiday back into events.
func EventsFromTable(t *table.Table) ([]Event, error) {
	if missing := t.Missing("date", "division", "title"); len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing columns %v", t.Name, missing)
	}

	events := make([]Event, 0, t.Len())
	for i := range t.Rows {
		date, err := table.ParseDate(t.Value(i, "date"))
		if err != nil {
			continue
		}
		ev := Event{
			Date:     date,
			Division: t.Value(i, "division"),
			Title:    t.Value(i, "title"),
			Notes:    t.Value(i, "notes"),
		}
		if t.Has("bunting") {
			ev.Bunting, _ = table.ParseBool(t.Value(i, "bunting"))
		}
		if t.Has("bank_holiday_id") {
			id, err := table.ParseInt(t.Value(i, "bank_holiday_id"))
			if err == nil {
				ev.ID = int64(id)
			}
		}
		if ev.ID == 0 {
			ev.ID = EventID(ev.Division, ev.Date, ev.Title)
		}
		events = append(events, ev)
	}
	return events, nil
}
