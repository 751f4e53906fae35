//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package holidays

import (
	"strings"
	"time"
)

// ClosedKeywords are matched case-insensitively against holiday titles.
// A match closes every route in that division for the whole day.
var ClosedKeywords = []string{
	"Christmas Day",
	"Boxing Day",
	"New Year",
	"New Year's Day",
	"New Year’s Day",
	"Good Friday",
	"Easter Monday",
}

// ClosedDays maps a division to its closed dates, keyed by YYYY-MM-DD.
type ClosedDays map[string]map[string]struct{}

// IsClosing reports whether a holiday title closes operations.
func IsClosing(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range ClosedKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ResolveClosedDays builds the closed-day sets from events. It never fails;
// no events gives an empty set.
func ResolveClosedDays(events []Event) ClosedDays {
	closed := make(ClosedDays)
	for _, ev := range events {
		if !IsClosing(ev.Title) {
			continue
		}
		dates, ok := closed[ev.Division]
		if !ok {
			dates = make(map[string]struct{})
			closed[ev.Division] = dates
		}
		dates[dayKey(ev.Date)] = struct{}{}
	}
	return closed
}

// IsClosed reports whether date is closed in division.
func (c ClosedDays) IsClosed(division string, date time.Time) bool {
	dates, ok := c[division]
	if !ok {
		return false
	}
	_, closed := dates[dayKey(date)]
	return closed
}

// Count returns the number of closed dates in division.
func (c ClosedDays) Count(division string) int {
	return len(c[division])
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
