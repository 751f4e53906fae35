//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package validate checks the finished warehouse files for integrity,
// business ranges and VAT arithmetic.
//
// Structural and range problems are hard failures. VAT drift up to
// VATTolerance passes, up to VATFailThreshold warns, and beyond fails.
package validate

import (
	"fmt"
	"math"
	"sort"

	"github.com/pgEdge/pgedge-tourcast/internal/catalog"
	"github.com/pgEdge/pgedge-tourcast/internal/holidays"
	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// VAT drift thresholds in monetary units.
const (
	VATTolerance     = 0.03
	VATFailThreshold = 1.00
)

// Margin bounds on every booking.
const (
	MinMarginPct = 0.30
	MaxMarginPct = 0.50
)

// RequiredBookingColumns must be present in the booking fact.
var RequiredBookingColumns = []string{
	"booking_id", "booking_date", "date_key", "route_id", "guide_id",
	"party_size", "sales_ex_vat", "vat_amount", "sales_inc_vat",
	"staff_cost", "margin_amount", "margin_pct", "discount_flag",
}

// Inputs are the tables under validation. Holidays and Divisions are
// optional; without Holidays the closed-day check is skipped.
type Inputs struct {
	Routes    *table.Table
	Guides    *table.Table
	Dates     *table.Table
	Bookings  *table.Table
	Holidays  *table.Table
	Divisions *table.Table
	VATRate   float64
}

// Load reads the inputs from the processed directory.
func Load(dir string, names catalog.Names, vatRate float64) (Inputs, error) {
	in := Inputs{VATRate: vatRate}

	required := []struct {
		stem string
		dst  **table.Table
	}{
		{catalog.DimRoute, &in.Routes},
		{catalog.DimGuide, &in.Guides},
		{catalog.DimDate, &in.Dates},
		{names.Bookings(), &in.Bookings},
	}
	for _, r := range required {
		t, err := table.Read(table.Path(dir, r.stem))
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", r.stem, err)
		}
		*r.dst = t
	}

	optional := []struct {
		stem string
		dst  **table.Table
	}{
		{catalog.DimBankHoliday, &in.Holidays},
		{catalog.DimRegionDivision, &in.Divisions},
	}
	for _, o := range optional {
		path := table.Path(dir, o.stem)
		if !table.Exists(path) {
			continue
		}
		t, err := table.Read(path)
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", o.stem, err)
		}
		*o.dst = t
	}
	return in, nil
}

// Run executes every check in order. Checks that need columns stop after
// the first structural failure.
func Run(in Inputs) *Report {
	r := &Report{log: logging.Component("validate")}

	if !checkPresence(r, in) {
		return r
	}
	if !checkColumns(r, in) {
		return r
	}
	fact, ok := parseBookings(r, in.Bookings)
	if !ok {
		return r
	}

	checkKeys(r, in, fact)
	checkReferences(r, in, fact)
	checkRanges(r, fact)
	checkClosedDays(r, in, fact)
	checkVAT(r, fact, in.VATRate)
	return r
}

func checkPresence(r *Report, in Inputs) bool {
	ok := true
	for _, t := range []*table.Table{in.Routes, in.Guides, in.Dates, in.Bookings} {
		if t == nil || t.Len() == 0 {
			name := "table"
			if t != nil {
				name = t.Name
			}
			r.fail("presence", "%s is empty", name)
			ok = false
		}
	}
	if ok {
		r.ok("presence", "All core tables loaded and non-empty")
	}
	return ok
}

func checkColumns(r *Report, in Inputs) bool {
	ok := true
	if missing := in.Bookings.Missing(RequiredBookingColumns...); len(missing) > 0 {
		r.fail("columns", "Missing required fact columns: %v", missing)
		ok = false
	}
	dims := []struct {
		t   *table.Table
		key string
	}{
		{in.Routes, "route_id"},
		{in.Guides, "guide_id"},
		{in.Dates, "date_key"},
	}
	for _, d := range dims {
		if !d.t.Has(d.key) {
			r.fail("columns", "%s is missing key column %s", d.t.Name, d.key)
			ok = false
		}
	}
	if ok {
		r.ok("columns", "Required fact columns present")
	}
	return ok
}

// booking is the subset of a fact row the checks use.
type booking struct {
	id, dateKey, routeID, guideID, partySize int
	date                                     string
	region                                   string
	salesEx, vat, salesInc, marginPct        float64
}

func parseBookings(r *Report, t *table.Table) ([]booking, bool) {
	out := make([]booking, 0, t.Len())
	for i := range t.Rows {
		var b booking
		var err error
		ints := []struct {
			col string
			dst *int
		}{
			{"booking_id", &b.id},
			{"date_key", &b.dateKey},
			{"route_id", &b.routeID},
			{"guide_id", &b.guideID},
			{"party_size", &b.partySize},
		}
		for _, c := range ints {
			if *c.dst, err = table.ParseInt(t.Value(i, c.col)); err != nil {
				r.fail("parse", "%s row %d: %s: %v", t.Name, i+1, c.col, err)
				return nil, false
			}
		}
		floats := []struct {
			col string
			dst *float64
		}{
			{"sales_ex_vat", &b.salesEx},
			{"vat_amount", &b.vat},
			{"sales_inc_vat", &b.salesInc},
			{"margin_pct", &b.marginPct},
		}
		for _, c := range floats {
			if *c.dst, err = table.ParseFloat(t.Value(i, c.col)); err != nil {
				r.fail("parse", "%s row %d: %s: %v", t.Name, i+1, c.col, err)
				return nil, false
			}
		}
		b.date = t.Value(i, "booking_date")
		b.region = t.Value(i, "region")
		out = append(out, b)
	}
	return out, true
}

func keySet(r *Report, t *table.Table, column string) map[int]bool {
	set := make(map[int]bool, t.Len())
	dupes := 0
	for i := range t.Rows {
		v, err := table.ParseInt(t.Value(i, column))
		if err != nil {
			r.fail("keys", "%s row %d: %s: %v", t.Name, i+1, column, err)
			continue
		}
		if set[v] {
			dupes++
		}
		set[v] = true
	}
	if dupes > 0 {
		r.fail("keys", "%s is not unique in %s (%d duplicates)", column, t.Name, dupes)
	}
	return set
}

func checkKeys(r *Report, in Inputs, fact []booking) {
	before := r.Count(Fail)

	seen := make(map[int]bool, len(fact))
	for _, b := range fact {
		if seen[b.id] {
			r.fail("keys", "booking_id is not unique in %s", in.Bookings.Name)
			break
		}
		seen[b.id] = true
	}
	keySet(r, in.Routes, "route_id")
	keySet(r, in.Guides, "guide_id")
	keySet(r, in.Dates, "date_key")

	if r.Count(Fail) == before {
		r.ok("keys", "booking_id and dimension key uniqueness passed")
	}
}

// firstBad returns up to ten sorted values missing from set.
func firstBad(values []int, set map[int]bool) []int {
	bad := map[int]bool{}
	for _, v := range values {
		if !set[v] {
			bad[v] = true
		}
	}
	out := make([]int, 0, len(bad))
	for v := range bad {
		out = append(out, v)
	}
	sort.Ints(out)
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func checkReferences(r *Report, in Inputs, fact []booking) {
	routes := keySetQuiet(in.Routes, "route_id")
	guides := keySetQuiet(in.Guides, "guide_id")
	dates := keySetQuiet(in.Dates, "date_key")

	var routeIDs, guideIDs, dateKeys []int
	for _, b := range fact {
		routeIDs = append(routeIDs, b.routeID)
		guideIDs = append(guideIDs, b.guideID)
		dateKeys = append(dateKeys, b.dateKey)
	}

	ok := true
	refs := []struct {
		col    string
		values []int
		set    map[int]bool
	}{
		{"route_id", routeIDs, routes},
		{"guide_id", guideIDs, guides},
		{"date_key", dateKeys, dates},
	}
	for _, ref := range refs {
		if bad := firstBad(ref.values, ref.set); len(bad) > 0 {
			r.fail("references", "Invalid %s values found: %v", ref.col, bad)
			ok = false
		}
	}
	if ok {
		r.ok("references", "Referential integrity passed (route_id, guide_id, date_key)")
	}
}

func keySetQuiet(t *table.Table, column string) map[int]bool {
	set := make(map[int]bool, t.Len())
	for i := range t.Rows {
		if v, err := table.ParseInt(t.Value(i, column)); err == nil {
			set[v] = true
		}
	}
	return set
}

func checkRanges(r *Report, fact []booking) {
	ok := true
	minM, maxM := math.Inf(1), math.Inf(-1)
	var badParty, negEx, negInc int
	for _, b := range fact {
		if b.partySize < 1 || b.partySize > 6 {
			badParty++
		}
		if b.salesEx < 0 {
			negEx++
		}
		if b.salesInc < 0 {
			negInc++
		}
		minM = math.Min(minM, b.marginPct)
		maxM = math.Max(maxM, b.marginPct)
	}

	if badParty > 0 {
		r.fail("ranges", "party_size outside 1..6 in %d bookings", badParty)
		ok = false
	}
	if negEx > 0 {
		r.fail("ranges", "sales_ex_vat contains %d negative values", negEx)
		ok = false
	}
	if negInc > 0 {
		r.fail("ranges", "sales_inc_vat contains %d negative values", negInc)
		ok = false
	}
	if minM < MinMarginPct || maxM > MaxMarginPct {
		r.fail("ranges", "margin_pct outside expected %.2f-%.2f range (min=%.4f, max=%.4f)",
			MinMarginPct, MaxMarginPct, minM, maxM)
		ok = false
	}
	if ok {
		r.ok("ranges", "Basic numeric range checks passed (party_size, sales, margin_pct)")
	}
}

func checkClosedDays(r *Report, in Inputs, fact []booking) {
	if in.Holidays == nil {
		r.ok("closed_days", "No bank holiday table; closed-day check skipped")
		return
	}
	events, err := holidays.EventsFromTable(in.Holidays)
	if err != nil {
		r.fail("closed_days", "Cannot read bank holidays: %v", err)
		return
	}
	closed := holidays.ResolveClosedDays(events)

	divisions := holidays.DefaultDivisions()
	if in.Divisions != nil {
		if divisions, err = holidays.DivisionMapFromTable(in.Divisions); err != nil {
			r.fail("closed_days", "Cannot read region divisions: %v", err)
			return
		}
	}

	var bad []int
	for _, b := range fact {
		d, err := table.ParseDate(b.date)
		if err != nil {
			continue
		}
		if closed.IsClosed(divisions.Resolve(b.region), d) {
			bad = append(bad, b.id)
		}
	}
	if len(bad) > 0 {
		if len(bad) > 10 {
			bad = bad[:10]
		}
		r.fail("closed_days", "Bookings on closed days: %v", bad)
		return
	}
	r.ok("closed_days", "No bookings on closed days")
}

// vatLevel classifies a maximum drift.
func vatLevel(drift float64) Level {
	switch {
	case drift <= VATTolerance:
		return OK
	case drift <= VATFailThreshold:
		return Warn
	default:
		return Fail
	}
}

func checkVAT(r *Report, fact []booking, rate float64) {
	var vatDrift, incDrift float64
	for _, b := range fact {
		vatDrift = math.Max(vatDrift, math.Abs(b.vat-b.salesEx*rate))
		incDrift = math.Max(incDrift, math.Abs(b.salesInc-(b.salesEx+b.vat)))
	}

	checks := []struct {
		label string
		drift float64
	}{
		{"VAT", vatDrift},
		{"Inc VAT", incDrift},
	}
	for _, c := range checks {
		switch vatLevel(c.drift) {
		case OK:
			r.ok("vat", "%s consistency check passed", c.label)
		case Warn:
			r.warn("vat", "%s calc diff max %.4f exceeds tolerance (%.2f). Check rounding.",
				c.label, c.drift, VATTolerance)
		default:
			r.fail("vat", "%s calc diff max %.4f exceeds %.2f", c.label, c.drift, VATFailThreshold)
		}
	}
}
