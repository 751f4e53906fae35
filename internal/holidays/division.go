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
	"fmt"
	"sort"

	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// DefaultDivision applies to any region without an explicit mapping.
const DefaultDivision = EnglandAndWales

// DivisionMap maps a tour region to its bank holiday division.
type DivisionMap map[string]string

// DefaultDivisions returns the built-in region mapping.
func DefaultDivisions() DivisionMap {
	return DivisionMap{
		"lake_district": EnglandAndWales,
		"peak_district": EnglandAndWales,
		"wales":         EnglandAndWales,
		"scotland":      Scotland,
	}
}

// Resolve returns the division for region, falling back to
// DefaultDivision.
func (m DivisionMap) Resolve(region string) string {
	if d, ok := m[region]; ok && d != "" {
		return d
	}
	return DefaultDivision
}

// Table renders the mapping as dim_region_division sorted by region.
func (m DivisionMap) Table() *table.Table {
	regions := make([]string, 0, len(m))
	for r := range m {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	t := table.New("dim_region_division", "region", "division")
	for _, r := range regions {
		t.Append(r, m[r])
	}
	return t
}

// DivisionMapFromTable reads dim_region_division back into a mapping.
func DivisionMapFromTable(t *table.Table) (DivisionMap, error) {
	if missing := t.Missing("region", "division"); len(missing) > 0 {
		return nil, fmt.Errorf("%s is missing columns %v", t.Name, missing)
	}
	m := make(DivisionMap, t.Len())
	for i := range t.Rows {
		m[t.Value(i, "region")] = t.Value(i, "division")
	}
	return m, nil
}
