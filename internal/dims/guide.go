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
	"sort"
	"strings"

	"github.com/pgEdge/pgedge-tourcast/internal/table"
)

// Guide is a row of dim_guide.
type Guide struct {
	GuideID int
	Name    string
	Email   string
	Phone   string
	Bio     string
}

// GuideColumns is the dim_guide schema.
var GuideColumns = []string{"guide_id", "guide_name", "email", "phone", "bio"}

type seedGuide struct {
	GuideID seedNumber `json:"guide_id"`
	Name    seedString `json:"name"`
	Email   seedString `json:"email"`
	Phone   seedString `json:"phone"`
	Bio     seedString `json:"bio"`
}

// LoadGuides reads and normalises the guides seed file.
func LoadGuides(path string) ([]Guide, error) {
	data, err := readSeed(path)
	if err != nil {
		return nil, err
	}
	return ParseGuides(data, path)
}

// ParseGuides normalises raw guide seed JSON into dim_guide rows sorted by
// guide id. Optional contact fields default to empty.
func ParseGuides(data []byte, source string) ([]Guide, error) {
	var seeds []seedGuide
	if err := decodeSeed(data, source, &seeds); err != nil {
		return nil, err
	}

	guides := make([]Guide, 0, len(seeds))
	for i, s := range seeds {
		if !s.GuideID.set {
			return nil, missingField(source, i, "guide_id")
		}
		if !s.Name.set {
			return nil, missingField(source, i, "name")
		}
		guides = append(guides, Guide{
			GuideID: s.GuideID.int(),
			Name:    strings.TrimSpace(s.Name.value),
			Email:   strings.TrimSpace(s.Email.value),
			Phone:   strings.TrimSpace(s.Phone.value),
			Bio:     strings.TrimSpace(s.Bio.value),
		})
	}

	sort.SliceStable(guides, func(i, j int) bool {
		return guides[i].GuideID < guides[j].GuideID
	})
	return guides, nil
}

// GuideIDs returns the guide roster in dimension order.
func GuideIDs(guides []Guide) []int {
	ids := make([]int, len(guides))
	for i, g := range guides {
		ids[i] = g.GuideID
	}
	return ids
}

// GuidesTable renders guides as dim_guide.
func GuidesTable(guides []Guide) *table.Table {
	t := table.New("dim_guide", GuideColumns...)
	for _, g := range guides {
		t.Append(table.Int(g.GuideID), g.Name, g.Email, g.Phone, g.Bio)
	}
	return t
}
