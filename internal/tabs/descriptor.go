// Package tabs owns the workspace tabs: the ordered descriptor store, the
// panel renderer that projects row templates into panel trees, and the
// controller that tracks which tab is active.
package tabs

import (
	"fmt"
	"strings"
)

// Attribute keys read by marker cells.
const (
	AttrCountryCode = "countryCode"
	AttrCountryName = "countryName"
	AttrCategory    = "category"
)

// Descriptor describes one tab. ID is caller-assigned, positive and unique.
type Descriptor struct {
	ID         int
	Title      string
	Attributes map[string]string
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	out := Descriptor{ID: d.ID, Title: d.Title}
	if d.Attributes != nil {
		out.Attributes = make(map[string]string, len(d.Attributes))
		for k, v := range d.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// Config returns the descriptor as a plain map for event payloads.
func (d Descriptor) Config() map[string]any {
	attrs := make(map[string]string, len(d.Attributes))
	for k, v := range d.Attributes {
		attrs[k] = v
	}
	return map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"attributes": attrs,
	}
}

// Patch is a partial descriptor for UpdateTabContent. Nil fields are left
// untouched; a non-nil Attributes replaces the whole attribute map.
type Patch struct {
	Title      *string
	Attributes map[string]string
}

// Marker selects how a template cell is resolved at render time.
type Marker int

const (
	// MarkerNone is a literal cell.
	MarkerNone Marker = iota
	// MarkerCountry resolves to a flag plus the country name.
	MarkerCountry
	// MarkerCategory resolves to the category label.
	MarkerCategory
)

func (m Marker) String() string {
	switch m {
	case MarkerNone:
		return ""
	case MarkerCountry:
		return "country"
	case MarkerCategory:
		return "category"
	default:
		return "unknown"
	}
}

// ParseMarker converts a manifest marker name to a Marker. The empty string
// is MarkerNone.
func ParseMarker(s string) (Marker, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return MarkerNone, nil
	case "country":
		return MarkerCountry, nil
	case "category":
		return MarkerCategory, nil
	default:
		return MarkerNone, fmt.Errorf("tabs: unknown marker %q", s)
	}
}

// CellSpec is one template cell: a label and either a literal value or a
// marker resolved against the active descriptor's attributes.
type CellSpec struct {
	Label  string
	Value  string
	Marker Marker
}

// RowTemplate is an ordered sequence of rows of cells.
type RowTemplate [][]CellSpec

// Templates holds the two row templates shared by every tab.
type Templates struct {
	Main         RowTemplate
	Section      RowTemplate
	SectionTitle string
}

// Clone returns a deep copy of t.
func (t Templates) Clone() Templates {
	return Templates{
		Main:         cloneTemplate(t.Main),
		Section:      cloneTemplate(t.Section),
		SectionTitle: t.SectionTitle,
	}
}

func cloneTemplate(rt RowTemplate) RowTemplate {
	if rt == nil {
		return nil
	}
	out := make(RowTemplate, len(rt))
	for i, row := range rt {
		out[i] = append([]CellSpec(nil), row...)
	}
	return out
}
