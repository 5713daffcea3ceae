package tabs

import (
	"fmt"
	"strings"
)

// Columns is the minimum number of cells in every rendered row.
const Columns = 3

// Cell is a resolved template cell.
type Cell struct {
	Label  string
	Text   string
	Image  string // flag for country markers
	Marker Marker
}

// Empty reports whether the cell carries no content at all.
func (c Cell) Empty() bool {
	return c.Label == "" && c.Text == "" && c.Image == ""
}

// Panel is the rendered content of one tab. It is always regenerated from
// the store, never edited in place.
type Panel struct {
	TabID          int
	Heading        string
	Main           [][]Cell
	SectionHeading string
	Section        [][]Cell
	Active         bool
}

// Clone returns a deep copy of p.
func (p Panel) Clone() Panel {
	out := p
	out.Main = cloneRows(p.Main)
	out.Section = cloneRows(p.Section)
	return out
}

func cloneRows(rows [][]Cell) [][]Cell {
	if rows == nil {
		return nil
	}
	out := make([][]Cell, len(rows))
	for i, r := range rows {
		out[i] = append([]Cell(nil), r...)
	}
	return out
}

// Render projects d through the shared templates. position is the tab's
// index in navigation order; every tab but the first gets a "Tab N ·" prefix.
//
// Render is pure: identical inputs give identical panels, and missing
// attributes resolve to empty cells instead of failing.
func Render(d Descriptor, position int, t Templates) Panel {
	return Panel{
		TabID:          d.ID,
		Heading:        heading(d.Title, position),
		Main:           renderRows(t.Main, d.Attributes),
		SectionHeading: t.SectionTitle,
		Section:        renderRows(t.Section, d.Attributes),
	}
}

func heading(title string, position int) string {
	if position <= 0 {
		return title
	}
	return fmt.Sprintf("Tab %d · %s", position+1, title)
}

func renderRows(rt RowTemplate, attrs map[string]string) [][]Cell {
	rows := make([][]Cell, 0, len(rt))
	for _, specs := range rt {
		n := len(specs)
		if n < Columns {
			n = Columns
		}
		row := make([]Cell, n)
		for i, spec := range specs {
			row[i] = resolve(spec, attrs)
		}
		rows = append(rows, row)
	}
	return rows
}

func resolve(spec CellSpec, attrs map[string]string) Cell {
	c := Cell{Label: spec.Label, Marker: spec.Marker}
	switch spec.Marker {
	case MarkerCountry:
		c.Image = Flag(attrs[AttrCountryCode])
		c.Text = attrs[AttrCountryName]
	case MarkerCategory:
		c.Text = attrs[AttrCategory]
	default:
		c.Text = spec.Value
	}
	return c
}

// Flag returns the regional-indicator flag for a two-letter country code,
// or "" when code is not two ASCII letters.
func Flag(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < 2; i++ {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(rune(0x1F1E6 + int(c-'A')))
	}
	return b.String()
}
