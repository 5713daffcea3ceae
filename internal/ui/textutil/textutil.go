// Package textutil measures and trims plain labels by terminal columns.
// Styled strings are measured with lipgloss instead.
package textutil

import (
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most max columns, ending in Ellipsis when
// anything was cut. Wide runes are never split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if Width(s) <= max {
		return s
	}
	avail := max - Width(Ellipsis)
	if avail < 0 {
		return Ellipsis
	}
	out := make([]rune, 0, len(s))
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > avail {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out) + Ellipsis
}

// PadRight fills s with spaces to exactly width columns, truncating when it
// is already wider.
func PadRight(s string, width int) string {
	if Width(s) >= width {
		return Truncate(s, width)
	}
	return runewidth.FillRight(s, width)
}
