package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"paneldeck/internal/overlay"
)

// placeOverlay draws fg over bg with its top-left corner at (x, y), clamped
// to the screen. It returns the composited screen and the region fg covers.
func placeOverlay(bg, fg string, width, height, x, y int) (string, overlay.Rect) {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}
	fgLines := strings.Split(fg, "\n")
	fgW := lipgloss.Width(fg)
	fgH := len(fgLines)

	if x+fgW > width {
		x = width - fgW
	}
	if y+fgH > len(bgLines) {
		y = len(bgLines) - fgH
	}
	x = max(x, 0)
	y = max(y, 0)

	overlayAt(bgLines, fgLines, width, x, y, fgW)
	return strings.Join(bgLines, "\n"), overlay.Rect{X: x, Y: y, W: min(fgW, width-x), H: min(fgH, len(bgLines)-y)}
}

// placeCentered draws fg in the middle of the screen.
func placeCentered(bg, fg string, width, height int) (string, overlay.Rect) {
	x := (width - lipgloss.Width(fg)) / 2
	y := (height - lipgloss.Height(fg)) / 2
	return placeOverlay(bg, fg, width, height, x, y)
}

func overlayAt(bgLines, fgLines []string, w, x, y, fgW int) {
	if fgW <= 0 {
		return
	}
	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		if n := ansi.StringWidth(bgLine); n < x {
			bgLine += strings.Repeat(" ", x-n)
		}
		left := ansi.Cut(bgLine, 0, x)
		right := ansi.Cut(bgLine, x+fgW, w)

		fgLine := fgLines[i]
		if n := ansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = ansi.Cut(fgLine, 0, fgW)
		}
		bgLines[y+i] = left + fgLine + right
	}
}
