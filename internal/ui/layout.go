package ui

import "paneldeck/internal/overlay"

// layout splits the screen into the toolbar row, the tab bar row, the panel
// area, an optional key help box and the status line.
type layout struct {
	width, height int
	helpHeight    int
}

func (l layout) toolbar() overlay.Rect {
	return overlay.Rect{X: 0, Y: 0, W: l.width, H: 1}
}

func (l layout) tabBar() overlay.Rect {
	return overlay.Rect{X: 0, Y: 1, W: l.width, H: 1}
}

func (l layout) content() overlay.Rect {
	h := l.height - 3 - l.helpHeight
	return overlay.Rect{X: 0, Y: 2, W: l.width, H: max(h, 1)}
}

func (l layout) status() overlay.Rect {
	return overlay.Rect{X: 0, Y: max(l.height-1, 0), W: l.width, H: 1}
}
