package ui

import "paneldeck/internal/overlay"

// focusHost tracks which on-screen element has keyboard focus. Element ids
// are the trigger and focus-target ids from the dashboard package; whether
// one is on screen is decided by the exists callback.
type focusHost struct {
	current  string
	exists   func(id string) bool
	OnChange func(from, to string)
}

var _ overlay.FocusHost = (*focusHost)(nil)

// Focused implements overlay.FocusHost.
func (f *focusHost) Focused() string { return f.current }

// Focus implements overlay.FocusHost.
func (f *focusHost) Focus(id string) bool {
	if !f.Exists(id) {
		return false
	}
	from := f.current
	f.current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
	return true
}

// Exists implements overlay.FocusHost.
func (f *focusHost) Exists(id string) bool {
	return id != "" && f.exists != nil && f.exists(id)
}
