// Package overlay implements the transient surfaces of the workspace
// (dialogs, dropdown menus) and the coordinator that dismisses them, plus the
// start/stop timer control.
package overlay

import (
	"paneldeck/internal/events"
)

// Spec configures one surface.
type Spec struct {
	// Name identifies the surface and prefixes its events ("<name>Opened").
	Name string
	// InitialFocus is the element focused when the surface opens.
	InitialFocus string
	// ScrollBlocking suspends background scroll while open.
	ScrollBlocking bool
	// Parent names the surface this one is nested in. While a nested surface
	// is open its parent ignores outside clicks and Escape.
	Parent string
	// Excludes lists surfaces closed when this one opens.
	Excludes []string
}

// State is the open/closed state of a surface.
type State struct {
	Open               bool
	LastFocusedTrigger string
}

// Surface is one overlay governed by the open/close/focus contract.
// Surfaces are created by Coordinator.Register.
type Surface struct {
	spec          Spec
	state         State
	bounds        Rect
	triggerBounds Rect
	coord         *Coordinator
}

// Name returns the surface name.
func (s *Surface) Name() string { return s.spec.Name }

// Spec returns the surface configuration.
func (s *Surface) Spec() Spec { return s.spec }

// State returns a copy of the surface state.
func (s *Surface) State() State { return s.state }

// IsOpen reports whether the surface is open.
func (s *Surface) IsOpen() bool { return s.state.Open }

// SetBounds records where the surface was last drawn.
func (s *Surface) SetBounds(r Rect) { s.bounds = r }

// Bounds returns where the surface was last drawn.
func (s *Surface) Bounds() Rect { return s.bounds }

// SetTriggerBounds records where the control that toggles the surface was
// drawn. Clicks there are not outside clicks.
func (s *Surface) SetTriggerBounds(r Rect) { s.triggerBounds = r }

// Open captures trigger as the focus restoration target, moves focus to the
// initial focus target and publishes <name>Opened. Opening an open surface
// is a no-op so the original trigger is kept.
func (s *Surface) Open(trigger string) {
	if s.state.Open {
		return
	}
	c := s.coord
	for _, name := range s.spec.Excludes {
		if other, ok := c.byName[name]; ok {
			other.Close()
		}
	}

	s.state = State{Open: true, LastFocusedTrigger: trigger}
	c.pushOpen(s)
	if s.spec.ScrollBlocking {
		c.scroll.Acquire(s.spec.Name)
	}
	if s.spec.InitialFocus != "" && c.focus != nil {
		if !c.focus.Focus(s.spec.InitialFocus) {
			c.log.V(1).Info("initial focus target missing", "surface", s.spec.Name, "target", s.spec.InitialFocus)
		}
	}

	c.log.V(1).Info("surface opened", "surface", s.spec.Name, "trigger", trigger)
	c.bus.Publish(events.Opened(s.spec.Name), events.Detail{
		"trigger":  trigger,
		"openedAt": c.now(),
	})
}

// Close closes the surface and any open nested surfaces, releases its scroll
// suspension, restores focus to the recorded trigger if it still exists and
// publishes <name>Closed. Closing a closed surface is a no-op.
func (s *Surface) Close() {
	if !s.state.Open {
		return
	}
	c := s.coord
	for _, child := range c.children(s.spec.Name) {
		child.Close()
	}

	trigger := s.state.LastFocusedTrigger
	s.state = State{}
	c.dropOpen(s)
	if s.spec.ScrollBlocking {
		c.scroll.Release(s.spec.Name)
	}
	restored := false
	if trigger != "" && c.focus != nil && c.focus.Exists(trigger) {
		restored = c.focus.Focus(trigger)
	}

	c.log.V(1).Info("surface closed", "surface", s.spec.Name, "focusRestored", restored)
	c.bus.Publish(events.Closed(s.spec.Name), events.Detail{
		"trigger":       trigger,
		"focusRestored": restored,
		"closedAt":      c.now(),
	})
}

// Toggle closes the surface if open, otherwise opens it from trigger.
func (s *Surface) Toggle(trigger string) {
	if s.state.Open {
		s.Close()
		return
	}
	s.Open(trigger)
}

// capturing reports whether a nested surface is open inside s.
func (s *Surface) capturing() bool {
	for _, child := range s.coord.children(s.spec.Name) {
		if child.state.Open {
			return true
		}
	}
	return false
}

// outside reports whether (x, y) falls outside both the surface and its
// trigger. A surface that was never drawn has no region to be outside of.
func (s *Surface) outside(x, y int) bool {
	if s.bounds.Empty() {
		return false
	}
	return !s.bounds.Contains(x, y) && !s.triggerBounds.Contains(x, y)
}
