// Package overlaytest provides deterministic stand-ins for the overlay
// package's scheduler and focus host.
package overlaytest

import (
	"time"

	"paneldeck/internal/overlay"
)

// ManualScheduler runs scheduled tasks only when Advance is called.
type ManualScheduler struct {
	Now   time.Time
	tasks []*manualTask
}

var _ overlay.Scheduler = (*ManualScheduler)(nil)

type manualTask struct {
	interval  time.Duration
	next      time.Time
	fn        func(time.Time)
	cancelled bool
}

func (t *manualTask) Cancel() { t.cancelled = true }

// NewManualScheduler creates a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{Now: start}
}

// Clock returns the scheduler's current time. Pass it as a clock func.
func (s *ManualScheduler) Clock() time.Time { return s.Now }

// Every implements overlay.Scheduler.
func (s *ManualScheduler) Every(interval time.Duration, fn func(time.Time)) overlay.Task {
	t := &manualTask{interval: interval, next: s.Now.Add(interval), fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing every due tick in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	end := s.Now.Add(d)
	for {
		t := s.nextDue(end)
		if t == nil {
			break
		}
		s.Now = t.next
		t.next = t.next.Add(t.interval)
		t.fn(s.Now)
	}
	s.Now = end
}

// Active returns the number of tasks not yet cancelled.
func (s *ManualScheduler) Active() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDue(end time.Time) *manualTask {
	var due *manualTask
	for _, t := range s.tasks {
		if t.cancelled || t.next.After(end) {
			continue
		}
		if due == nil || t.next.Before(due.next) {
			due = t
		}
	}
	return due
}

// FakeFocus is an in-memory focus host over a fixed set of element ids.
type FakeFocus struct {
	Current  string
	elements map[string]bool
}

var _ overlay.FocusHost = (*FakeFocus)(nil)

// NewFakeFocus creates a focus host containing ids.
func NewFakeFocus(ids ...string) *FakeFocus {
	f := &FakeFocus{elements: make(map[string]bool)}
	for _, id := range ids {
		f.elements[id] = true
	}
	return f
}

// Add makes id focusable.
func (f *FakeFocus) Add(id string) { f.elements[id] = true }

// Remove takes id off screen. Focus stays where it was.
func (f *FakeFocus) Remove(id string) { delete(f.elements, id) }

// Focused implements overlay.FocusHost.
func (f *FakeFocus) Focused() string { return f.Current }

// Focus implements overlay.FocusHost.
func (f *FakeFocus) Focus(id string) bool {
	if !f.elements[id] {
		return false
	}
	f.Current = id
	return true
}

// Exists implements overlay.FocusHost.
func (f *FakeFocus) Exists(id string) bool { return f.elements[id] }
