package events

import "sync"

// History keeps the most recent events in publish order.
// The notification panel reads it to show recent activity; tests use it as
// a recorder.
type History struct {
	mu     sync.RWMutex
	events []Event
	max    int
}

// NewHistory creates a history holding at most max events (default 50).
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{max: max, events: make([]Event, 0, max)}
}

// Notify implements Listener.
func (h *History) Notify(evt Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.events) == h.max {
		copy(h.events, h.events[1:])
		h.events = h.events[:h.max-1]
	}
	h.events = append(h.events, evt)
	return nil
}

// Events returns a copy of the retained events, oldest first.
func (h *History) Events() []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Named returns retained events with the given name, oldest first.
func (h *History) Named(name Name) []Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []Event
	for _, e := range h.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recent event.
func (h *History) Last() (Event, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.events) == 0 {
		return Event{}, false
	}
	return h.events[len(h.events)-1], true
}

// Reset drops all retained events.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = h.events[:0]
}
