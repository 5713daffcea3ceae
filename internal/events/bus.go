package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Bus is the process-wide publish point. It is created once at startup and
// lives for the session; the only teardown is listener removal.
//
// Publish is synchronous: every listener runs before Publish returns, in
// subscription order. Listener errors and panics are logged and swallowed.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
	next int
	log  logr.Logger
	now  func() time.Time
}

type subscription struct {
	id       int
	listener Listener
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for listener failures.
func WithLogger(log logr.Logger) Option {
	return func(b *Bus) { b.log = log }
}

// WithClock overrides the timestamp source (tests use a fixed clock).
func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		log: logr.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers l and returns a cancel func that removes it.
// Cancel is safe to call more than once.
func (b *Bus) Subscribe(l Listener) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs = append(b.subs, subscription{id: id, listener: l})
	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish stamps and broadcasts an event, returning it.
func (b *Bus) Publish(name Name, detail Detail) Event {
	if detail == nil {
		detail = Detail{}
	}
	evt := Event{
		ID:        uuid.NewString(),
		Name:      name,
		Detail:    detail,
		Timestamp: b.now(),
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := b.deliver(s.listener, evt); err != nil {
			b.log.Error(err, "listener failed", "event", string(name), "listener", s.id)
		}
	}
	return evt
}

// Error publishes a dashboardError event carrying message, context and
// timestamp.
func (b *Bus) Error(context string, err error) Event {
	ts := b.now()
	return b.Publish(DashboardError, Detail{
		"message":   err.Error(),
		"context":   context,
		"timestamp": ts,
	})
}

func (b *Bus) deliver(l Listener, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("events: listener panic: %v", r)
		}
	}()
	return l.Notify(evt)
}
