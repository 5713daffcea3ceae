package overlay

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"paneldeck/internal/events"
)

// Options configures a Coordinator.
type Options struct {
	Focus  FocusHost
	Bus    *events.Bus
	Logger logr.Logger
	Clock  func() time.Time
}

// Coordinator owns every registered surface and routes global dismissal
// input (outside clicks and Escape) to them.
type Coordinator struct {
	focus   FocusHost
	bus     *events.Bus
	log     logr.Logger
	now     func() time.Time
	scroll  ScrollLock
	byName  map[string]*Surface
	ordered []*Surface
	// open holds open surfaces, oldest first.
	open []*Surface
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Coordinator{
		focus:  opts.Focus,
		bus:    opts.Bus,
		log:    opts.Logger.WithName("overlay"),
		now:    opts.Clock,
		byName: make(map[string]*Surface),
	}
}

// Register adds a surface. Names must be unique and a parent, if named, must
// already be registered.
func (c *Coordinator) Register(spec Spec) (*Surface, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("register surface: name is required")
	}
	if _, dup := c.byName[spec.Name]; dup {
		return nil, fmt.Errorf("register surface %q: already registered", spec.Name)
	}
	if spec.Parent != "" {
		if _, ok := c.byName[spec.Parent]; !ok {
			return nil, fmt.Errorf("register surface %q: unknown parent %q", spec.Name, spec.Parent)
		}
	}
	spec.Excludes = append([]string(nil), spec.Excludes...)
	s := &Surface{spec: spec, coord: c}
	c.byName[spec.Name] = s
	c.ordered = append(c.ordered, s)
	return s, nil
}

// Surface returns the surface registered under name.
func (c *Coordinator) Surface(name string) (*Surface, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// OpenSurfaces returns the names of open surfaces, most recently opened
// first.
func (c *Coordinator) OpenSurfaces() []string {
	out := make([]string, 0, len(c.open))
	for i := len(c.open) - 1; i >= 0; i-- {
		out = append(out, c.open[i].spec.Name)
	}
	return out
}

// Top returns the most recently opened surface.
func (c *Coordinator) Top() (*Surface, bool) {
	if len(c.open) == 0 {
		return nil, false
	}
	return c.open[len(c.open)-1], true
}

// AnyOpen reports whether any surface is open.
func (c *Coordinator) AnyOpen() bool {
	return len(c.open) > 0
}

// ScrollLocked reports whether an open surface suspends background scroll.
func (c *Coordinator) ScrollLocked() bool {
	return c.scroll.Locked()
}

// CloseAll closes every open surface, most recent first.
func (c *Coordinator) CloseAll() {
	for len(c.open) > 0 {
		c.open[len(c.open)-1].Close()
	}
}

// PointerDown handles a click at (x, y). Every open surface the click falls
// outside of is closed, except surfaces with an open nested surface; those
// are left to the nested one. It returns the closed surface names.
func (c *Coordinator) PointerDown(x, y int) []string {
	candidates := c.dismissable()
	var closed []string
	for _, s := range candidates {
		if !s.state.Open || !s.outside(x, y) {
			continue
		}
		s.Close()
		closed = append(closed, s.spec.Name)
	}
	return closed
}

// Escape closes every open surface that has no open nested surface, most
// recent first. It returns the closed surface names.
func (c *Coordinator) Escape() []string {
	candidates := c.dismissable()
	var closed []string
	for _, s := range candidates {
		if !s.state.Open {
			continue
		}
		s.Close()
		closed = append(closed, s.spec.Name)
	}
	return closed
}

// dismissable snapshots the open surfaces without an open nested surface,
// most recent first. The snapshot is taken before anything closes so a
// parent whose child is dismissed by the same input stays open.
func (c *Coordinator) dismissable() []*Surface {
	var out []*Surface
	for i := len(c.open) - 1; i >= 0; i-- {
		s := c.open[i]
		if s.capturing() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c *Coordinator) children(name string) []*Surface {
	var out []*Surface
	for _, s := range c.ordered {
		if s.spec.Parent == name {
			out = append(out, s)
		}
	}
	return out
}

func (c *Coordinator) pushOpen(s *Surface) {
	c.open = append(c.open, s)
}

func (c *Coordinator) dropOpen(s *Surface) {
	for i, o := range c.open {
		if o == s {
			c.open = append(c.open[:i], c.open[i+1:]...)
			return
		}
	}
}
