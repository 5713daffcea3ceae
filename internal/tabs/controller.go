package tabs

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"paneldeck/internal/events"
)

// MaxBoundTabs is how many tabs get a digit key binding (1-9).
const MaxBoundTabs = 9

// Trigger is the control a user activates to select a tab.
type Trigger struct {
	TabID  int
	Label  string
	Active bool
}

// Binder attaches input bindings for tab triggers. The controller rebinds
// every time the trigger set changes.
type Binder interface {
	BindTab(key string, tabID int)
	UnbindTabs()
}

// Options configures a Controller.
type Options struct {
	Bus    *events.Bus
	Binder Binder
	Logger logr.Logger
}

// Controller owns the active selection. It keeps one trigger and one panel
// per stored descriptor, regenerates panels through Render and announces
// every change on the bus.
//
// Failures are returned and also published as dashboardError events; a
// failed call leaves the previous state intact.
type Controller struct {
	store    *Store
	bus      *events.Bus
	binder   Binder
	log      logr.Logger
	triggers []*Trigger
	panels   map[int]*Panel
	active   int
	focus    FocusRing
}

// NewController creates a controller over store. Call Start to build the
// triggers and activate the first tab.
func NewController(store *Store, opts Options) *Controller {
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &Controller{
		store:  store,
		bus:    opts.Bus,
		binder: opts.Binder,
		log:    opts.Logger.WithName("tabs"),
		panels: make(map[int]*Panel),
	}
}

// Start validates the configuration, synthesises every trigger and panel,
// binds inputs and activates the first tab.
func (c *Controller) Start() error {
	if err := validateDescriptors(c.store.tabs); err != nil {
		return c.fail(err)
	}
	c.triggers = c.triggers[:0]
	c.panels = make(map[int]*Panel, c.store.Len())
	for _, d := range c.store.tabs {
		c.triggers = append(c.triggers, &Trigger{TabID: d.ID, Label: d.Title})
	}
	c.renderAll()
	c.syncFocusOrder()
	c.bindInputs()
	return c.Activate(c.store.tabs[0].ID)
}

func validateDescriptors(ds []Descriptor) error {
	if len(ds) == 0 {
		return &ConfigurationError{Context: ContextInitialization, Reason: "at least one tab is required"}
	}
	seen := make(map[int]struct{}, len(ds))
	for _, d := range ds {
		if err := validateDescriptor(ContextInitialization, d); err != nil {
			return err
		}
		if _, dup := seen[d.ID]; dup {
			return &ConfigurationError{Context: ContextInitialization, TabID: d.ID, Reason: "duplicate id"}
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

func validateDescriptor(context string, d Descriptor) error {
	if d.ID <= 0 {
		return &ConfigurationError{Context: context, Reason: "id must be a positive integer"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ConfigurationError{Context: context, TabID: d.ID, Reason: "title is required"}
	}
	return nil
}

// Activate makes id the active tab: its trigger and panel get the active
// marker, every other one loses it, and tabChanged is published. Activating
// the already-active tab re-renders it and publishes again.
func (c *Controller) Activate(id int) error {
	trigger := c.trigger(id)
	panel := c.panels[id]
	if trigger == nil || panel == nil {
		return c.fail(&IntegrationError{Context: ContextActivation, TabID: id, Missing: missingParts(trigger, panel)})
	}
	d, ok := c.store.Get(id)
	if !ok {
		return c.fail(&ConfigurationError{Context: ContextActivation, TabID: id, Reason: "unknown tab"})
	}

	*panel = Render(d, c.store.Index(id), c.store.templates)
	for _, t := range c.triggers {
		t.Active = t.TabID == id
	}
	for pid, p := range c.panels {
		p.Active = pid == id
	}
	c.active = id
	c.focus.SetFocus(id)

	c.log.V(1).Info("tab activated", "tabId", id)
	c.bus.Publish(events.TabChanged, events.Detail{"tabId": id, "tabTitle": d.Title})
	return nil
}

func missingParts(t *Trigger, p *Panel) string {
	switch {
	case t == nil && p == nil:
		return "trigger and panel"
	case t == nil:
		return "trigger"
	default:
		return "panel"
	}
}

// AddTab appends d, synthesises its trigger and panel, rebinds inputs and
// publishes tabAdded. The active selection does not change.
func (c *Controller) AddTab(d Descriptor) error {
	if err := validateDescriptor(ContextAdd, d); err != nil {
		return c.fail(err)
	}
	if c.store.Index(d.ID) >= 0 {
		return c.fail(&ConfigurationError{Context: ContextAdd, TabID: d.ID, Reason: "duplicate id"})
	}

	c.store.append(d)
	c.triggers = append(c.triggers, &Trigger{TabID: d.ID, Label: d.Title})
	panel := Render(d, c.store.Index(d.ID), c.store.templates)
	c.panels[d.ID] = &panel
	c.syncFocusOrder()
	c.bindInputs()

	c.log.V(1).Info("tab added", "tabId", d.ID)
	c.bus.Publish(events.TabAdded, events.Detail{"tabId": d.ID, "tabConfig": d.Config()})
	return nil
}

// RemoveTab destroys the tab's trigger and panel. If it was active, the
// first remaining tab is activated. The last tab can never be removed.
func (c *Controller) RemoveTab(id int) error {
	if c.store.Index(id) < 0 {
		return c.fail(&ConfigurationError{Context: ContextRemove, TabID: id, Reason: "unknown tab"})
	}
	if c.store.Len() <= 1 {
		return c.fail(&ConfigurationError{Context: ContextRemove, TabID: id, Reason: "cannot remove the last tab"})
	}

	wasActive := c.active == id
	c.store.remove(id)
	for i, t := range c.triggers {
		if t.TabID == id {
			c.triggers = append(c.triggers[:i], c.triggers[i+1:]...)
			break
		}
	}
	delete(c.panels, id)
	if wasActive {
		c.active = 0
	}
	// Positions shift, so headings of the remaining tabs are regenerated.
	c.renderAll()
	c.syncFocusOrder()
	if c.focus.Current == id && !c.focus.SetFocus(c.active) {
		c.focus.Current = 0
	}
	c.bindInputs()

	c.log.V(1).Info("tab removed", "tabId", id, "wasActive", wasActive)
	c.bus.Publish(events.TabRemoved, events.Detail{"tabId": id})
	if wasActive {
		return c.Activate(c.store.tabs[0].ID)
	}
	return nil
}

// UpdateTabContent shallow-merges p into the descriptor, re-renders its panel
// and publishes tabContentUpdated.
func (c *Controller) UpdateTabContent(id int, p Patch) error {
	if c.store.Index(id) < 0 {
		return c.fail(&ConfigurationError{Context: ContextUpdate, TabID: id, Reason: "unknown tab"})
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return c.fail(&ConfigurationError{Context: ContextUpdate, TabID: id, Reason: "title is required"})
	}

	d, _ := c.store.merge(id, p)
	if t := c.trigger(id); t != nil {
		t.Label = d.Title
	}
	if panel, ok := c.panels[id]; ok {
		active := panel.Active
		*panel = Render(d, c.store.Index(id), c.store.templates)
		panel.Active = active
	}

	c.log.V(1).Info("tab content updated", "tabId", id)
	c.bus.Publish(events.TabContentUpdated, events.Detail{"tabId": id, "newConfig": d.Config()})
	return nil
}

// RenderAll regenerates every panel from the store, keeping the active
// markers.
func (c *Controller) RenderAll() error {
	for _, d := range c.store.tabs {
		if c.trigger(d.ID) == nil || c.panels[d.ID] == nil {
			return c.fail(&IntegrationError{
				Context: ContextRefresh,
				TabID:   d.ID,
				Missing: missingParts(c.trigger(d.ID), c.panels[d.ID]),
			})
		}
	}
	c.renderAll()
	return nil
}

func (c *Controller) renderAll() {
	for i, d := range c.store.tabs {
		p := Render(d, i, c.store.templates)
		p.Active = d.ID == c.active
		c.panels[d.ID] = &p
	}
}

// Destroy releases the input bindings. The active selection is kept.
func (c *Controller) Destroy() {
	if c.binder != nil {
		c.binder.UnbindTabs()
	}
}

// ActiveTabID returns the active tab, or false between teardown and the
// first activation.
func (c *Controller) ActiveTabID() (int, bool) {
	return c.active, c.active != 0
}

// ActivePanel returns a copy of the active tab's panel.
func (c *Controller) ActivePanel() (Panel, bool) {
	return c.Panel(c.active)
}

// Panel returns a copy of the panel for id.
func (c *Controller) Panel(id int) (Panel, bool) {
	p, ok := c.panels[id]
	if !ok {
		return Panel{}, false
	}
	return p.Clone(), true
}

// Triggers returns copies of the triggers in navigation order.
func (c *Controller) Triggers() []Trigger {
	out := make([]Trigger, len(c.triggers))
	for i, t := range c.triggers {
		out[i] = *t
	}
	return out
}

// Tabs returns the stored descriptors in order.
func (c *Controller) Tabs() []Descriptor {
	return c.store.Tabs()
}

// Len returns the number of tabs.
func (c *Controller) Len() int {
	return c.store.Len()
}

// FocusedTabID returns the tab whose trigger has keyboard focus.
func (c *Controller) FocusedTabID() int {
	return c.focus.Current
}

// FocusNext moves trigger focus right, wrapping at the end.
func (c *Controller) FocusNext() int { return c.focus.Next() }

// FocusPrev moves trigger focus left, wrapping at the start.
func (c *Controller) FocusPrev() int { return c.focus.Prev() }

// FocusFirst moves trigger focus to the first tab.
func (c *Controller) FocusFirst() int { return c.focus.First() }

// FocusLast moves trigger focus to the last tab.
func (c *Controller) FocusLast() int { return c.focus.Last() }

// SetFocus focuses the trigger for id without activating it.
func (c *Controller) SetFocus(id int) bool { return c.focus.SetFocus(id) }

// ActivateFocused activates the tab whose trigger has focus.
func (c *Controller) ActivateFocused() error {
	return c.Activate(c.focus.Current)
}

// OnFocusChange registers a callback for trigger focus moves.
func (c *Controller) OnFocusChange(fn func(from, to int)) {
	c.focus.OnChange = fn
}

func (c *Controller) trigger(id int) *Trigger {
	for _, t := range c.triggers {
		if t.TabID == id {
			return t
		}
	}
	return nil
}

func (c *Controller) syncFocusOrder() {
	order := make([]int, len(c.triggers))
	for i, t := range c.triggers {
		order[i] = t.TabID
	}
	c.focus.Order = order
}

func (c *Controller) bindInputs() {
	if c.binder == nil {
		return
	}
	c.binder.UnbindTabs()
	for i, t := range c.triggers {
		if i >= MaxBoundTabs {
			break
		}
		c.binder.BindTab(strconv.Itoa(i+1), t.TabID)
	}
}

func (c *Controller) fail(err error) error {
	context := ErrorContext(err)
	c.log.Error(err, "tab operation failed", "context", context)
	c.bus.Error(context, err)
	return err
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfg *ConfigurationError
	return errors.As(err, &cfg)
}

// IsIntegrationError reports whether err is an IntegrationError.
func IsIntegrationError(err error) bool {
	var integ *IntegrationError
	return errors.As(err, &integ)
}
