// Package dashboard wires the tab controller, the overlay surfaces, the
// timer and the external sinks into one workspace with an init / refresh /
// destroy lifecycle.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"paneldeck/internal/events"
	"paneldeck/internal/overlay"
	"paneldeck/internal/tabs"
)

// Surface names. Each prefixes its Opened/Closed events.
const (
	SurfaceSettings      = "settingsModal"
	SurfaceNotifications = "notificationPanel"
	SurfaceAccount       = "accountMenu"
	SurfaceLogout        = "logoutConfirm"
)

// Element ids for toolbar triggers and surface focus targets.
const (
	TriggerSettings      = "settings-button"
	TriggerNotifications = "notifications-button"
	TriggerAccount       = "account-button"
	TriggerTimer         = "timer-button"
	TriggerRefresh       = "refresh-button"

	FocusSettingsForm  = "settings-form"
	FocusNotifications = "notification-list"
	FocusAccountMenu   = "account-menu"
	FocusLogoutConfirm = "logout-confirm"
)

// Error contexts for operations outside the tab controller.
const (
	ContextSettingsSave = "settings-save"
	ContextLogout       = "logout"
)

// ErrNotConfirmed is returned by ConfirmLogout when the confirmation dialog
// is not open.
var ErrNotConfirmed = errors.New("dashboard: logout was not confirmed")

const tabTriggerPrefix = "tab-"

// TabTrigger returns the element id of the trigger for tab id.
func TabTrigger(id int) string {
	return tabTriggerPrefix + strconv.Itoa(id)
}

// ParseTabTrigger returns the tab id named by a TabTrigger element id.
func ParseTabTrigger(elem string) (int, bool) {
	rest, ok := strings.CutPrefix(elem, tabTriggerPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Options configures a Dashboard.
type Options struct {
	Store     *tabs.Store
	Settings  Settings
	Sink      SettingsSink
	Session   SessionSink
	Reload    ReloadSignal
	Focus     overlay.FocusHost
	Binder    tabs.Binder
	Scheduler overlay.Scheduler
	Bus       *events.Bus
	Logger    logr.Logger
	Clock     func() time.Time
	// TimerInterval is the timer display refresh period.
	TimerInterval time.Duration
}

// Dashboard is the composition root of one workspace session.
type Dashboard struct {
	bus      *events.Bus
	log      logr.Logger
	tabs     *tabs.Controller
	overlays *overlay.Coordinator
	timer    *overlay.Timer

	settingsModal *overlay.Surface
	notifications *overlay.Surface
	account       *overlay.Surface
	logout        *overlay.Surface

	settings Settings
	sink     SettingsSink
	session  SessionSink
	reload   ReloadSignal

	initialized bool
	destroyed   bool
}

// New builds a dashboard. Nothing is rendered or published until Init.
func New(opts Options) (*Dashboard, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("dashboard: store is required")
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if opts.Sink == nil {
		opts.Sink = discardSettings{}
	}
	if opts.Session == nil {
		opts.Session = noSession{}
	}
	if opts.Reload == nil {
		opts.Reload = noReload{}
	}
	if opts.Settings.Preferences == (Preferences{}) {
		opts.Settings.Preferences = DefaultSettings().Preferences
	}

	d := &Dashboard{
		bus: opts.Bus,
		log: opts.Logger.WithName("dashboard"),
		tabs: tabs.NewController(opts.Store, tabs.Options{
			Bus:    opts.Bus,
			Binder: opts.Binder,
			Logger: opts.Logger,
		}),
		overlays: overlay.NewCoordinator(overlay.Options{
			Focus:  opts.Focus,
			Bus:    opts.Bus,
			Logger: opts.Logger,
			Clock:  opts.Clock,
		}),
		timer: overlay.NewTimer(overlay.TimerOptions{
			Scheduler: opts.Scheduler,
			Bus:       opts.Bus,
			Logger:    opts.Logger,
			Clock:     opts.Clock,
			Interval:  opts.TimerInterval,
		}),
		settings: opts.Settings.Clone(),
		sink:     opts.Sink,
		session:  opts.Session,
		reload:   opts.Reload,
	}

	specs := []struct {
		dst  **overlay.Surface
		spec overlay.Spec
	}{
		{&d.settingsModal, overlay.Spec{
			Name:           SurfaceSettings,
			InitialFocus:   FocusSettingsForm,
			ScrollBlocking: true,
			Excludes:       []string{SurfaceAccount, SurfaceNotifications},
		}},
		{&d.notifications, overlay.Spec{Name: SurfaceNotifications, InitialFocus: FocusNotifications}},
		{&d.account, overlay.Spec{Name: SurfaceAccount, InitialFocus: FocusAccountMenu}},
		{&d.logout, overlay.Spec{
			Name:           SurfaceLogout,
			InitialFocus:   FocusLogoutConfirm,
			ScrollBlocking: true,
			Parent:         SurfaceAccount,
		}},
	}
	for _, s := range specs {
		surface, err := d.overlays.Register(s.spec)
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		*s.dst = surface
	}
	return d, nil
}

// Init activates the first tab and publishes dashboardInitialized. A failed
// init is reported with context "initialization" and may be retried.
func (d *Dashboard) Init() error {
	if err := d.tabs.Start(); err != nil {
		return err
	}
	d.initialized = true
	d.destroyed = false
	d.log.Info("dashboard initialized", "tabs", d.tabs.Len())
	d.bus.Publish(events.DashboardInitialized, events.Detail{"tabCount": d.tabs.Len()})
	return nil
}

// Refresh regenerates every panel and publishes dashboardRefreshed.
func (d *Dashboard) Refresh() error {
	if !d.initialized {
		err := &tabs.IntegrationError{Context: tabs.ContextRefresh, Missing: "dashboard"}
		d.log.Error(err, "refresh before init")
		d.bus.Error(tabs.ContextRefresh, err)
		return err
	}
	if err := d.tabs.RenderAll(); err != nil {
		return err
	}
	d.log.V(1).Info("dashboard refreshed")
	d.bus.Publish(events.DashboardRefreshed, events.Detail{"tabCount": d.tabs.Len()})
	return nil
}

// Destroy stops the timer, closes every surface, releases input bindings and
// publishes dashboardDestroyed. The active tab is kept. Calling it again is a
// no-op.
func (d *Dashboard) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.timer.Stop()
	d.overlays.CloseAll()
	d.tabs.Destroy()
	d.log.Info("dashboard destroyed")
	d.bus.Publish(events.DashboardDestroyed, nil)
}

// Bus returns the session's event bus.
func (d *Dashboard) Bus() *events.Bus { return d.bus }

// Tabs returns the tab controller.
func (d *Dashboard) Tabs() *tabs.Controller { return d.tabs }

// Overlays returns the surface coordinator.
func (d *Dashboard) Overlays() *overlay.Coordinator { return d.overlays }

// Timer returns the start/stop timer control.
func (d *Dashboard) Timer() *overlay.Timer { return d.timer }

// Settings returns a copy of the last saved settings.
func (d *Dashboard) Settings() Settings { return d.settings.Clone() }

// SettingsModal returns the settings dialog surface.
func (d *Dashboard) SettingsModal() *overlay.Surface { return d.settingsModal }

// NotificationPanel returns the notification panel surface.
func (d *Dashboard) NotificationPanel() *overlay.Surface { return d.notifications }

// AccountMenu returns the account menu surface.
func (d *Dashboard) AccountMenu() *overlay.Surface { return d.account }

// LogoutConfirm returns the logout confirmation surface.
func (d *Dashboard) LogoutConfirm() *overlay.Surface { return d.logout }

// SaveSettings hands s to the settings sink, closes the settings dialog and
// publishes settingsSaved. A sink failure is reported as dashboardError
// after the dialog closes. Invalid settings are rejected before the sink is
// called and leave the dialog open.
func (d *Dashboard) SaveSettings(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return d.fail(ContextSettingsSave, err)
	}
	s = s.Clone()
	err := d.sink.Save(ctx, s)
	d.settingsModal.Close()
	if err != nil {
		return d.fail(ContextSettingsSave, fmt.Errorf("dashboard: save settings: %w", err))
	}
	d.settings = s
	d.log.Info("settings saved", "frequency", s.Preferences.Frequency, "time", s.Preferences.Time)
	d.bus.Publish(events.SettingsSaved, events.Detail{"settings": s.Detail()})
	return nil
}

// RequestLogout opens the logout confirmation from trigger.
func (d *Dashboard) RequestLogout(trigger string) {
	d.logout.Open(trigger)
}

// CancelLogout dismisses the confirmation without logging out.
func (d *Dashboard) CancelLogout() {
	d.logout.Close()
}

// ConfirmLogout ends the session once the confirmation dialog is open: every
// surface closes, logoutRequested is published, the session sink is called
// and the view is reloaded. A failed log out skips the reload.
func (d *Dashboard) ConfirmLogout(ctx context.Context) error {
	if !d.logout.IsOpen() {
		return d.fail(ContextLogout, ErrNotConfirmed)
	}
	d.overlays.CloseAll()
	d.log.Info("logout requested")
	d.bus.Publish(events.LogoutRequested, nil)
	if err := d.session.LogOut(ctx); err != nil {
		return d.fail(ContextLogout, fmt.Errorf("dashboard: log out: %w", err))
	}
	d.reload.Reload()
	return nil
}

// AutoRefresh restarts the view.
func (d *Dashboard) AutoRefresh() {
	d.log.Info("reload requested")
	d.reload.Reload()
}

// RemoveActiveTab removes the active tab; the first remaining tab becomes
// active.
func (d *Dashboard) RemoveActiveTab() error {
	id, ok := d.tabs.ActiveTabID()
	if !ok {
		return d.fail(tabs.ContextRemove, &tabs.ConfigurationError{Context: tabs.ContextRemove, Reason: "no active tab"})
	}
	return d.tabs.RemoveTab(id)
}

func (d *Dashboard) fail(context string, err error) error {
	d.log.Error(err, "dashboard operation failed", "context", context)
	d.bus.Error(context, err)
	return err
}
