package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-logr/logr"

	"paneldeck/internal/dashboard"
	"paneldeck/internal/events"
	"paneldeck/internal/keys"
	"paneldeck/internal/overlay"
	"paneldeck/internal/tabs"
	"paneldeck/internal/ui/textutil"
)

// historySize is how many bus events the model keeps for the notification
// panel.
const historySize = 20

// maxTabLabel caps a tab title in the tab bar.
const maxTabLabel = 20

// Options configures an AppModel.
type Options struct {
	Title    string
	Store    *tabs.Store
	Settings dashboard.Settings
	Notices  []Notice
	Account  Account
	Sink     dashboard.SettingsSink
	Session  dashboard.SessionSink
	Bus      *events.Bus
	Logger   logr.Logger
	// Scheduler drives the timer display. Nil runs it on the Bubble Tea
	// loop with tea.Tick.
	Scheduler     overlay.Scheduler
	TimerInterval time.Duration
	Clock         func() time.Time
	Mouse         bool
	Context       context.Context
}

// AppModel is the root model. It owns one dashboard session and translates
// keys, mouse presses and timer ticks into dashboard operations.
type AppModel struct {
	Dash *dashboard.Dashboard
	Keys *keys.Handler

	title       string
	ctx         context.Context
	log         logr.Logger
	focus       *focusHost
	sched       *teaScheduler
	history     *events.History
	mouse       bool
	accountInfo Account
	noticeCount int

	panel         *PanelView
	settingsForm  *SettingsForm
	notifications *NotificationPanel
	account       *AccountMenu
	confirm       *ConfirmModal

	width, height int
	frame         string
	status        string
	statusErr     bool
	buttons       map[string]overlay.Rect
	tabRects      map[int]overlay.Rect

	reload      bool
	quitting    bool
	unsubscribe []func()
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// New builds the model and initializes its dashboard.
func New(opts Options) (*AppModel, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("ui: store is required")
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Title == "" {
		opts.Title = "paneldeck"
	}

	m := &AppModel{
		title:       opts.Title,
		ctx:         opts.Context,
		log:         opts.Logger.WithName("ui"),
		history:     events.NewHistory(historySize),
		mouse:       opts.Mouse,
		accountInfo: opts.Account,
		noticeCount: len(opts.Notices),
		panel:       NewPanelView(),
		width:       80,
		height:      24,
		buttons:     make(map[string]overlay.Rect),
		tabRects:    make(map[int]overlay.Rect),
	}
	reg := keys.NewRegistry()
	m.Keys = keys.NewHandler(reg)
	m.focus = &focusHost{exists: m.elementExists}

	sched := opts.Scheduler
	if sched == nil {
		m.sched = newTeaScheduler()
		sched = m.sched
	}

	dash, err := dashboard.New(dashboard.Options{
		Store:         opts.Store,
		Settings:      opts.Settings,
		Sink:          opts.Sink,
		Session:       opts.Session,
		Reload:        dashboard.ReloadFunc(m.requestReload),
		Focus:         m.focus,
		Binder:        &tabBinder{registry: reg},
		Scheduler:     sched,
		Bus:           opts.Bus,
		Logger:        opts.Logger,
		Clock:         opts.Clock,
		TimerInterval: opts.TimerInterval,
	})
	if err != nil {
		return nil, err
	}
	m.Dash = dash
	m.notifications = NewNotificationPanel(opts.Notices, m.history)
	m.account = NewAccountMenu(opts.Account)
	m.bindKeys(reg)

	m.unsubscribe = append(m.unsubscribe,
		opts.Bus.Subscribe(m.history),
		opts.Bus.Subscribe(events.ListenerFunc(m.onEvent)),
	)
	dash.Tabs().OnFocusChange(func(_, to int) {
		m.focus.Focus(dashboard.TabTrigger(to))
	})
	m.focus.OnChange = func(_, to string) {
		if id, ok := dashboard.ParseTabTrigger(to); ok {
			dash.Tabs().SetFocus(id)
		}
	}

	if err := dash.Init(); err != nil {
		m.Close()
		return nil, err
	}
	m.sync()
	return m, nil
}

// Model returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) Model() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// ReloadRequested reports whether the session ended with a reload request
// (SPC R, or a completed log out) rather than a quit.
func (m *AppModel) ReloadRequested() bool { return m.reload }

// Close destroys the dashboard and detaches the model from the bus.
func (m *AppModel) Close() {
	m.Dash.Destroy()
	for _, cancel := range m.unsubscribe {
		cancel()
	}
	m.unsubscribe = nil
}

// Status returns the status line text and whether it reports an error.
func (m *AppModel) Status() (string, bool) { return m.status, m.statusErr }

func (m *AppModel) bindKeys(reg *keys.Registry) {
	msg := func(v tea.Msg) tea.Cmd { return func() tea.Msg { return v } }

	reg.BindWithDesc("SPC s", msg(toggleSurfaceMsg{Name: dashboard.SurfaceSettings}), "Settings")
	reg.BindWithDesc("SPC n", msg(toggleSurfaceMsg{Name: dashboard.SurfaceNotifications}), "Notifications")
	reg.BindWithDesc("SPC a", msg(toggleSurfaceMsg{Name: dashboard.SurfaceAccount}), "Account")
	reg.BindWithDesc("SPC t", msg(toggleTimerMsg{}), "Timer")
	reg.BindForMode("SPC r", msg(refreshMsg{}), "Refresh", []keys.Mode{ModeWorkspace})
	reg.BindForMode("SPC R", msg(reloadMsg{}), "Reload", []keys.Mode{ModeWorkspace})
	reg.BindForMode("SPC x", msg(removeTabMsg{}), "Remove tab", []keys.Mode{ModeWorkspace})
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	reg.Bind("left", msg(focusTabMsg{Move: movePrev}))
	reg.Bind("right", msg(focusTabMsg{Move: moveNext}))
	reg.Bind("home", msg(focusTabMsg{Move: moveFirst}))
	reg.Bind("end", msg(focusTabMsg{Move: moveLast}))
	reg.Bind("enter", msg(activateFocusedMsg{}))
	reg.Bind("q", tea.Quit)
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.panel.Init(), a.drain())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.sync()
	cmds := []tea.Cmd{cmd, a.drain()}
	if a.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	if a.quitting {
		return ""
	}
	return a.frame
}

func (m *AppModel) drain() tea.Cmd {
	if m.sched == nil {
		return nil
	}
	return m.sched.drain()
}

func (m *AppModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case schedTickMsg:
		if m.sched != nil {
			m.sched.fire(msg)
		}
	case DismissModalMsg:
		m.Dash.Overlays().Escape()
	case toggleSurfaceMsg:
		m.toggleSurface(msg.Name)
	case closeSurfaceMsg:
		if s, ok := m.Dash.Overlays().Surface(msg.Name); ok {
			s.Close()
		}
	case toggleTimerMsg:
		m.Dash.Timer().Toggle()
	case refreshMsg:
		_ = m.Dash.Refresh()
	case reloadMsg:
		m.Dash.AutoRefresh()
	case removeTabMsg:
		_ = m.Dash.RemoveActiveTab()
	case focusTabMsg:
		m.moveTabFocus(msg.Move)
	case activateFocusedMsg:
		return m.activateFocused()
	case activateTabMsg:
		_ = m.Dash.Tabs().Activate(msg.ID)
	case saveSettingsMsg:
		_ = m.Dash.SaveSettings(m.ctx, msg.Settings)
	case requestLogoutMsg:
		m.confirm = NewLogoutConfirmModal(m.accountInfo)
		m.Dash.RequestLogout(triggerFor(dashboard.SurfaceLogout))
	case confirmLogoutMsg:
		_ = m.Dash.ConfirmLogout(m.ctx)
	case cancelLogoutMsg:
		m.Dash.CancelLogout()
	}
	return nil
}

// handleKey routes a key: ctrl+c always quits, the leader handler sees keys
// unless a modal dialog is on top, Esc dismisses the top surface and
// everything else goes to the top surface or to the panel.
func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := msg.String()
	if s == "ctrl+c" {
		m.quitting = true
		return nil
	}

	top, open := m.Dash.Overlays().Top()
	if !open || m.Keys.LeaderWaiting || (s == m.Keys.LeaderKey && !m.isModal(top.Name())) {
		m.Keys.Mode = m.mode()
		if consumed, cmd := m.Keys.Handle(msg); consumed {
			return cmd
		}
	}
	if s == "esc" {
		m.Dash.Overlays().Escape()
		return nil
	}
	if open {
		if v := m.surfaceView(top.Name()); v != nil {
			_, cmd := v.Update(msg)
			return cmd
		}
		return nil
	}
	_, cmd := m.panel.Update(msg)
	return cmd
}

func (m *AppModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.mouse {
		return nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		_, cmd := m.panel.Update(msg)
		return cmd
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.click(msg.X, msg.Y)
	}
	return nil
}

// click dismisses surfaces the press landed outside of, then hands the press
// to the surface or control under it. A press that closed a dialog goes no
// further.
func (m *AppModel) click(x, y int) tea.Cmd {
	coord := m.Dash.Overlays()
	closed := coord.PointerDown(x, y)
	for _, name := range coord.OpenSurfaces() {
		s, _ := coord.Surface(name)
		if b := s.Bounds(); b.Contains(x, y) {
			return m.clickSurface(name, y-b.Y)
		}
	}
	for _, name := range closed {
		if m.isModal(name) {
			return nil
		}
	}
	for id, r := range m.buttons {
		if r.Contains(x, y) {
			m.focus.Focus(id)
			return m.press(id)
		}
	}
	for id, r := range m.tabRects {
		if r.Contains(x, y) {
			_ = m.Dash.Tabs().Activate(id)
			return nil
		}
	}
	return nil
}

func (m *AppModel) clickSurface(name string, y int) tea.Cmd {
	switch name {
	case dashboard.SurfaceSettings:
		if m.settingsForm != nil {
			return m.settingsForm.Click(y)
		}
	case dashboard.SurfaceAccount:
		return m.account.Click(y)
	}
	return nil
}

// press runs a toolbar control.
func (m *AppModel) press(id string) tea.Cmd {
	switch id {
	case dashboard.TriggerSettings:
		m.toggleSurface(dashboard.SurfaceSettings)
	case dashboard.TriggerNotifications:
		m.toggleSurface(dashboard.SurfaceNotifications)
	case dashboard.TriggerAccount:
		m.toggleSurface(dashboard.SurfaceAccount)
	case dashboard.TriggerTimer:
		m.Dash.Timer().Toggle()
	case dashboard.TriggerRefresh:
		_ = m.Dash.Refresh()
	}
	return nil
}

func (m *AppModel) toggleSurface(name string) {
	s, ok := m.Dash.Overlays().Surface(name)
	if !ok {
		return
	}
	if !s.IsOpen() && name == dashboard.SurfaceSettings {
		m.settingsForm = NewSettingsForm(m.Dash.Settings())
	}
	s.Toggle(triggerFor(name))
}

func (m *AppModel) moveTabFocus(move tabMove) {
	t := m.Dash.Tabs()
	switch move {
	case movePrev:
		t.FocusPrev()
	case moveNext:
		t.FocusNext()
	case moveFirst:
		t.FocusFirst()
	case moveLast:
		t.FocusLast()
	}
	// The ring may already sit on the target while a toolbar control holds
	// focus.
	if id := t.FocusedTabID(); id != 0 {
		m.focus.Focus(dashboard.TabTrigger(id))
	}
}

// activateFocused presses the focused toolbar control or activates the
// focused tab.
func (m *AppModel) activateFocused() tea.Cmd {
	focused := m.focus.Focused()
	if _, ok := m.buttons[focused]; ok {
		return m.press(focused)
	}
	_ = m.Dash.Tabs().ActivateFocused()
	return nil
}

func (m *AppModel) surfaceView(name string) View {
	switch name {
	case dashboard.SurfaceSettings:
		if m.settingsForm != nil {
			return m.settingsForm
		}
	case dashboard.SurfaceNotifications:
		return m.notifications
	case dashboard.SurfaceAccount:
		return m.account
	case dashboard.SurfaceLogout:
		if m.confirm != nil {
			return m.confirm
		}
	}
	return nil
}

func (m *AppModel) requestReload() {
	m.reload = true
	m.quitting = true
}

// elementExists reports whether id is on screen: toolbar controls always
// are, tab triggers while their tab exists and focus targets while their
// surface is open.
func (m *AppModel) elementExists(id string) bool {
	if m.Dash == nil {
		return false
	}
	switch id {
	case dashboard.TriggerSettings, dashboard.TriggerNotifications, dashboard.TriggerAccount,
		dashboard.TriggerTimer, dashboard.TriggerRefresh:
		return true
	case dashboard.FocusSettingsForm:
		return m.Dash.SettingsModal().IsOpen()
	case dashboard.FocusNotifications:
		return m.Dash.NotificationPanel().IsOpen()
	case dashboard.FocusAccountMenu:
		return m.Dash.AccountMenu().IsOpen()
	case dashboard.FocusLogoutConfirm:
		return m.Dash.LogoutConfirm().IsOpen()
	}
	if tabID, ok := dashboard.ParseTabTrigger(id); ok {
		for _, t := range m.Dash.Tabs().Triggers() {
			if t.TabID == tabID {
				return true
			}
		}
	}
	return false
}

// onEvent keeps the status line in step with the bus.
func (m *AppModel) onEvent(evt events.Event) error {
	text := describe(evt)
	if text == "" {
		return nil
	}
	m.status = text
	m.statusErr = evt.Name == events.DashboardError
	return nil
}

func describe(evt events.Event) string {
	switch evt.Name {
	case events.DashboardError:
		return fmt.Sprintf("error (%s): %s", evt.String("context"), evt.String("message"))
	case events.TabChanged:
		return "Showing " + evt.String("tabTitle")
	case events.TabAdded:
		return "Added tab"
	case events.TabRemoved:
		return "Removed tab"
	case events.TabContentUpdated:
		return "Updated tab"
	case events.DashboardRefreshed:
		return "Refreshed"
	case events.TimerStarted:
		return "Timer started"
	case events.TimerStopped:
		if d, ok := evt.Detail["elapsedTime"].(time.Duration); ok {
			return "Timer stopped at " + overlay.FormatElapsed(d)
		}
		return "Timer stopped"
	case events.SettingsSaved:
		return "Settings saved"
	case events.LogoutRequested:
		return "Logging out"
	}
	return ""
}

// isModal reports whether the named surface takes every key while it is on
// top. Scroll-blocking surfaces are the modal ones.
func (m *AppModel) isModal(name string) bool {
	s, ok := m.Dash.Overlays().Surface(name)
	return ok && s.Spec().ScrollBlocking
}

func (m *AppModel) mode() keys.Mode {
	if m.Dash.Overlays().AnyOpen() {
		return ModeOverlay
	}
	return ModeWorkspace
}

// sync refreshes the panel from the controller and redraws the frame.
// Geometry recorded while drawing is what mouse presses are tested against.
func (m *AppModel) sync() {
	if p, ok := m.Dash.Tabs().ActivePanel(); ok {
		m.panel.SetPanel(p)
	} else {
		m.panel.SetPanel(tabs.Panel{})
	}
	m.panel.SetLocked(m.Dash.Overlays().ScrollLocked())
	m.frame = m.render()
}

func (m *AppModel) render() string {
	w, h := m.width, m.height
	help := ""
	if m.Keys.LeaderWaiting {
		help = keys.RenderHelp(m.Keys, m.mode(), w)
	}
	l := layout{width: w, height: h}
	if help != "" {
		l.helpHeight = lipgloss.Height(help)
	}
	content := l.content()
	m.panel.SetSize(content.W, content.H)

	lines := []string{m.renderToolbar(w), m.renderTabBar(w)}
	lines = append(lines, fitLines(m.panel.View(), content.H)...)
	if help != "" {
		lines = append(lines, help)
	}
	lines = append(lines, m.renderStatus(w))
	return m.composite(strings.Join(lines, "\n"), w, h)
}

type toolbarButton struct {
	id     string
	label  string
	active bool
}

func (m *AppModel) renderToolbar(w int) string {
	d := m.Dash
	accountLabel := m.accountInfo.Name
	if accountLabel == "" {
		accountLabel = "Account"
	}
	buttons := []toolbarButton{
		{dashboard.TriggerTimer, d.Timer().Display(), d.Timer().Running()},
		{dashboard.TriggerRefresh, "Refresh", false},
		{dashboard.TriggerSettings, "Settings", d.SettingsModal().IsOpen()},
		{dashboard.TriggerNotifications, fmt.Sprintf("Alerts %d", m.noticeCount), d.NotificationPanel().IsOpen()},
		{dashboard.TriggerAccount, accountLabel, d.AccountMenu().IsOpen()},
	}

	focused := m.focus.Focused()
	rendered := make([]string, len(buttons))
	total := 0
	for i, b := range buttons {
		style := Styles.Button
		switch {
		case b.active:
			style = Styles.ButtonActive
		case b.id == focused:
			style = Styles.ButtonFocused
		}
		rendered[i] = style.Render("[" + b.label + "]")
		total += lipgloss.Width(rendered[i])
	}
	total += len(buttons) - 1

	title := Styles.Toolbar.Render(m.title)
	x := max(w-total, lipgloss.Width(title)+1)
	for i, b := range buttons {
		bw := lipgloss.Width(rendered[i])
		m.buttons[b.id] = overlay.Rect{X: x, Y: 0, W: bw, H: 1}
		x += bw + 1
	}
	d.SettingsModal().SetTriggerBounds(m.buttons[dashboard.TriggerSettings])
	d.NotificationPanel().SetTriggerBounds(m.buttons[dashboard.TriggerNotifications])
	d.AccountMenu().SetTriggerBounds(m.buttons[dashboard.TriggerAccount])

	gap := max(w-total-lipgloss.Width(title), 1)
	return ansi.Truncate(title+strings.Repeat(" ", gap)+strings.Join(rendered, " "), w, "")
}

func (m *AppModel) renderTabBar(w int) string {
	clear(m.tabRects)
	focused := m.focus.Focused()
	var b strings.Builder
	x := 0
	for i, t := range m.Dash.Tabs().Triggers() {
		style := Styles.Tab
		switch {
		case dashboard.TabTrigger(t.TabID) == focused:
			style = Styles.TabFocused
			if t.Active {
				style = style.Bold(true).Foreground(lipgloss.Color(ColorHighlight))
			}
		case t.Active:
			style = Styles.TabActive
		}
		label := textutil.Truncate(t.Label, maxTabLabel)
		if i < tabs.MaxBoundTabs {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		cell := style.Render(label)
		cw := lipgloss.Width(cell)
		m.tabRects[t.TabID] = overlay.Rect{X: x, Y: 1, W: cw, H: 1}
		b.WriteString(cell)
		x += cw
	}
	if x == 0 {
		return Styles.Empty.Render("No tabs")
	}
	return ansi.Truncate(b.String(), w, "")
}

func (m *AppModel) renderStatus(w int) string {
	style := Styles.Status
	if m.statusErr {
		style = Styles.Error
	}
	hint := Styles.Hint.Render("SPC: commands  q: quit")
	text := style.Render(m.status)
	gap := max(w-lipgloss.Width(text)-lipgloss.Width(hint), 1)
	return ansi.Truncate(text+strings.Repeat(" ", gap)+hint, w, "")
}

// composite draws the open surfaces over base, oldest first, and records
// the region each one covers.
func (m *AppModel) composite(base string, w, h int) string {
	coord := m.Dash.Overlays()
	open := coord.OpenSurfaces()
	for i := len(open) - 1; i >= 0; i-- {
		name := open[i]
		s, _ := coord.Surface(name)
		v := m.surfaceView(name)
		if v == nil {
			s.SetBounds(overlay.Rect{})
			continue
		}
		fg := v.View()
		var r overlay.Rect
		switch name {
		case dashboard.SurfaceNotifications, dashboard.SurfaceAccount:
			anchor := m.buttons[triggerFor(name)]
			x := anchor.X + anchor.W - lipgloss.Width(fg)
			base, r = placeOverlay(base, fg, w, h, x, anchor.Y+1)
		default:
			base, r = placeCentered(base, fg, w, h)
		}
		s.SetBounds(r)
	}
	return base
}

// fitLines pads or cuts s to exactly n lines.
func fitLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
