package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/dashboard"
	"paneldeck/internal/events"
	"paneldeck/internal/overlay/overlaytest"
	"paneldeck/internal/tabs"
)

type testApp struct {
	*AppModel
	model  tea.Model
	hist   *events.History
	manual *overlaytest.ManualScheduler
	saved  []dashboard.Settings
	logout int
	quit   bool
}

func testTabs() []tabs.Descriptor {
	return []tabs.Descriptor{
		{ID: 1, Title: "Japan", Attributes: map[string]string{tabs.AttrCountryCode: "JP", tabs.AttrCountryName: "Japan", tabs.AttrCategory: "Asia"}},
		{ID: 2, Title: "Brazil", Attributes: map[string]string{tabs.AttrCountryCode: "BR", tabs.AttrCountryName: "Brazil", tabs.AttrCategory: "Americas"}},
		{ID: 3, Title: "Germany", Attributes: map[string]string{tabs.AttrCountryCode: "DE", tabs.AttrCountryName: "Germany", tabs.AttrCategory: "Europe"}},
	}
}

func testTemplates() tabs.Templates {
	return tabs.Templates{
		Main: tabs.RowTemplate{
			{{Label: "Country", Marker: tabs.MarkerCountry}, {Label: "Region", Marker: tabs.MarkerCategory}, {Label: "Status", Value: "Open"}},
		},
		Section: tabs.RowTemplate{
			{{Label: "Lead", Value: "Ana"}, {Label: "Size", Value: "4"}},
		},
		SectionTitle: "Team",
	}
}

func newTestApp(t *testing.T, configure ...func(*Options, *testApp)) *testApp {
	t.Helper()
	ta := &testApp{
		hist:   events.NewHistory(100),
		manual: overlaytest.NewManualScheduler(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)),
	}
	bus := events.NewBus()
	bus.Subscribe(ta.hist)
	opts := Options{
		Title:    "Test deck",
		Store:    tabs.NewStore(testTabs(), testTemplates()),
		Settings: dashboard.DefaultSettings("billing", "digest", "security"),
		Notices:  []Notice{{Title: "Release", Body: "v2 is out"}},
		Account:  Account{Name: "Ana", Email: "ana@example.com"},
		Sink: dashboard.SettingsFunc(func(_ context.Context, s dashboard.Settings) error {
			ta.saved = append(ta.saved, s)
			return nil
		}),
		Session: dashboard.SessionFunc(func(context.Context) error {
			ta.logout++
			return nil
		}),
		Bus:       bus,
		Scheduler: ta.manual,
		Clock:     ta.manual.Clock,
		Mouse:     true,
	}
	for _, fn := range configure {
		fn(&opts, ta)
	}
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	ta.AppModel = m
	ta.model = m.Model()
	ta.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	return ta
}

// send delivers msg and every message its commands produce, in order.
func (ta *testApp) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("message loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		_, cmd := ta.model.Update(next)
		for _, out := range runCmd(cmd) {
			if _, ok := out.(tea.QuitMsg); ok {
				ta.quit = true
				continue
			}
			queue = append(queue, out)
		}
	}
}

func (ta *testApp) keys(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		ta.send(t, keyMsg(k))
	}
}

func (ta *testApp) clickAt(t *testing.T, x, y int) {
	t.Helper()
	ta.send(t, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func (ta *testApp) count(name events.Name) int {
	return len(ta.hist.Named(name))
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// keyMsg creates a tea.KeyMsg for testing.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNew_ActivatesFirstTab(t *testing.T) {
	ta := newTestApp(t)
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 1 {
		t.Errorf("active tab = %d, want 1", id)
	}
	if got := ta.focus.Focused(); got != dashboard.TabTrigger(1) {
		t.Errorf("focus = %q, want tab-1", got)
	}
	view := ta.model.View()
	for _, want := range []string{"Test deck", "1 Japan", "2 Brazil", "Team", "Showing Japan"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if ta.count(events.DashboardInitialized) != 1 {
		t.Error("expected dashboardInitialized")
	}
}

func TestNew_RequiresStore(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error without a store")
	}
}

func TestDigitKeyActivatesTab(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, "3")
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 3 {
		t.Errorf("active tab = %d, want 3", id)
	}
	if !strings.Contains(ta.model.View(), "Showing Germany") {
		t.Error("status line should name the new tab")
	}
}

func TestArrowKeysMoveFocusEnterActivates(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, "right", "right")
	if got := ta.focus.Focused(); got != dashboard.TabTrigger(3) {
		t.Fatalf("focus = %q, want tab-3", got)
	}
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 1 {
		t.Errorf("moving focus must not activate; active = %d", id)
	}
	ta.keys(t, "right")
	if got := ta.focus.Focused(); got != dashboard.TabTrigger(1) {
		t.Errorf("focus should wrap to tab-1, got %q", got)
	}
	ta.keys(t, "left", "enter")
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 3 {
		t.Errorf("active tab = %d, want 3", id)
	}
}

func TestLeaderOpensSettingsAndEscRestoresFocus(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ")
	if !ta.Keys.LeaderWaiting {
		t.Fatal("expected leader mode after SPC")
	}
	if !strings.Contains(ta.model.View(), "Settings") {
		t.Error("leader help should list Settings")
	}
	ta.keys(t, "s")
	if !ta.Dash.SettingsModal().IsOpen() {
		t.Fatal("SPC s should open settings")
	}
	if got := ta.focus.Focused(); got != dashboard.FocusSettingsForm {
		t.Errorf("focus = %q, want settings form", got)
	}
	if !ta.Dash.Overlays().ScrollLocked() {
		t.Error("settings should block scrolling")
	}
	if !strings.Contains(ta.model.View(), "Email settings") {
		t.Error("settings dialog should be drawn")
	}

	ta.keys(t, "esc")
	if ta.Dash.SettingsModal().IsOpen() {
		t.Fatal("Esc should close settings")
	}
	if got := ta.focus.Focused(); got != dashboard.TriggerSettings {
		t.Errorf("focus = %q, want settings button", got)
	}
	if ta.Dash.Overlays().ScrollLocked() {
		t.Error("scrolling should resume")
	}
	if ta.count(events.Opened(dashboard.SurfaceSettings)) != 1 || ta.count(events.Closed(dashboard.SurfaceSettings)) != 1 {
		t.Error("expected one opened and one closed event")
	}
}

func TestEscCancelsLeaderBeforeSurface(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "n")
	if !ta.Dash.NotificationPanel().IsOpen() {
		t.Fatal("SPC n should open notifications")
	}
	ta.keys(t, " ", "esc")
	if ta.Keys.LeaderWaiting {
		t.Error("Esc should leave leader mode")
	}
	if !ta.Dash.NotificationPanel().IsOpen() {
		t.Error("Esc in leader mode must not close the panel")
	}
	ta.keys(t, "esc")
	if ta.Dash.NotificationPanel().IsOpen() {
		t.Error("second Esc should close the panel")
	}
}

func TestSettingsFormSaves(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "s")
	// First flag is "billing": turn it off, then move to Save.
	ta.keys(t, " ")
	form := ta.settingsForm
	for i := 0; i < 10 && form.Cursor() != form.saveRow(); i++ {
		ta.keys(t, "down")
	}
	ta.keys(t, "enter")

	if len(ta.saved) != 1 {
		t.Fatalf("sink called %d times, want 1", len(ta.saved))
	}
	if ta.saved[0].Notifications["billing"] {
		t.Error("billing should be saved as off")
	}
	if ta.Dash.SettingsModal().IsOpen() {
		t.Error("saving should close the dialog")
	}
	if ta.Dash.Settings().Notifications["billing"] {
		t.Error("dashboard should keep the saved settings")
	}
	if ta.count(events.SettingsSaved) != 1 {
		t.Error("expected settingsSaved")
	}
}

func TestSettingsSaveFailureShowsError(t *testing.T) {
	ta := newTestApp(t, func(o *Options, _ *testApp) {
		o.Sink = dashboard.SettingsFunc(func(context.Context, dashboard.Settings) error {
			return errors.New("disk full")
		})
	})
	ta.keys(t, " ", "s")
	ta.send(t, saveSettingsMsg{Settings: ta.settingsForm.Draft()})

	if ta.Dash.SettingsModal().IsOpen() {
		t.Error("dialog closes even when the sink fails")
	}
	text, isErr := ta.Status()
	if !isErr || !strings.Contains(text, dashboard.ContextSettingsSave) {
		t.Errorf("status = %q (error %v), want settings-save error", text, isErr)
	}
	if ta.count(events.SettingsSaved) != 0 {
		t.Error("settingsSaved must not be published")
	}
}

func TestModalTakesSpaceKey(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "s", " ")
	if ta.Keys.LeaderWaiting {
		t.Error("space inside the settings dialog must not start leader mode")
	}
	if ta.settingsForm.Draft().Notifications["billing"] {
		t.Error("space should toggle the selected flag")
	}
}

func TestAccountMenuLogoutFlow(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "a")
	if !ta.Dash.AccountMenu().IsOpen() {
		t.Fatal("SPC a should open the account menu")
	}
	ta.keys(t, "down", "enter")
	if !ta.Dash.LogoutConfirm().IsOpen() {
		t.Fatal("Log out should open the confirmation")
	}
	if got := ta.focus.Focused(); got != dashboard.FocusLogoutConfirm {
		t.Errorf("focus = %q, want logout confirm", got)
	}

	ta.keys(t, "y")
	if ta.logout != 1 {
		t.Errorf("session sink called %d times, want 1", ta.logout)
	}
	if ta.Dash.Overlays().AnyOpen() {
		t.Error("every surface should close on log out")
	}
	if !ta.ReloadRequested() || !ta.quit {
		t.Error("log out should reload the view")
	}
	if ta.count(events.LogoutRequested) != 1 {
		t.Error("expected logoutRequested")
	}
}

func TestLogoutCancelReturnsToMenu(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "a", "down", "enter", "n")
	if ta.Dash.LogoutConfirm().IsOpen() {
		t.Error("n should dismiss the confirmation")
	}
	if !ta.Dash.AccountMenu().IsOpen() {
		t.Error("the account menu stays open")
	}
	if got := ta.focus.Focused(); got != dashboard.FocusAccountMenu {
		t.Errorf("focus = %q, want account menu", got)
	}
	if ta.logout != 0 || ta.quit {
		t.Error("cancel must not log out")
	}
}

func TestAccountMenuOpensSettings(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "a", "enter")
	if !ta.Dash.SettingsModal().IsOpen() {
		t.Fatal("Settings item should open the dialog")
	}
	if ta.Dash.AccountMenu().IsOpen() {
		t.Error("opening settings closes the account menu")
	}
}

func TestTimerTicksOnScheduler(t *testing.T) {
	ta := newTestApp(t)
	if !strings.Contains(ta.model.View(), "[Start timer]") {
		t.Error("timer button should show its label")
	}
	ta.keys(t, " ", "t")
	if !ta.Dash.Timer().Running() {
		t.Fatal("SPC t should start the timer")
	}
	ta.manual.Advance(61 * time.Second)
	ta.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(ta.model.View(), "00:01:01") {
		t.Error("toolbar should show the elapsed time")
	}
	ta.keys(t, " ", "t")
	if ta.Dash.Timer().Running() || ta.manual.Active() != 0 {
		t.Error("second SPC t should stop the timer and cancel its task")
	}
	if text, _ := ta.Status(); !strings.Contains(text, "00:01:01") {
		t.Errorf("status = %q, want elapsed time", text)
	}
}

func TestRemoveActiveTab(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, "2", " ", "x")
	if ta.Dash.Tabs().Len() != 2 {
		t.Fatalf("tabs = %d, want 2", ta.Dash.Tabs().Len())
	}
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 1 {
		t.Errorf("active tab = %d, want 1", id)
	}
	if strings.Contains(ta.model.View(), "Brazil") {
		t.Error("removed tab should leave the tab bar")
	}
}

func TestWorkspaceCommandsIgnoredWhileDropdownOpen(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "n")
	if !ta.Dash.NotificationPanel().IsOpen() {
		t.Fatal("notification panel should be open")
	}
	ta.keys(t, " ", "x")
	if ta.Dash.Tabs().Len() != 3 {
		t.Errorf("tabs = %d, want 3", ta.Dash.Tabs().Len())
	}
	if n := ta.count(events.TabRemoved); n != 0 {
		t.Errorf("tabRemoved published %d times", n)
	}

	ta.keys(t, "esc", " ", "x")
	if ta.Dash.Tabs().Len() != 2 {
		t.Errorf("tabs = %d after closing the panel, want 2", ta.Dash.Tabs().Len())
	}
}

func TestReloadQuits(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, " ", "R")
	if !ta.ReloadRequested() || !ta.quit {
		t.Error("SPC R should request a reload")
	}
	if ta.model.View() != "" {
		t.Error("view should be blank once quitting")
	}
}

func TestQuitKeys(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, "q")
	if !ta.quit || ta.ReloadRequested() {
		t.Error("q should quit without reload")
	}

	ta = newTestApp(t)
	ta.keys(t, " ", "s", "ctrl+c")
	if !ta.quit {
		t.Error("ctrl+c quits even with a dialog open")
	}
}

func TestMouseToolbarAndOutsideClick(t *testing.T) {
	ta := newTestApp(t)
	btn := ta.buttons[dashboard.TriggerNotifications]
	if btn.Empty() {
		t.Fatal("notifications button not drawn")
	}
	ta.clickAt(t, btn.X, btn.Y)
	if !ta.Dash.NotificationPanel().IsOpen() {
		t.Fatal("clicking the button should open the panel")
	}
	if got := ta.focus.Focused(); got != dashboard.FocusNotifications {
		t.Errorf("focus = %q, want notification list", got)
	}
	if ta.Dash.NotificationPanel().Bounds().Empty() {
		t.Error("panel bounds should be recorded when drawn")
	}

	b := ta.Dash.NotificationPanel().Bounds()
	ta.clickAt(t, b.X+1, b.Y+1)
	if !ta.Dash.NotificationPanel().IsOpen() {
		t.Error("clicking inside keeps the panel open")
	}

	ta.clickAt(t, 0, 20)
	if ta.Dash.NotificationPanel().IsOpen() {
		t.Error("clicking outside closes the panel")
	}
	if got := ta.focus.Focused(); got != dashboard.TriggerNotifications {
		t.Errorf("focus = %q, want notifications button", got)
	}
}

func TestMouseTriggerToggles(t *testing.T) {
	ta := newTestApp(t)
	btn := ta.buttons[dashboard.TriggerAccount]
	ta.clickAt(t, btn.X, btn.Y)
	if !ta.Dash.AccountMenu().IsOpen() {
		t.Fatal("expected account menu open")
	}
	btn = ta.buttons[dashboard.TriggerAccount]
	ta.clickAt(t, btn.X, btn.Y)
	if ta.Dash.AccountMenu().IsOpen() {
		t.Error("clicking the trigger again closes the menu")
	}
}

func TestMouseSwitchesDropdowns(t *testing.T) {
	ta := newTestApp(t)
	notes := ta.buttons[dashboard.TriggerNotifications]
	ta.clickAt(t, notes.X, notes.Y)
	acct := ta.buttons[dashboard.TriggerAccount]
	ta.clickAt(t, acct.X, acct.Y)
	if ta.Dash.NotificationPanel().IsOpen() {
		t.Error("notifications should close on an outside click")
	}
	if !ta.Dash.AccountMenu().IsOpen() {
		t.Error("the same click opens the account menu")
	}
}

func TestMouseTabClick(t *testing.T) {
	ta := newTestApp(t)
	r := ta.tabRects[2]
	ta.clickAt(t, r.X+1, r.Y)
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 2 {
		t.Errorf("active tab = %d, want 2", id)
	}
}

func TestMouseSettingsForm(t *testing.T) {
	ta := newTestApp(t)
	btn := ta.buttons[dashboard.TriggerSettings]
	ta.clickAt(t, btn.X, btn.Y)
	if !ta.Dash.SettingsModal().IsOpen() {
		t.Fatal("expected settings open")
	}
	b := ta.Dash.SettingsModal().Bounds()
	ta.clickAt(t, b.X+3, b.Y+settingsFormTop)
	if ta.settingsForm.Draft().Notifications["billing"] {
		t.Error("clicking the first row should toggle billing")
	}

	// A press outside a dialog closes it and reaches nothing behind.
	r := ta.tabRects[3]
	ta.clickAt(t, r.X+1, r.Y)
	if ta.Dash.SettingsModal().IsOpen() {
		t.Error("outside click should close settings")
	}
	if id, _ := ta.Dash.Tabs().ActiveTabID(); id != 1 {
		t.Errorf("tab behind the dialog was activated: %d", id)
	}
	if len(ta.saved) != 0 {
		t.Error("dismissing must not save")
	}
}

func TestMouseDisabled(t *testing.T) {
	ta := newTestApp(t, func(o *Options, _ *testApp) { o.Mouse = false })
	btn := ta.buttons[dashboard.TriggerSettings]
	ta.clickAt(t, btn.X, btn.Y)
	if ta.Dash.SettingsModal().IsOpen() {
		t.Error("mouse input should be ignored")
	}
}

func TestNotificationPanelListsActivity(t *testing.T) {
	ta := newTestApp(t)
	ta.keys(t, "2", " ", "n")
	view := ta.model.View()
	for _, want := range []string{"Release", "Recent activity", string(events.TabChanged)} {
		if !strings.Contains(view, want) {
			t.Errorf("notification panel missing %q", want)
		}
	}
}
