package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/dashboard"
)

func TestSettingsForm_KeyboardCycles(t *testing.T) {
	f := NewSettingsForm(dashboard.DefaultSettings("alerts", "billing"))
	f.Update(keyMsg("down"))
	f.Update(keyMsg("down"))
	if f.Cursor() != f.frequencyRow() {
		t.Fatalf("cursor = %d, want frequency row", f.Cursor())
	}
	f.Update(keyMsg(" "))
	if got := f.Draft().Preferences.Frequency; got != dashboard.Weekly {
		t.Errorf("frequency = %s, want weekly", got)
	}
	f.Update(keyMsg("down"))
	f.Update(keyMsg("enter"))
	if got := f.Draft().Preferences.Time; got != dashboard.Afternoon {
		t.Errorf("time = %s, want afternoon", got)
	}
	f.Update(keyMsg("up"))
	f.Update(keyMsg("up"))
	f.Update(keyMsg("up"))
	f.Update(keyMsg("up"))
	if f.Cursor() != f.cancelRow() {
		t.Errorf("cursor should wrap to cancel, got %d", f.Cursor())
	}
}

func TestSettingsForm_DraftIsCopy(t *testing.T) {
	orig := dashboard.DefaultSettings("alerts")
	f := NewSettingsForm(orig)
	f.Click(settingsFormTop)
	if !orig.Notifications["alerts"] {
		t.Error("editing the form must not touch the original settings")
	}
	if f.Draft().Notifications["alerts"] {
		t.Error("click should toggle the first flag")
	}
}

func TestSettingsForm_SaveAndCancel(t *testing.T) {
	f := NewSettingsForm(dashboard.DefaultSettings("alerts"))
	cmd := f.Click(settingsFormTop + f.saveRow())
	msg, ok := cmd().(saveSettingsMsg)
	if !ok {
		t.Fatalf("save row should emit saveSettingsMsg")
	}
	if !msg.Settings.Notifications["alerts"] {
		t.Error("saved draft should carry the flags")
	}

	cmd = f.Click(settingsFormTop + f.cancelRow())
	if c, ok := cmd().(closeSurfaceMsg); !ok || c.Name != dashboard.SurfaceSettings {
		t.Errorf("cancel row should close the settings dialog, got %#v", cmd())
	}

	if f.Click(0) != nil || f.Click(settingsFormTop+f.rowCount()) != nil {
		t.Error("clicks outside the rows do nothing")
	}
}

func TestConfirmModal_Keys(t *testing.T) {
	m := NewLogoutConfirmModal(Account{Name: "Ana"})
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"y", confirmLogoutMsg{}},
		{"enter", confirmLogoutMsg{}},
		{"n", cancelLogoutMsg{}},
		{"esc", DismissModalMsg{}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(keyMsg(tt.key))
		if cmd == nil {
			t.Errorf("%s: no command", tt.key)
			continue
		}
		if got := cmd(); got != tt.want {
			t.Errorf("%s: got %#v, want %#v", tt.key, got, tt.want)
		}
	}
}

func TestAccountMenu_Click(t *testing.T) {
	m := NewAccountMenu(Account{Name: "Ana", Email: "ana@example.com"})
	if c, ok := m.Click(accountMenuTop)().(toggleSurfaceMsg); !ok || c.Name != dashboard.SurfaceSettings {
		t.Error("first item opens settings")
	}
	if _, ok := m.Click(accountMenuTop + 1)().(requestLogoutMsg); !ok {
		t.Error("second item requests log out")
	}
	if m.Click(1) != nil {
		t.Error("header lines are not items")
	}
}
