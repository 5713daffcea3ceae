package ui

import "paneldeck/internal/dashboard"

// DismissModalMsg is sent when a dialog is dismissed with Esc.
type DismissModalMsg struct{}

// toggleSurfaceMsg opens or closes a named surface from its toolbar trigger
// (SPC s, SPC n, SPC a or a click).
type toggleSurfaceMsg struct {
	Name string
}

// closeSurfaceMsg closes a named surface from its own close control.
type closeSurfaceMsg struct {
	Name string
}

// toggleTimerMsg starts or stops the timer (SPC t).
type toggleTimerMsg struct{}

// refreshMsg regenerates every panel (SPC r).
type refreshMsg struct{}

// reloadMsg restarts the view (SPC R).
type reloadMsg struct{}

// removeTabMsg removes the active tab (SPC x).
type removeTabMsg struct{}

// focusTabMsg moves trigger focus along the tab bar.
type focusTabMsg struct {
	Move tabMove
}

type tabMove int

const (
	movePrev tabMove = iota
	moveNext
	moveFirst
	moveLast
)

// activateFocusedMsg activates the tab whose trigger has focus (Enter).
type activateFocusedMsg struct{}

// saveSettingsMsg is sent by the settings form's save control.
type saveSettingsMsg struct {
	Settings dashboard.Settings
}

// requestLogoutMsg opens the logout confirmation from the account menu.
type requestLogoutMsg struct{}

// confirmLogoutMsg is sent when the logout confirmation is accepted.
type confirmLogoutMsg struct{}

// cancelLogoutMsg is sent when the logout confirmation is declined.
type cancelLogoutMsg struct{}
