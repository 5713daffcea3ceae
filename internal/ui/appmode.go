package ui

import (
	"paneldeck/internal/dashboard"
	"paneldeck/internal/keys"
)

// Key modes. The workspace mode applies while no surface is open; leader
// hints for workspace-only bindings are hidden once one opens.
const (
	ModeWorkspace keys.Mode = "workspace"
	ModeOverlay   keys.Mode = "overlay"
)

// triggerFor returns the element a surface opened by key or message records
// as its trigger.
func triggerFor(name string) string {
	switch name {
	case dashboard.SurfaceSettings:
		return dashboard.TriggerSettings
	case dashboard.SurfaceNotifications:
		return dashboard.TriggerNotifications
	case dashboard.SurfaceAccount:
		return dashboard.TriggerAccount
	case dashboard.SurfaceLogout:
		return dashboard.FocusAccountMenu
	}
	return ""
}
