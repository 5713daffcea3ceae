// Package events carries dashboard state changes to listeners. A Bus stamps
// each published event with an ID and timestamp and delivers it
// synchronously; listener failures are logged and never reach the publisher.
package events

import (
	"time"
)

// Name identifies an entry in the event catalog.
type Name string

// Workspace lifecycle and tab events.
const (
	DashboardInitialized Name = "dashboardInitialized"
	DashboardRefreshed   Name = "dashboardRefreshed"
	DashboardDestroyed   Name = "dashboardDestroyed"
	DashboardError       Name = "dashboardError"
	TabChanged           Name = "tabChanged"
	TabAdded             Name = "tabAdded"
	TabRemoved           Name = "tabRemoved"
	TabContentUpdated    Name = "tabContentUpdated"
	TimerStarted         Name = "timerStarted"
	TimerStopped         Name = "timerStopped"
	SettingsSaved        Name = "settingsSaved"
	LogoutRequested      Name = "logoutRequested"
)

// Opened returns the event published when the named surface opens
// (e.g. "settingsModal" -> "settingsModalOpened").
func Opened(surface string) Name {
	return Name(surface + "Opened")
}

// Closed returns the event published when the named surface closes.
func Closed(surface string) Name {
	return Name(surface + "Closed")
}

// Detail is the payload carried by an event. Keys follow the catalog
// (tabId, tabTitle, tabCount, message, context, ...).
type Detail map[string]any

// Event is one broadcast on the Bus.
type Event struct {
	ID        string
	Name      Name
	Detail    Detail
	Timestamp time.Time
}

// String returns the detail value for key as a string, or "" when absent.
func (e Event) String(key string) string {
	v, ok := e.Detail[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Int returns the detail value for key as an int.
// The second result is false when the key is absent or not an int.
func (e Event) Int(key string) (int, bool) {
	v, ok := e.Detail[key].(int)
	return v, ok
}

// Listener receives every event published on a Bus.
// A returned error is logged by the bus and never reaches the publisher.
type Listener interface {
	Notify(evt Event) error
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(evt Event) error

// Notify implements Listener.
func (f ListenerFunc) Notify(evt Event) error {
	return f(evt)
}
