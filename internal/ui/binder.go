package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/keys"
	"paneldeck/internal/tabs"
)

// activateTabMsg asks the model to activate a tab.
type activateTabMsg struct {
	ID int
}

// tabBinder attaches the digit keys for tab triggers to the key registry.
type tabBinder struct {
	registry *keys.Registry
	bound    []string
}

var _ tabs.Binder = (*tabBinder)(nil)

// BindTab implements tabs.Binder.
func (b *tabBinder) BindTab(key string, tabID int) {
	b.registry.BindWithDesc(key, func() tea.Msg { return activateTabMsg{ID: tabID} }, "Tab "+strconv.Itoa(tabID))
	b.bound = append(b.bound, key)
}

// UnbindTabs implements tabs.Binder.
func (b *tabBinder) UnbindTabs() {
	for _, k := range b.bound {
		b.registry.Unbind(k)
	}
	b.bound = nil
}
