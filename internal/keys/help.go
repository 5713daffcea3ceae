package keys

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap implements help.KeyMap over the leader hints for the handler's
// current sequence and mode.
type KeyMap struct {
	handler *Handler
	mode    Mode
}

// NewKeyMap creates a KeyMap for handler in mode.
func NewKeyMap(handler *Handler, mode Mode) help.KeyMap {
	return &KeyMap{handler: handler, mode: mode}
}

// ShortHelp returns the next keys, sorted, followed by esc.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	hints := km.handler.Registry.LeaderHints(km.handler.CurrentSeq(), km.mode)
	if len(hints) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, hints[k]),
		))
	}
	return append(bindings, key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	))
}

// FullHelp returns the short help as a single column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}

// RenderHelp produces the transient help box shown after SPC, or "" when
// there is nothing to show.
func RenderHelp(handler *Handler, mode Mode, width int) string {
	bindings := NewKeyMap(handler, mode).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	helpModel := help.New()
	helpModel.Width = width
	helpModel.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)
	helpModel.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	helpModel.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	prefix := handler.CurrentSeq()
	if prefix == "" {
		prefix = handler.LeaderSeq
	}
	return boxStyle.Render(labelStyle.Render(prefix) + " " + helpModel.ShortHelpView(bindings))
}
