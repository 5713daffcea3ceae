package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/dashboard"
	"paneldeck/internal/ui/textutil"
)

// settingsFormTop is the number of lines above the first form row: the box
// border, the top padding, the title and a blank line.
const settingsFormTop = 4

// SettingsForm edits a draft copy of the settings. Space or Enter toggles a
// notification flag or cycles a selector; Enter on Save emits the draft.
type SettingsForm struct {
	draft  dashboard.Settings
	names  []string
	cursor int
}

var _ View = (*SettingsForm)(nil)

// NewSettingsForm creates a form over a copy of s.
func NewSettingsForm(s dashboard.Settings) *SettingsForm {
	s = s.Clone()
	return &SettingsForm{draft: s, names: s.NotificationNames()}
}

// Draft returns the edited settings.
func (f *SettingsForm) Draft() dashboard.Settings { return f.draft.Clone() }

// Cursor returns the selected row.
func (f *SettingsForm) Cursor() int { return f.cursor }

// rows: one per flag, then frequency, time, save, cancel.
func (f *SettingsForm) rowCount() int { return len(f.names) + 4 }

func (f *SettingsForm) frequencyRow() int { return len(f.names) }
func (f *SettingsForm) timeRow() int      { return len(f.names) + 1 }
func (f *SettingsForm) saveRow() int      { return len(f.names) + 2 }
func (f *SettingsForm) cancelRow() int    { return len(f.names) + 3 }

// Init implements View.
func (f *SettingsForm) Init() tea.Cmd { return nil }

// Update implements View.
func (f *SettingsForm) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}
	switch km.String() {
	case "esc":
		return f, func() tea.Msg { return DismissModalMsg{} }
	case "up", "k", "shift+tab":
		f.cursor = (f.cursor - 1 + f.rowCount()) % f.rowCount()
	case "down", "j", "tab":
		f.cursor = (f.cursor + 1) % f.rowCount()
	case " ", "enter":
		return f, f.activate(f.cursor)
	}
	return f, nil
}

// Click activates the row at line y of the form box, counted from the top
// border.
func (f *SettingsForm) Click(y int) tea.Cmd {
	row := y - settingsFormTop
	if row < 0 || row >= f.rowCount() {
		return nil
	}
	f.cursor = row
	return f.activate(row)
}

func (f *SettingsForm) activate(row int) tea.Cmd {
	switch {
	case row < len(f.names):
		name := f.names[row]
		f.draft.Notifications[name] = !f.draft.Notifications[name]
	case row == f.frequencyRow():
		f.draft.Preferences.Frequency = f.draft.Preferences.Frequency.Next()
	case row == f.timeRow():
		f.draft.Preferences.Time = f.draft.Preferences.Time.Next()
	case row == f.saveRow():
		s := f.draft.Clone()
		return func() tea.Msg { return saveSettingsMsg{Settings: s} }
	case row == f.cancelRow():
		return func() tea.Msg { return closeSurfaceMsg{Name: dashboard.SurfaceSettings} }
	}
	return nil
}

// View implements View.
func (f *SettingsForm) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Email settings"))
	b.WriteString("\n\n")

	line := func(row int, text string) {
		prefix := "  "
		style := Styles.Normal
		if row == f.cursor {
			prefix = "> "
			style = Styles.Selected
		}
		b.WriteString(style.Render(prefix + text))
		b.WriteString("\n")
	}
	for i, name := range f.names {
		box := "[ ]"
		if f.draft.Notifications[name] {
			box = "[x]"
		}
		line(i, fmt.Sprintf("%s %s", box, name))
	}
	line(f.frequencyRow(), fmt.Sprintf("%s< %s >", textutil.PadRight("Frequency:", 11), f.draft.Preferences.Frequency))
	line(f.timeRow(), fmt.Sprintf("%s< %s >", textutil.PadRight("Time:", 11), f.draft.Preferences.Time))
	line(f.saveRow(), "[ Save ]")
	line(f.cancelRow(), "[ Cancel ]")

	b.WriteString("\n")
	b.WriteString(Styles.Hint.Render("↑/↓: move  space: change  enter: select  esc: close"))
	return Styles.Box.Render(b.String())
}
