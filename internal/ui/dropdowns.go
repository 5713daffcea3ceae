package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/dashboard"
	"paneldeck/internal/events"
	"paneldeck/internal/ui/textutil"
)

// Notice is one entry in the notification panel.
type Notice struct {
	Title string
	Body  string
}

// Account is the profile shown in the account menu.
type Account struct {
	Name  string
	Email string
}

// recentActivity is how many bus events the notification panel lists.
const recentActivity = 5

// dropdownWidth caps the text columns of the toolbar dropdowns.
const dropdownWidth = 40

// NotificationPanel lists the configured notices and the latest workspace
// events.
type NotificationPanel struct {
	notices  []Notice
	history  *events.History
	selected int
}

var _ View = (*NotificationPanel)(nil)

// NewNotificationPanel creates the panel. history may be nil.
func NewNotificationPanel(notices []Notice, history *events.History) *NotificationPanel {
	return &NotificationPanel{notices: notices, history: history}
}

// Init implements View.
func (p *NotificationPanel) Init() tea.Cmd { return nil }

// Update implements View.
func (p *NotificationPanel) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(p.notices) == 0 {
		return p, nil
	}
	switch km.String() {
	case "up", "k":
		p.selected = (p.selected - 1 + len(p.notices)) % len(p.notices)
	case "down", "j":
		p.selected = (p.selected + 1) % len(p.notices)
	}
	return p, nil
}

// View implements View.
func (p *NotificationPanel) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Notifications"))
	b.WriteString("\n")
	if len(p.notices) == 0 {
		b.WriteString(Styles.Empty.Render("Nothing new"))
		b.WriteString("\n")
	}
	for i, n := range p.notices {
		style := Styles.Normal
		if i == p.selected {
			style = Styles.Selected
		}
		b.WriteString(style.Render("• " + textutil.Truncate(n.Title, dropdownWidth-2)))
		b.WriteString("\n")
		if n.Body != "" {
			b.WriteString(Styles.Muted.Render("  " + textutil.Truncate(n.Body, dropdownWidth-2)))
			b.WriteString("\n")
		}
	}

	if p.history != nil {
		evts := p.history.Events()
		if len(evts) > recentActivity {
			evts = evts[len(evts)-recentActivity:]
		}
		if len(evts) > 0 {
			b.WriteString("\n")
			b.WriteString(Styles.Section.Render("Recent activity"))
			for i := len(evts) - 1; i >= 0; i-- {
				b.WriteString("\n")
				b.WriteString(Styles.Hint.Render(evts[i].Timestamp.Format("15:04:05") + " " + string(evts[i].Name)))
			}
		}
	}
	return Styles.Dropdown.Render(strings.TrimRight(b.String(), "\n"))
}

// accountItems are the account menu entries in display order.
var accountItems = []string{"Settings", "Log out"}

// accountMenuTop is the number of lines above the first menu item: the
// border, name, email and a blank line.
const accountMenuTop = 4

// AccountMenu shows the profile and the settings / log out entries.
type AccountMenu struct {
	account  Account
	selected int
}

var _ View = (*AccountMenu)(nil)

// NewAccountMenu creates the menu for account.
func NewAccountMenu(account Account) *AccountMenu {
	return &AccountMenu{account: account}
}

// Init implements View.
func (m *AccountMenu) Init() tea.Cmd { return nil }

// Update implements View.
func (m *AccountMenu) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "up", "k":
		m.selected = (m.selected - 1 + len(accountItems)) % len(accountItems)
	case "down", "j":
		m.selected = (m.selected + 1) % len(accountItems)
	case "enter":
		return m, m.choose(m.selected)
	}
	return m, nil
}

// Click chooses the item at line y of the menu box, counted from the top
// border.
func (m *AccountMenu) Click(y int) tea.Cmd {
	i := y - accountMenuTop
	if i < 0 || i >= len(accountItems) {
		return nil
	}
	m.selected = i
	return m.choose(i)
}

func (m *AccountMenu) choose(i int) tea.Cmd {
	switch accountItems[i] {
	case "Settings":
		return func() tea.Msg { return toggleSurfaceMsg{Name: dashboard.SurfaceSettings} }
	case "Log out":
		return func() tea.Msg { return requestLogoutMsg{} }
	}
	return nil
}

// View implements View.
func (m *AccountMenu) View() string {
	var b strings.Builder
	name := m.account.Name
	if name == "" {
		name = "Guest"
	}
	b.WriteString(Styles.Title.Render(textutil.Truncate(name, dropdownWidth)))
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render(textutil.Truncate(m.account.Email, dropdownWidth)))
	b.WriteString("\n")
	for i, item := range accountItems {
		b.WriteString("\n")
		if i == m.selected {
			b.WriteString(Styles.Selected.Render("> " + item))
		} else {
			b.WriteString(Styles.Normal.Render(fmt.Sprintf("  %s", item)))
		}
	}
	return Styles.Dropdown.Render(b.String())
}
