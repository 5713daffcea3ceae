package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal is a generic confirmation dialog.
// Enter or y confirms; n cancels; Esc dismisses.
type ConfirmModal struct {
	Title       string
	Label       string
	Details     string // Optional warning details
	OnConfirm   func() tea.Msg
	OnCancel    func() tea.Msg
	boxStyle    lipgloss.Style
	titleStyle  lipgloss.Style
	detailStyle lipgloss.Style
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a generic confirmation dialog.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:       title,
		Label:       label,
		OnConfirm:   onConfirm,
		boxStyle:    Styles.BoxDanger,
		titleStyle:  Styles.TitleWarning,
		detailStyle: Styles.Details,
	}
}

// WithDetails adds warning details to the dialog.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewLogoutConfirmModal creates the logout confirmation for account.
func NewLogoutConfirmModal(account Account) *ConfirmModal {
	label := "You will be signed out."
	if account.Name != "" {
		label = "Signed in as " + account.Name
	}
	m := NewConfirmModal("Log out?", label, func() tea.Msg { return confirmLogoutMsg{} })
	m.OnCancel = func() tea.Msg { return cancelLogoutMsg{} }
	return m.WithDetails("The workspace will reload.")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		case "n":
			if m.OnCancel != nil {
				return m, m.OnCancel
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + m.detailStyle.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  n: cancel  Esc: close")
	return m.boxStyle.Render(content)
}
