package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"paneldeck/internal/tabs"
)

// PanelView shows the active tab's panel in a scrollable viewport.
type PanelView struct {
	panel    tabs.Panel
	viewport viewport.Model
	width    int
	height   int
	// locked suspends scrolling while a scroll-blocking surface is open.
	locked bool
}

// Ensure PanelView implements View
var _ View = (*PanelView)(nil)

// NewPanelView creates an empty panel view.
func NewPanelView() *PanelView {
	return &PanelView{viewport: viewport.New(80, 20), width: 80, height: 20}
}

// Init implements View
func (v *PanelView) Init() tea.Cmd {
	return v.viewport.Init()
}

// Update implements View
func (v *PanelView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.locked {
		return v, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			v.viewport.LineDown(1)
		case "up", "k":
			v.viewport.LineUp(1)
		case "pgdown":
			v.viewport.PageDown()
		case "pgup":
			v.viewport.PageUp()
		}
		return v, nil
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			v.viewport.LineDown(1)
		case tea.MouseButtonWheelUp:
			v.viewport.LineUp(1)
		}
		return v, nil
	}
	return v, nil
}

// View implements View
func (v *PanelView) View() string {
	return v.viewport.View()
}

// SetLocked suspends or resumes scrolling.
func (v *PanelView) SetLocked(locked bool) { v.locked = locked }

// SetSize updates the viewport dimensions.
func (v *PanelView) SetSize(width, height int) {
	v.width = width
	v.height = max(height, 1)
	v.viewport.Width = width
	v.viewport.Height = v.height
	v.refresh()
}

// SetPanel replaces the displayed panel. Switching tabs scrolls to the top.
func (v *PanelView) SetPanel(p tabs.Panel) {
	if p.TabID != v.panel.TabID {
		v.viewport.GotoTop()
	}
	v.panel = p
	v.refresh()
}

// YOffset returns the scroll position.
func (v *PanelView) YOffset() int { return v.viewport.YOffset }

func (v *PanelView) refresh() {
	v.viewport.SetContent(renderPanel(v.panel, v.width))
}

// renderPanel draws the heading, the main rows, the section heading and the
// section rows.
func renderPanel(p tabs.Panel, width int) string {
	if p.TabID == 0 {
		return Styles.Empty.Render("No active tab")
	}
	var parts []string
	parts = append(parts, Styles.Heading.Render(p.Heading))
	if len(p.Main) > 0 {
		parts = append(parts, renderRows(p.Main, width))
	}
	if p.SectionHeading != "" {
		parts = append(parts, "", Styles.Section.Render(p.SectionHeading))
	}
	if len(p.Section) > 0 {
		parts = append(parts, renderRows(p.Section, width))
	}
	return strings.Join(parts, "\n")
}

func renderRows(rows [][]tabs.Cell, width int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Styles.TableFrame)).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if width > 0 {
		t = t.Width(width)
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = renderCell(c)
		}
		t = t.Row(cells...)
	}
	return t.Render()
}

func renderCell(c tabs.Cell) string {
	if c.Empty() {
		return ""
	}
	value := c.Text
	if c.Image != "" {
		value = strings.TrimSpace(c.Image + " " + c.Text)
	}
	if c.Label == "" {
		return Styles.CellValue.Render(value)
	}
	return Styles.CellLabel.Render(c.Label) + "\n" + Styles.CellValue.Render(value)
}
