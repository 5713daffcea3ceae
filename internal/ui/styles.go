package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for selected items, borders
	ColorDanger    = "196" // Red - for warnings, errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorDim       = "243" // Darker gray - for very dim text
	ColorWarning   = "208" // Orange - for warning details
	ColorShadow    = "236"
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style

	Box       lipgloss.Style // Standard dialog box
	BoxDanger lipgloss.Style // Destructive confirmation box
	Dropdown  lipgloss.Style // Toolbar dropdowns (notifications, account)

	Toolbar       lipgloss.Style
	Button        lipgloss.Style
	ButtonActive  lipgloss.Style
	ButtonFocused lipgloss.Style

	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	TabFocused lipgloss.Style

	Heading    lipgloss.Style
	Section    lipgloss.Style
	CellLabel  lipgloss.Style
	CellValue  lipgloss.Style
	TableFrame lipgloss.Color

	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Empty    lipgloss.Style
	Label    lipgloss.Style
	Details  lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2),
	Dropdown: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	Toolbar: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	ButtonActive: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	ButtonFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Underline(true),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	TabActive: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Padding(0, 1),
	TabFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Underline(true).
		Padding(0, 1),
	Heading: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Section: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	CellLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	CellValue: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	TableFrame: lipgloss.Color(ColorDim),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Label: lipgloss.NewStyle(),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}
