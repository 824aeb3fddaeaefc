package present

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#20B9B4")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A89")
)

// Styles used by the printer
var Styles = struct {
	Title      lipgloss.Style
	Section    lipgloss.Style
	Token      lipgloss.Style
	Muted      lipgloss.Style
	Result     lipgloss.Style
	Error      lipgloss.Style
	Unexpected lipgloss.Style
	Box        lipgloss.Style
}{
	Title:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Section:    lipgloss.NewStyle().Bold(true).Underline(true),
	Token:      lipgloss.NewStyle().Foreground(colorAccent).Width(12),
	Muted:      lipgloss.NewStyle().Foreground(colorMuted),
	Result:     lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
	Error:      lipgloss.NewStyle().Foreground(colorWarning),
	Unexpected: lipgloss.NewStyle().Bold(true).Foreground(colorError),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}
