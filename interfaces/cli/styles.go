package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#B5813B")
	colorMuted  = lipgloss.Color("#7D7466")
	colorError  = lipgloss.Color("#C0392B")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title    lipgloss.Style
	Name     lipgloss.Style
	Muted    lipgloss.Style
	Branch   lipgloss.Style
	Heading  lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Name:     lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),
	Branch:   lipgloss.NewStyle().Foreground(colorMuted),
	Heading:  lipgloss.NewStyle().Bold(true).Underline(true),
	Error:    lipgloss.NewStyle().Foreground(colorError),
	Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}
