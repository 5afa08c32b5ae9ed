package cmd

import "github.com/charmbracelet/lipgloss"

// Centralized styles for consistent UX across views.
var (
	appTitle     = "obstail"
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Background(lipgloss.Color("57")).Padding(0, 1)
	tabStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("247"))
	activeTab    = tabStyle.Bold(true).Foreground(lipgloss.Color("51")).Background(lipgloss.Color("236"))
	contentStyle = lipgloss.NewStyle().Padding(1, 2)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	errTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func tabs(current string, width int) string {
	names := []string{"table", "pick"}
	var rendered []string
	for _, n := range names {
		if n == current {
			rendered = append(rendered, activeTab.Render(n))
		} else {
			rendered = append(rendered, tabStyle.Render(n))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if width > 0 {
		// Ensure line doesn't overflow; truncate softly.
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
