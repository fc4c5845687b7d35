package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the header line above the stage list.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	stageStyles = map[string]lipgloss.Style{
		"done":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"running": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"failed":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StageStyle returns the lipgloss style for a stage state.
func StageStyle(state string) lipgloss.Style {
	if s, ok := stageStyles[state]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
