package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kasli/gh-actions-panel/internal/ui"
)

func RenderHeader(repo string, authenticated bool, width int) string {
	title := " gh-actions-panel"
	if repo != "" {
		title += " | " + repo
	}
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(title)

	right := ""
	if authenticated {
		right = ui.StyleSuccess.Render("● signed in ")
	} else {
		right = ui.StyleMuted.Render("○ signed out ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(ui.ColorHighlight).
		Width(width).
		Render(left + padding + right)
}
