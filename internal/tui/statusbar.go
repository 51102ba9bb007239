package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kasli/gh-actions-panel/internal/ui"
)

func RenderStatusBar(status, hints string, width int) string {
	left := ui.StyleMuted.Render("  " + status)
	right := ui.StyleMuted.Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + right)
}
