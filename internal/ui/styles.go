package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#06B6D4")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#EAB308")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleSelected = lipgloss.NewStyle().Background(ColorHighlight)
)

func ConclusionStyle(conclusion string) lipgloss.Style {
	switch conclusion {
	case "success":
		return StyleSuccess
	case "failure", "timed_out":
		return StyleFailure
	case "cancelled", "action_required":
		return StyleWarning
	case "skipped", "neutral":
		return StyleMuted
	default:
		return StyleInfo
	}
}

// StatusIcon renders a one-character badge for a run/job/step state.
// Pass the conclusion when completed, otherwise the status.
func StatusIcon(state string) string {
	switch state {
	case "success":
		return StyleSuccess.Render("V")
	case "failure", "timed_out":
		return StyleFailure.Render("X")
	case "cancelled", "action_required":
		return StyleWarning.Render("!")
	case "skipped", "neutral":
		return StyleMuted.Render("-")
	case "in_progress":
		return StyleInfo.Render("*")
	case "queued", "waiting", "pending", "requested":
		return StyleMuted.Render("o")
	default:
		return StyleMuted.Render("?")
	}
}
