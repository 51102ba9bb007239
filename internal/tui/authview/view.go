// Package authview renders the sign-in screen for the device flow.
package authview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type Context struct {
	Width      int
	Height     int
	Challenge  *model.DeviceCodeChallenge
	Err        string
	Requesting bool // device code request in flight
	Spinner    string
}

var codeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#F9FAFB")).
	Background(ui.ColorHighlight).
	Padding(0, 2)

func Render(ctx Context) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(ui.StyleTitle.Render("  Sign in to GitHub"))
	b.WriteString("\n\n")

	switch {
	case ctx.Challenge != nil:
		b.WriteString("  Visit ")
		b.WriteString(ui.StyleInfo.Render(ctx.Challenge.VerificationURI))
		b.WriteString(" and enter:\n\n")
		b.WriteString("  " + codeStyle.Render(ctx.Challenge.UserCode))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  %s %s\n", ctx.Spinner, ui.StyleMuted.Render("Waiting for authorization...")))
	case ctx.Requesting:
		b.WriteString(fmt.Sprintf("  %s %s\n", ctx.Spinner, ui.StyleMuted.Render("Requesting device code...")))
	case ctx.Err != "":
		b.WriteString("  " + ui.StyleFailure.Render("Error: "+ctx.Err))
		b.WriteString("\n\n")
		b.WriteString("  " + ui.StyleMuted.Render("[Enter] Try again"))
		b.WriteString("\n")
	default:
		b.WriteString("  " + ui.StyleMuted.Render("[Enter] Sign in with GitHub"))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(ctx.Width).Render(b.String())
}
