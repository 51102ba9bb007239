// Package runlist renders the main screen: the repository bar, the filter
// box, and the workflow run rows with a moving cursor.
package runlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

// Context carries everything the screen needs: RepoName is the selected
// repository's owner/name, FilterView the rendered filter input, and Runs
// the already-filtered list.
type Context struct {
	Width      int
	Height     int
	RepoName   string
	RepoIndex  int
	RepoCount  int
	FilterView string
	Runs       []model.Run
	Cursor     int
	Loading    bool
	Err        string
	Spinner    string
}

func Render(ctx Context) string {
	var b strings.Builder

	repo := ctx.RepoName
	if repo == "" {
		repo = "no repositories"
	}
	pos := ""
	if ctx.RepoCount > 1 {
		pos = ui.StyleMuted.Render(fmt.Sprintf("  (%d/%d, tab to switch)", ctx.RepoIndex+1, ctx.RepoCount))
	}
	b.WriteString(ui.StylePane.Width(ctx.Width - 2).Render(" " + ui.StyleTitle.Render(repo) + pos))
	b.WriteString("\n")

	b.WriteString(ui.StylePane.Width(ctx.Width - 2).Render(" " + ctx.FilterView))
	b.WriteString("\n")

	switch {
	case ctx.Loading && len(ctx.Runs) == 0:
		b.WriteString(fmt.Sprintf("\n  %s %s\n", ctx.Spinner, ui.StyleWarning.Render("Loading...")))
	case ctx.Err != "":
		b.WriteString("\n  " + ui.StyleFailure.Render("Error: "+ctx.Err) + "\n")
	case len(ctx.Runs) == 0:
		b.WriteString("\n  " + ui.StyleMuted.Render("No workflow runs found") + "\n")
	default:
		b.WriteString(renderRuns(ctx))
	}

	return b.String()
}

func renderRuns(ctx Context) string {
	// Rows left over after repo bar, filter box and padding.
	visible := ctx.Height - 8
	if visible < 1 {
		visible = 1
	}
	start := 0
	if ctx.Cursor >= visible {
		start = ctx.Cursor - visible + 1
	}
	end := start + visible
	if end > len(ctx.Runs) {
		end = len(ctx.Runs)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		r := ctx.Runs[i]
		icon := ui.StatusIcon(string(r.Conclusion))
		if r.Status != model.RunStatusCompleted {
			icon = ui.StatusIcon(string(r.Status))
		}
		line := fmt.Sprintf(" %s #%-5d %s  %s  %s",
			icon,
			r.RunNumber,
			ui.StyleInfo.Render(r.HeadBranch),
			r.Name,
			ui.StyleMuted.Render(formatAge(time.Since(r.CreatedAt))))
		if i == ctx.Cursor {
			line = ui.StyleSelected.Width(ctx.Width - 2).Render("›" + line)
		} else {
			line = " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func formatAge(d time.Duration) string {
	if d < time.Minute {
		return "<1m ago"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
