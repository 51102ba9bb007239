// Package rundetail renders a run's header and its job/step tree. The
// highlight follows the flattened job/step selection the app maintains.
package rundetail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/nav"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type Context struct {
	Width   int
	Height  int
	Run     model.Run
	Jobs    []model.Job
	Items   []nav.SelectionItem
	Cursor  int
	Loading bool
	Err     string
	Spinner string
}

func Render(ctx Context) string {
	var b strings.Builder

	r := ctx.Run
	b.WriteString(" " + ui.StyleTitle.Render(fmt.Sprintf("Run #%d: %s", r.RunNumber, r.Name)))
	b.WriteString("\n\n")

	state := string(r.Conclusion)
	if state == "" {
		state = string(r.Status)
	}
	b.WriteString(fmt.Sprintf(" %s %s   %s %s   %s %s   %s %s\n",
		ui.StyleMuted.Render("Status:"), ui.ConclusionStyle(state).Render(state),
		ui.StyleMuted.Render("Branch:"), ui.StyleInfo.Render(r.HeadBranch),
		ui.StyleMuted.Render("Event:"), r.Event,
		ui.StyleMuted.Render("Commit:"), ui.StyleWarning.Render(r.ShortSHA())))

	started := r.RunStartedAt
	if started.IsZero() {
		started = r.CreatedAt
	}
	b.WriteString(fmt.Sprintf(" %s %s   %s %s\n\n",
		ui.StyleMuted.Render("Started:"), started.Local().Format("2006-01-02 15:04:05"),
		ui.StyleMuted.Render("Duration:"), formatDuration(r.Duration())))

	b.WriteString(" " + lipgloss.NewStyle().Bold(true).Render("Jobs:"))
	b.WriteString("\n")

	switch {
	case ctx.Loading && len(ctx.Jobs) == 0:
		b.WriteString(fmt.Sprintf("  %s %s\n", ctx.Spinner, ui.StyleWarning.Render("Loading jobs...")))
	case ctx.Err != "":
		b.WriteString("  " + ui.StyleFailure.Render("Error: "+ctx.Err) + "\n")
	case len(ctx.Jobs) == 0:
		b.WriteString("  " + ui.StyleMuted.Render("No jobs found") + "\n")
	default:
		b.WriteString(renderTree(ctx))
	}

	return b.String()
}

func renderTree(ctx Context) string {
	lines := make([]string, 0, len(ctx.Items))
	for idx, item := range ctx.Items {
		var line string
		if item.Kind == nav.ItemJob {
			job := ctx.Jobs[item.JobIndex]
			line = fmt.Sprintf(" %s %s %s",
				jobIcon(job.Status, job.Conclusion),
				job.Name,
				ui.StyleMuted.Render("("+formatDuration(job.Duration())+")"))
		} else {
			step := ctx.Jobs[item.JobIndex].Steps[item.StepIndex]
			line = fmt.Sprintf("    %s %s %s",
				jobIcon(step.Status, step.Conclusion),
				step.Name,
				ui.StyleMuted.Render(formatDuration(step.Duration())))
		}
		if idx == ctx.Cursor {
			line = ui.StyleSelected.Width(ctx.Width - 2).Render("›" + line)
		} else {
			line = " " + line
		}
		lines = append(lines, line)
	}

	// Keep the highlighted row inside the visible window.
	visible := ctx.Height - 10
	if visible < 1 {
		visible = 1
	}
	start := 0
	if ctx.Cursor >= visible {
		start = ctx.Cursor - visible + 1
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n") + "\n"
}

func jobIcon(status model.RunStatus, conclusion model.RunConclusion) string {
	if status == model.RunStatusCompleted {
		return ui.StatusIcon(string(conclusion))
	}
	return ui.StatusIcon(string(status))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Truncate(time.Second)
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if mins == 0 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", mins, secs)
}
