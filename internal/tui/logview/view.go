// Package logview renders a job's parsed log sections in a viewport.
package logview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kasli/gh-actions-panel/internal/logparse"
	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type Model struct {
	viewport viewport.Model
	title    string
	ready    bool
	loading  bool
	empty    bool
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, height int) {
	// Title and blank line above the viewport.
	vh := height - 2
	if vh < 1 {
		vh = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vh
	}
}

func (m *Model) SetLoading(jobName string) {
	m.title = "Job: " + jobName
	m.loading = true
	m.empty = false
}

// SetJobLogs shows every section of the job's log in order.
func (m *Model) SetJobLogs(job model.Job, raw string) {
	m.title = "Job: " + job.Name
	m.loading = false

	sections := logparse.Parse(raw)
	if len(sections) == 0 {
		m.empty = true
		return
	}
	m.empty = false

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ui.StyleWarning.Render("▸ " + s.Name))
		b.WriteString("\n")
		for _, line := range s.Lines {
			b.WriteString("  " + ui.StyleMuted.Render(line))
			b.WriteString("\n")
		}
	}
	m.setContent(b.String())
}

// SetStepLogs shows only the section matching the step, falling back to
// the whole cleaned log when no section matches.
func (m *Model) SetStepLogs(step model.Step, raw string) {
	m.title = "Step: " + step.Name
	m.loading = false

	lines := logparse.LogsForStep(raw, step)
	if len(lines) == 0 {
		m.empty = true
		return
	}
	m.empty = false

	var b strings.Builder
	for _, line := range lines {
		b.WriteString("  " + ui.StyleMuted.Render(line))
		b.WriteString("\n")
	}
	m.setContent(b.String())
}

// Update forwards key and mouse input to the viewport so long logs can
// be scrolled. Inert while loading or empty.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.ready || m.loading || m.empty {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setContent(content string) {
	if m.ready {
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
	}
}

func (m Model) View(spin string) string {
	var b strings.Builder
	b.WriteString(" " + ui.StyleTitle.Render(m.title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("  %s %s\n", spin, ui.StyleWarning.Render("Loading logs...")))
	case m.empty:
		b.WriteString("  " + ui.StyleMuted.Render("No logs available") + "\n")
	default:
		b.WriteString(m.viewport.View())
	}
	return b.String()
}
