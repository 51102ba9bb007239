// Package tui wires the session store, auth flow, and polling scheduler
// into the bubbletea program and owns the keyboard dispatch.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/kasli/gh-actions-panel/internal/api"
	"github.com/kasli/gh-actions-panel/internal/auth"
	"github.com/kasli/gh-actions-panel/internal/config"
	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/nav"
	"github.com/kasli/gh-actions-panel/internal/poll"
	"github.com/kasli/gh-actions-panel/internal/session"
	"github.com/kasli/gh-actions-panel/internal/tui/authview"
	"github.com/kasli/gh-actions-panel/internal/tui/logview"
	"github.com/kasli/gh-actions-panel/internal/tui/rundetail"
	"github.com/kasli/gh-actions-panel/internal/tui/runlist"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type App struct {
	flow  *auth.Flow
	store *session.Store
	sched *poll.Scheduler

	authenticated bool
	viewMode      nav.ViewMode

	// Run list state
	filterInput      textinput.Model
	searchFocused    bool
	selectedRunIndex int

	// Run detail state: flattened job/step selection
	items             []nav.SelectionItem
	selectedItemIndex int

	// Logs opened from a step carry its number; 0 means the whole job.
	openStepNumber int

	showHelp bool

	spin    spinner.Model
	logView logview.Model

	width  int
	height int
}

func NewApp(flow *auth.Flow, store *session.Store, authenticated bool) App {
	ti := textinput.New()
	ti.Placeholder = "Filter runs (name, branch, number)..."
	ti.CharLimit = 100
	ti.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ui.ColorWarning)

	return App{
		flow:          flow,
		store:         store,
		sched:         &poll.Scheduler{},
		authenticated: authenticated,
		viewMode:      nav.ViewList,
		filterInput:   ti,
		spin:          sp,
		logView:       logview.New(),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	if a.authenticated {
		cmds = append(cmds,
			a.store.LoadRepositories(),
			a.sched.Start(poll.IdleInterval),
		)
	}
	return tea.Batch(cmds...)
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.logView.SetSize(msg.Width-2, a.contentHeight())
		return &a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return &a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ui.DeviceCodeMsg:
		return &a, a.flow.HandleDeviceCode(msg)

	case ui.AuthPollTickMsg:
		return &a, a.flow.HandleTick(msg)

	case ui.AuthPollResultMsg:
		cmd := a.flow.HandlePollResult(msg)
		if a.flow.State() == auth.StateSucceeded {
			return a.completeLogin()
		}
		return &a, cmd

	case ui.ReposLoadedMsg:
		cmd := a.store.ApplyRepos(msg)
		if cmd != nil {
			a.persistSelectedRepo()
		}
		return &a, cmd

	case ui.RunsLoadedMsg:
		if a.store.ApplyRuns(msg) {
			// Wholesale list replacement moves the cursor back to the top.
			a.selectedRunIndex = 0
		}
		return &a, nil

	case ui.JobsLoadedMsg:
		if a.store.ApplyJobs(msg) {
			a.items = nav.Flatten(a.store.Jobs())
			a.selectedItemIndex = 0
		}
		return &a, nil

	case ui.JobLogsLoadedMsg:
		if a.store.ApplyLogs(msg) {
			a.refreshLogView()
		} else if msg.Err != nil {
			log.Error("log fetch failed", "job", msg.JobID, "err", msg.Err)
			a.refreshLogView()
		}
		return &a, nil

	case poll.TickMsg:
		if !a.sched.Valid(msg) {
			return &a, nil
		}
		refresh := a.store.Refresh()
		next := a.sched.Next(poll.Interval(a.store.Runs()))
		return &a, tea.Batch(refresh, next)
	}

	return &a, nil
}

// handleKey evaluates keys in strict priority order; the first matching
// rule wins and unmatched keys are no-ops.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ui.Keys

	switch {
	case key.Matches(msg, keys.Quit):
		return &a, tea.Quit

	case key.Matches(msg, keys.Logout) && a.authenticated:
		a.logout()
		return &a, nil

	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		return &a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return &a, nil
	}

	if !a.authenticated {
		if key.Matches(msg, keys.Confirm) && !a.flow.InFlight() {
			return &a, a.flow.Login()
		}
		return &a, nil
	}

	if a.viewMode == nav.ViewJobLogs {
		if key.Matches(msg, keys.Back) {
			a.viewMode = nav.Next(a.viewMode, nav.EventBack)
			return &a, a.store.SelectJob(nil)
		}
		// Everything else scrolls the log viewport.
		var cmd tea.Cmd
		a.logView, cmd = a.logView.Update(msg)
		return &a, cmd
	}

	if a.viewMode == nav.ViewRunDetail {
		return a.handleRunDetailKey(msg)
	}

	if a.searchFocused {
		if key.Matches(msg, keys.Back) {
			a.searchFocused = false
			a.filterInput.Blur()
			return &a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		a.selectedRunIndex = nav.Clamp(a.selectedRunIndex, len(a.filteredRuns()))
		return &a, cmd
	}

	switch {
	case key.Matches(msg, keys.Search):
		a.searchFocused = true
		return &a, a.filterInput.Focus()

	case key.Matches(msg, keys.Refresh):
		return &a, a.store.Refresh()

	case key.Matches(msg, keys.Up):
		a.selectedRunIndex = nav.Clamp(a.selectedRunIndex-1, len(a.filteredRuns()))

	case key.Matches(msg, keys.Down):
		a.selectedRunIndex = nav.Clamp(a.selectedRunIndex+1, len(a.filteredRuns()))

	case key.Matches(msg, keys.Confirm):
		filtered := a.filteredRuns()
		if a.selectedRunIndex < len(filtered) {
			run := filtered[a.selectedRunIndex]
			a.viewMode = nav.Next(a.viewMode, nav.EventOpenRun)
			a.items = nil
			a.selectedItemIndex = 0
			a.sched.Stop()
			return &a, a.store.SelectRun(&run)
		}

	case key.Matches(msg, keys.NextRepo):
		return a.cycleRepo(1)

	case key.Matches(msg, keys.PrevRepo):
		return a.cycleRepo(-1)
	}

	return &a, nil
}

func (a App) handleRunDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := ui.Keys

	switch {
	case key.Matches(msg, keys.Back):
		a.viewMode = nav.Next(a.viewMode, nav.EventClearRun)
		a.items = nil
		a.selectedItemIndex = 0
		clear := a.store.SelectRun(nil)
		resume := a.sched.Start(poll.Interval(a.store.Runs()))
		return &a, tea.Batch(clear, resume)

	case key.Matches(msg, keys.Refresh):
		return &a, a.store.Refresh()

	case key.Matches(msg, keys.Up):
		a.selectedItemIndex = nav.Clamp(a.selectedItemIndex-1, len(a.items))

	case key.Matches(msg, keys.Down):
		a.selectedItemIndex = nav.Clamp(a.selectedItemIndex+1, len(a.items))

	case key.Matches(msg, keys.Confirm):
		if len(a.items) == 0 {
			return &a, nil
		}
		item := a.items[a.selectedItemIndex]
		jobs := a.store.Jobs()
		if item.JobIndex >= len(jobs) {
			return &a, nil
		}
		job := jobs[item.JobIndex]
		a.openStepNumber = 0
		if item.Kind == nav.ItemStep {
			a.openStepNumber = job.Steps[item.StepIndex].Number
		}
		a.viewMode = nav.Next(a.viewMode, nav.EventOpenLogs)
		a.logView.SetLoading(job.Name)
		return &a, a.store.SelectJob(&job)
	}
	return &a, nil
}

func (a App) cycleRepo(delta int) (tea.Model, tea.Cmd) {
	cmd := a.store.CycleRepository(delta)
	if cmd != nil {
		a.selectedRunIndex = 0
		a.persistSelectedRepo()
	}
	return &a, cmd
}

func (a App) completeLogin() (tea.Model, tea.Cmd) {
	token := a.flow.Token()
	if err := config.SetToken(token); err != nil {
		log.Error("persist token", "err", err)
	}
	client, err := api.NewClient(token)
	if err != nil {
		log.Error("create client", "err", err)
		return &a, nil
	}
	a.store.SetClient(client)
	a.authenticated = true
	a.viewMode = nav.ViewList
	return &a, tea.Batch(
		a.store.LoadRepositories(),
		a.sched.Start(poll.IdleInterval),
	)
}

func (a *App) logout() {
	a.flow.Logout()
	a.sched.Stop()
	a.store.Reset()
	a.authenticated = false
	a.viewMode = nav.ViewList
	a.items = nil
	a.selectedItemIndex = 0
	a.selectedRunIndex = 0
	a.openStepNumber = 0
	a.searchFocused = false
	a.filterInput.SetValue("")
	a.filterInput.Blur()
	if err := config.ClearToken(); err != nil {
		log.Error("clear token", "err", err)
	}
}

func (a *App) persistSelectedRepo() {
	repo := a.store.SelectedRepo()
	if repo == nil {
		return
	}
	if err := config.SetSelectedRepo(repo.FullName); err != nil {
		log.Error("persist selected repo", "err", err)
	}
}

func (a *App) refreshLogView() {
	job := a.store.SelectedJob()
	if job == nil {
		return
	}
	raw, _ := a.store.LogText()
	if a.openStepNumber > 0 {
		for _, step := range job.Steps {
			if step.Number == a.openStepNumber {
				a.logView.SetStepLogs(step, raw)
				return
			}
		}
	}
	a.logView.SetJobLogs(*job, raw)
}

func (a App) filteredRuns() []model.Run {
	return nav.FilterRuns(a.store.Runs(), a.filterInput.Value())
}

func (a App) contentHeight() int {
	// header + status bar
	h := a.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// --- View ---

func (a App) View() string {
	repoName := ""
	if r := a.store.SelectedRepo(); r != nil {
		repoName = r.FullName
	}
	header := RenderHeader(repoName, a.authenticated, a.width)

	var content string
	switch {
	case a.showHelp:
		content = a.renderHelp()
	case !a.authenticated:
		var challenge *model.DeviceCodeChallenge
		if c, ok := a.flow.Challenge(); ok {
			challenge = &c
		}
		content = authview.Render(authview.Context{
			Width:      a.width,
			Height:     a.contentHeight(),
			Challenge:  challenge,
			Err:        a.flow.Err(),
			Requesting: a.flow.State() == auth.StateRequesting,
			Spinner:    a.spin.View(),
		})
	case a.viewMode == nav.ViewJobLogs:
		content = a.logView.View(a.spin.View())
	case a.viewMode == nav.ViewRunDetail:
		var run model.Run
		if r := a.store.SelectedRun(); r != nil {
			run = *r
		}
		content = rundetail.Render(rundetail.Context{
			Width:   a.width,
			Height:  a.contentHeight(),
			Run:     run,
			Jobs:    a.store.Jobs(),
			Items:   a.items,
			Cursor:  a.selectedItemIndex,
			Loading: a.store.Loading(),
			Err:     a.store.Err(),
			Spinner: a.spin.View(),
		})
	default:
		repoIndex := 0
		for i, r := range a.store.Repos() {
			if sel := a.store.SelectedRepo(); sel != nil && r.ID == sel.ID {
				repoIndex = i
				break
			}
		}
		content = runlist.Render(runlist.Context{
			Width:      a.width,
			Height:     a.contentHeight(),
			RepoName:   repoName,
			RepoIndex:  repoIndex,
			RepoCount:  len(a.store.Repos()),
			FilterView: a.filterInput.View(),
			Runs:       a.filteredRuns(),
			Cursor:     a.selectedRunIndex,
			Loading:    a.store.Loading(),
			Err:        a.store.Err(),
			Spinner:    a.spin.View(),
		})
	}

	statusBar := RenderStatusBar(a.statusText(), a.contextHints(), a.width)

	// Hard clamp so content never pushes the status bar off screen.
	maxLines := a.contentHeight()
	lines := strings.Split(content, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for len(lines) < maxLines {
		lines = append(lines, "")
	}
	content = strings.Join(lines, "\n")

	return header + "\n" + content + "\n" + statusBar
}

func (a App) statusText() string {
	if !a.authenticated {
		if a.flow.InFlight() {
			return "Signing in..."
		}
		return "Not signed in"
	}
	if err := a.store.Err(); err != "" {
		return "Error: " + err
	}
	if a.store.Loading() {
		return "Loading..."
	}
	switch a.viewMode {
	case nav.ViewRunDetail:
		return fmt.Sprintf("%d jobs", len(a.store.Jobs()))
	case nav.ViewJobLogs:
		if job := a.store.SelectedJob(); job != nil {
			return job.Name
		}
		return ""
	default:
		return fmt.Sprintf("%d runs", len(a.filteredRuns()))
	}
}

func (a App) contextHints() string {
	if !a.authenticated {
		return "enter:sign in  ?:help  q:quit"
	}
	switch a.viewMode {
	case nav.ViewJobLogs:
		return "j/k:scroll  esc:back  q:quit"
	case nav.ViewRunDetail:
		return "j/k:move  enter:logs  r:refresh  esc:back  q:quit"
	default:
		if a.searchFocused {
			return "esc:done"
		}
		return "j/k:move  enter:details  /:filter  r:refresh  tab:repo  ?:help  q:quit"
	}
}

func (a App) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"enter", "open selection / sign in"},
		{"esc", "back / close"},
		{"j/k, up/down", "move selection"},
		{"/", "filter runs"},
		{"r", "refresh"},
		{"tab / shift+tab", "switch repository"},
		{"L", "logout"},
		{"?", "toggle help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString("\n " + ui.StyleTitle.Render("Keyboard shortcuts") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			lipgloss.NewStyle().Bold(true).Width(18).Render(r.key),
			ui.StyleMuted.Render(r.desc)))
	}
	b.WriteString("\n " + ui.StyleMuted.Render("Press any key to close"))
	return b.String()
}
