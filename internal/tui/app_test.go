package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasli/gh-actions-panel/internal/api"
	"github.com/kasli/gh-actions-panel/internal/auth"
	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/nav"
	"github.com/kasli/gh-actions-panel/internal/poll"
	"github.com/kasli/gh-actions-panel/internal/session"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type fakeClient struct {
	repos []model.Repository
	runs  map[string][]model.Run
	jobs  map[int64][]model.Job
	logs  map[int64]string
}

func (f *fakeClient) ListRepositories() ([]model.Repository, error) {
	return f.repos, nil
}

func (f *fakeClient) ListRuns(owner, repo string, _ api.RunsFilter) (*model.RunsResponse, error) {
	runs := f.runs[owner+"/"+repo]
	return &model.RunsResponse{TotalCount: len(runs), Runs: runs}, nil
}

func (f *fakeClient) ListJobs(_, _ string, runID int64) (*model.JobsResponse, error) {
	jobs := f.jobs[runID]
	return &model.JobsResponse{TotalCount: len(jobs), Jobs: jobs}, nil
}

func (f *fakeClient) JobLogs(_ context.Context, _, _ string, jobID int64) (string, error) {
	return f.logs[jobID], nil
}

type fakeAuthorizer struct{}

func (fakeAuthorizer) RequestCode() (model.DeviceCodeChallenge, error) {
	return model.DeviceCodeChallenge{
		DeviceCode:      "device-123",
		UserCode:        "ABCD-1234",
		VerificationURI: "https://github.com/login/device",
		ExpiresIn:       900,
		Interval:        5,
	}, nil
}

func (fakeAuthorizer) PollToken(string) (model.AccessTokenResponse, error) {
	return model.AccessTokenResponse{Error: "authorization_pending"}, nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		repos: []model.Repository{
			{ID: 1, Name: "api", FullName: "acme/api", Owner: model.Owner{Login: "acme"}},
			{ID: 2, Name: "web", FullName: "acme/web", Owner: model.Owner{Login: "acme"}},
		},
		runs: map[string][]model.Run{
			"acme/api": {
				{ID: 100, Name: "CI", HeadBranch: "main", RunNumber: 41},
				{ID: 101, Name: "CI", HeadBranch: "feature", RunNumber: 42},
			},
		},
		jobs: map[int64][]model.Job{
			100: {{ID: 1000, Name: "build", Steps: []model.Step{
				{Number: 1, Name: "Checkout"},
				{Number: 2, Name: "Build"},
			}}},
		},
		logs: map[int64]string{
			1000: buildLog(),
		},
	}
}

// buildLog is a group with enough lines to overflow any test viewport.
func buildLog() string {
	var b strings.Builder
	b.WriteString("##[group]Build\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "2024-01-28T19:15:33Z compiling unit %d\n", i)
	}
	b.WriteString("##[endgroup]")
	return b.String()
}

// newTestApp returns an authenticated app with repositories and runs
// already loaded.
func newTestApp(t *testing.T) tea.Model {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store := session.NewStore(newFakeClient(), "")
	cmd := store.LoadRepositories()
	require.NotNil(t, cmd)
	next := store.ApplyRepos(cmd().(ui.ReposLoadedMsg))
	require.NotNil(t, next)
	require.True(t, store.ApplyRuns(next().(ui.RunsLoadedMsg)))

	app := NewApp(auth.NewFlow(fakeAuthorizer{}), store, true)
	return &app
}

func press(m tea.Model, key string) (tea.Model, tea.Cmd) {
	var k tea.KeyMsg
	switch key {
	case "enter":
		k = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		k = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		k = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		k = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		k = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		k = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	return m.Update(k)
}

// enterRunDetail drives the app from the list into the first run's detail
// view, delivering the jobs completion.
func enterRunDetail(t *testing.T, m tea.Model) tea.Model {
	t.Helper()
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd().(ui.JobsLoadedMsg))
	require.Equal(t, nav.ViewRunDetail, m.(*App).viewMode)
	return m
}

func TestQuitKey(t *testing.T) {
	m := newTestApp(t)
	for _, key := range []string{"q", "ctrl+c"} {
		_, cmd := press(m, key)
		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit, "%s should quit", key)
	}
}

func TestHelpOverlaySwallowsNextKey(t *testing.T) {
	m := newTestApp(t)

	m, _ = press(m, "?")
	assert.True(t, m.(*App).showHelp)

	m, cmd := press(m, "j")
	assert.False(t, m.(*App).showHelp, "any key closes the overlay")
	assert.Nil(t, cmd)
	assert.Zero(t, m.(*App).selectedRunIndex, "the closing key must not also act")
}

func TestUnauthenticatedEnterStartsLogin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	flow := auth.NewFlow(fakeAuthorizer{})
	app := NewApp(flow, session.NewStore(nil, ""), false)
	var m tea.Model = &app

	m, cmd := press(m, "j")
	assert.Nil(t, cmd, "navigation keys are inert while signed out")

	m, cmd = press(m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, auth.StateRequesting, flow.State())

	// a second confirm while the attempt runs does not start another
	_, cmd2 := press(m, "enter")
	assert.Nil(t, cmd2)
}

func TestRunSelectionMovesAndClamps(t *testing.T) {
	m := newTestApp(t)

	m, _ = press(m, "j")
	assert.Equal(t, 1, m.(*App).selectedRunIndex)
	m, _ = press(m, "j")
	assert.Equal(t, 1, m.(*App).selectedRunIndex, "cursor clamps at the last run")
	m, _ = press(m, "k")
	m, _ = press(m, "k")
	assert.Equal(t, 0, m.(*App).selectedRunIndex, "cursor clamps at the first run")
}

func TestEnterOpensRunDetailAndSuspendsPolling(t *testing.T) {
	m := newTestApp(t)
	m.(*App).sched.Start(poll.IdleInterval)

	m = enterRunDetail(t, m)
	a := m.(*App)
	assert.False(t, a.sched.Enabled(), "polling stops outside the list view")
	require.NotNil(t, a.store.SelectedRun())
	assert.Equal(t, int64(100), a.store.SelectedRun().ID)
	assert.Len(t, a.items, 3, "one job plus two steps")

	m, _ = press(m, "esc")
	a = m.(*App)
	assert.Equal(t, nav.ViewList, a.viewMode)
	assert.Nil(t, a.store.SelectedRun())
	assert.True(t, a.sched.Enabled(), "polling resumes on return to the list")
}

func TestStepEnterOpensItsLogs(t *testing.T) {
	m := newTestApp(t)
	m = enterRunDetail(t, m)

	// move to the second step (job, step 1, step 2)
	m, _ = press(m, "j")
	m, _ = press(m, "j")
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)

	a := m.(*App)
	assert.Equal(t, nav.ViewJobLogs, a.viewMode)
	assert.Equal(t, 2, a.openStepNumber)

	m, _ = m.Update(cmd().(ui.JobLogsLoadedMsg))
	_, loaded := m.(*App).store.LogText()
	assert.True(t, loaded)
}

func TestJobLogsViewOnlyEscapeNavigates(t *testing.T) {
	m := newTestApp(t)
	m = enterRunDetail(t, m)
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	require.Equal(t, nav.ViewJobLogs, m.(*App).viewMode)

	for _, key := range []string{"j", "k", "r", "/", "tab", "enter"} {
		m, _ = press(m, key)
		assert.Equal(t, nav.ViewJobLogs, m.(*App).viewMode, "%s must not leave the logs view", key)
	}

	m, _ = press(m, "esc")
	a := m.(*App)
	assert.Equal(t, nav.ViewRunDetail, a.viewMode)
	assert.Nil(t, a.store.SelectedJob())
}

func TestJobLogsViewScrolls(t *testing.T) {
	m := newTestApp(t)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = enterRunDetail(t, m)

	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd().(ui.JobLogsLoadedMsg))

	before := m.(*App).View()
	m, _ = press(m, "j")
	after := m.(*App).View()
	assert.NotEqual(t, before, after, "down key scrolls a log taller than the window")
	assert.Equal(t, nav.ViewJobLogs, m.(*App).viewMode)

	m, _ = press(m, "k")
	assert.Equal(t, before, m.(*App).View(), "up key scrolls back")
}

func TestFilterFocusAndTyping(t *testing.T) {
	m := newTestApp(t)

	m, _ = press(m, "/")
	assert.True(t, m.(*App).searchFocused)

	m, _ = press(m, "4")
	m, _ = press(m, "2")
	a := m.(*App)
	assert.Equal(t, "42", a.filterInput.Value())
	assert.Len(t, a.filteredRuns(), 1)

	m, _ = press(m, "esc")
	a = m.(*App)
	assert.False(t, a.searchFocused)
	assert.Equal(t, "42", a.filterInput.Value(), "leaving focus keeps the filter")
}

func TestRunsReplacementResetsCursor(t *testing.T) {
	m := newTestApp(t)
	m, _ = press(m, "j")
	require.Equal(t, 1, m.(*App).selectedRunIndex)

	cmd := m.(*App).store.Refresh()
	m, _ = m.Update(cmd().(ui.RunsLoadedMsg))
	assert.Zero(t, m.(*App).selectedRunIndex)
}

func TestTabCyclesRepository(t *testing.T) {
	m := newTestApp(t)
	require.Equal(t, "acme/api", m.(*App).store.SelectedRepo().FullName)

	m, cmd := press(m, "tab")
	require.NotNil(t, cmd)
	a := m.(*App)
	assert.Equal(t, "acme/web", a.store.SelectedRepo().FullName)
	assert.Zero(t, a.selectedRunIndex)

	m, _ = press(m, "shift+tab")
	assert.Equal(t, "acme/api", m.(*App).store.SelectedRepo().FullName)
}

func TestLogoutClearsSession(t *testing.T) {
	m := newTestApp(t)
	m.(*App).sched.Start(poll.IdleInterval)

	m, _ = press(m, "L")
	a := m.(*App)
	assert.False(t, a.authenticated)
	assert.False(t, a.sched.Enabled())
	assert.Empty(t, a.store.Repos())
	assert.Nil(t, a.store.SelectedRepo())
	assert.Equal(t, auth.StateIdle, a.flow.State())
}

func TestViewShowsDeviceCode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	flow := auth.NewFlow(fakeAuthorizer{})
	app := NewApp(flow, session.NewStore(nil, ""), false)
	var m tea.Model = &app

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd().(ui.DeviceCodeMsg))

	view := m.(*App).View()
	assert.True(t, strings.Contains(view, "ABCD-1234"), "sign-in view shows the user code")
}
