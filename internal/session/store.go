// Package session owns the data fetched from GitHub and the selection
// state that drives it: repositories, the runs of the selected repository,
// the jobs of the selected run, and the selected job's log text. It is the
// only component that talks to the API.
package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kasli/gh-actions-panel/internal/api"
	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

const runsPerPage = 30

// Client is the slice of the GitHub API the store consumes.
type Client interface {
	ListRepositories() ([]model.Repository, error)
	ListRuns(owner, repo string, filter api.RunsFilter) (*model.RunsResponse, error)
	ListJobs(owner, repo string, runID int64) (*model.JobsResponse, error)
	JobLogs(ctx context.Context, owner, repo string, jobID int64) (string, error)
}

// Store holds the current snapshots and a single loading/error slot shared
// by all fetches. Fetch methods return commands; the matching Apply method
// folds the completion back in.
//
// Every fetch is tagged with the generation current when it was issued.
// Selection changes bump the generation, so a completion that raced a
// newer selection is dropped in Apply instead of overwriting its state.
type Store struct {
	client Client
	gen    uint64

	// preferredRepo is the persisted owner/name to reselect on the first
	// repository load, when still present.
	preferredRepo string

	repos        []model.Repository
	selectedRepo *model.Repository
	runs         []model.Run
	selectedRun  *model.Run
	jobs         []model.Job
	selectedJob  *model.Job
	logText      string
	logLoaded    bool

	loading bool
	errMsg  string
}

func NewStore(client Client, preferredRepo string) *Store {
	return &Store{client: client, preferredRepo: preferredRepo}
}

// SetClient installs the API client once a token is available and drops
// any state fetched with a previous credential.
func (s *Store) SetClient(client Client) {
	s.client = client
	s.Reset()
}

// Reset clears all fetched data and invalidates in-flight fetches.
func (s *Store) Reset() {
	s.gen++
	s.repos = nil
	s.selectedRepo = nil
	s.runs = nil
	s.selectedRun = nil
	s.jobs = nil
	s.selectedJob = nil
	s.logText = ""
	s.logLoaded = false
	s.loading = false
	s.errMsg = ""
}

// --- Accessors ---

func (s *Store) Repos() []model.Repository { return s.repos }

func (s *Store) SelectedRepo() *model.Repository { return s.selectedRepo }

func (s *Store) Runs() []model.Run { return s.runs }

func (s *Store) SelectedRun() *model.Run { return s.selectedRun }

func (s *Store) Jobs() []model.Job { return s.jobs }

func (s *Store) SelectedJob() *model.Job { return s.selectedJob }

func (s *Store) Loading() bool { return s.loading }

func (s *Store) Err() string { return s.errMsg }

// LogText returns the current raw log text and whether a log fetch has
// completed for the selected job.
func (s *Store) LogText() (string, bool) { return s.logText, s.logLoaded }

// --- Fetches ---

func (s *Store) LoadRepositories() tea.Cmd {
	if s.client == nil {
		return nil
	}
	s.begin()
	gen := s.gen
	client := s.client
	return func() tea.Msg {
		repos, err := client.ListRepositories()
		return ui.ReposLoadedMsg{Gen: gen, Repos: repos, Err: err}
	}
}

// SelectRepository makes repo current, discards the previous repository's
// runs and jobs, and starts loading its runs.
func (s *Store) SelectRepository(repo model.Repository) tea.Cmd {
	s.gen++
	r := repo
	s.selectedRepo = &r
	s.selectedRun = nil
	s.selectedJob = nil
	s.runs = nil
	s.jobs = nil
	s.logText = ""
	s.logLoaded = false
	return s.LoadRuns()
}

// CycleRepository selects the repository delta positions away from the
// current one, wrapping around the full list.
func (s *Store) CycleRepository(delta int) tea.Cmd {
	if len(s.repos) == 0 {
		return nil
	}
	current := 0
	if s.selectedRepo != nil {
		for i, r := range s.repos {
			if r.ID == s.selectedRepo.ID {
				current = i
				break
			}
		}
	}
	next := (current + delta) % len(s.repos)
	if next < 0 {
		next += len(s.repos)
	}
	return s.SelectRepository(s.repos[next])
}

func (s *Store) LoadRuns() tea.Cmd {
	if s.client == nil || s.selectedRepo == nil {
		return nil
	}
	s.begin()
	gen := s.gen
	client := s.client
	owner, name := s.selectedRepo.Owner.Login, s.selectedRepo.Name
	return func() tea.Msg {
		resp, err := client.ListRuns(owner, name, api.RunsFilter{PerPage: runsPerPage})
		if err != nil {
			return ui.RunsLoadedMsg{Gen: gen, Err: err}
		}
		return ui.RunsLoadedMsg{Gen: gen, Runs: resp.Runs}
	}
}

// SelectRun makes run current and starts loading its jobs; a nil run
// returns to the list level and clears the jobs.
func (s *Store) SelectRun(run *model.Run) tea.Cmd {
	s.gen++
	if run == nil {
		s.selectedRun = nil
		s.selectedJob = nil
		s.jobs = nil
		s.logText = ""
		s.logLoaded = false
		// No replacement fetch is issued, so any in-flight one no longer
		// counts as loading.
		s.loading = false
		return nil
	}
	r := *run
	s.selectedRun = &r
	return s.LoadJobs(&r)
}

func (s *Store) LoadJobs(run *model.Run) tea.Cmd {
	if s.client == nil || s.selectedRepo == nil || run == nil {
		return nil
	}
	s.begin()
	gen := s.gen
	client := s.client
	owner, name := s.selectedRepo.Owner.Login, s.selectedRepo.Name
	runID := run.ID
	return func() tea.Msg {
		resp, err := client.ListJobs(owner, name, runID)
		if err != nil {
			return ui.JobsLoadedMsg{Gen: gen, RunID: runID, Err: err}
		}
		return ui.JobsLoadedMsg{Gen: gen, RunID: runID, Jobs: resp.Jobs}
	}
}

// SelectJob makes job current and starts loading its logs; nil closes the
// log view state and invalidates any in-flight log fetch.
func (s *Store) SelectJob(job *model.Job) tea.Cmd {
	s.gen++
	if job == nil {
		s.selectedJob = nil
		s.logText = ""
		s.logLoaded = false
		s.loading = false
		return nil
	}
	j := *job
	s.selectedJob = &j
	s.logText = ""
	s.logLoaded = false
	return s.LoadLogs(&j)
}

func (s *Store) LoadLogs(job *model.Job) tea.Cmd {
	if s.client == nil || s.selectedRepo == nil || job == nil {
		return nil
	}
	s.begin()
	gen := s.gen
	client := s.client
	owner, name := s.selectedRepo.Owner.Login, s.selectedRepo.Name
	jobID := job.ID
	return func() tea.Msg {
		content, err := client.JobLogs(context.Background(), owner, name, jobID)
		return ui.JobLogsLoadedMsg{Gen: gen, JobID: jobID, Content: content, Err: err}
	}
}

// Refresh re-runs the fetch for the current level: jobs when a run is
// selected, runs otherwise. This is the single entry point used by both
// the polling scheduler and the refresh key.
func (s *Store) Refresh() tea.Cmd {
	if s.selectedRun != nil {
		return s.LoadJobs(s.selectedRun)
	}
	return s.LoadRuns()
}

// --- Completions ---

// ApplyRepos folds in a repository fetch. On the first load it selects
// the persisted repository when still present, else the first entry, and
// returns the command loading that repository's runs.
func (s *Store) ApplyRepos(msg ui.ReposLoadedMsg) tea.Cmd {
	if msg.Gen != s.gen {
		return nil
	}
	s.loading = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return nil
	}
	s.repos = msg.Repos
	if s.selectedRepo != nil || len(msg.Repos) == 0 {
		return nil
	}
	pick := msg.Repos[0]
	if s.preferredRepo != "" {
		for _, r := range msg.Repos {
			if r.FullName == s.preferredRepo {
				pick = r
				break
			}
		}
	}
	return s.SelectRepository(pick)
}

func (s *Store) ApplyRuns(msg ui.RunsLoadedMsg) bool {
	if msg.Gen != s.gen {
		return false
	}
	s.loading = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return false
	}
	s.runs = msg.Runs
	return true
}

func (s *Store) ApplyJobs(msg ui.JobsLoadedMsg) bool {
	if msg.Gen != s.gen {
		return false
	}
	s.loading = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return false
	}
	s.jobs = msg.Jobs
	return true
}

func (s *Store) ApplyLogs(msg ui.JobLogsLoadedMsg) bool {
	if msg.Gen != s.gen {
		return false
	}
	s.loading = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return false
	}
	s.logText = msg.Content
	s.logLoaded = true
	return true
}

func (s *Store) begin() {
	s.loading = true
	s.errMsg = ""
}
