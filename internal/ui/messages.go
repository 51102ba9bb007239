package ui

import (
	"github.com/kasli/gh-actions-panel/internal/model"
)

// Fetch completion messages. Gen carries the session generation captured
// when the fetch was issued; a result whose generation no longer matches
// the store's is dropped instead of clobbering newer selection state.

type ReposLoadedMsg struct {
	Gen   uint64
	Repos []model.Repository
	Err   error
}

type RunsLoadedMsg struct {
	Gen  uint64
	Runs []model.Run
	Err  error
}

type JobsLoadedMsg struct {
	Gen   uint64
	RunID int64
	Jobs  []model.Job
	Err   error
}

type JobLogsLoadedMsg struct {
	Gen     uint64
	JobID   int64
	Content string
	Err     error
}

// Device-flow messages. Attempt tags each message with the login attempt
// that produced it; messages from a superseded attempt are ignored.

type DeviceCodeMsg struct {
	Attempt   int
	Challenge model.DeviceCodeChallenge
	Err       error
}

type AuthPollTickMsg struct {
	Attempt int
}

type AuthPollResultMsg struct {
	Attempt int
	Resp    model.AccessTokenResponse
	Err     error
}
