// Package auth drives the OAuth device-authorization handshake: request a
// device code, show it to the user, then poll the token endpoint until the
// user approves, the challenge expires, or the server rejects the attempt.
package auth

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type State int

const (
	StateIdle State = iota
	StateRequesting
	StateAwaiting // challenge shown, next poll scheduled
	StatePolling  // token request in flight
	StateSucceeded
	StateFailed
)

// slow_down responses stretch the poll interval by this much. Increments
// are cumulative for the lifetime of the attempt.
const slowDownIncrement = 5 * time.Second

// DeviceAuthorizer is the remote side of the handshake.
type DeviceAuthorizer interface {
	RequestCode() (model.DeviceCodeChallenge, error)
	PollToken(deviceCode string) (model.AccessTokenResponse, error)
}

// Flow is the device-flow state machine. It is driven entirely by the
// program's message loop: Login and the Handle* methods mutate state and
// return the command that continues the handshake. Every message carries
// the attempt number it belongs to; Login and Logout bump the counter, so
// completions from a superseded attempt fall through without effect and
// each attempt reaches at most one terminal state.
type Flow struct {
	client DeviceAuthorizer
	now    func() time.Time

	state        State
	attempt      int
	challenge    model.DeviceCodeChallenge
	hasChallenge bool
	interval     time.Duration
	deadline     time.Time
	token        string
	errMsg       string
}

func NewFlow(client DeviceAuthorizer) *Flow {
	return &Flow{client: client, now: time.Now}
}

func (f *Flow) State() State { return f.state }

func (f *Flow) Token() string { return f.token }

func (f *Flow) Err() string { return f.errMsg }

// Challenge returns the active challenge for display, if any.
func (f *Flow) Challenge() (model.DeviceCodeChallenge, bool) {
	return f.challenge, f.hasChallenge
}

// InFlight reports whether a login attempt is currently running.
func (f *Flow) InFlight() bool {
	return f.state == StateRequesting || f.state == StateAwaiting || f.state == StatePolling
}

// Login starts a new attempt. Valid from Idle and from either terminal
// state (retry); a no-op while an attempt is in flight.
func (f *Flow) Login() tea.Cmd {
	if f.InFlight() {
		return nil
	}
	f.attempt++
	f.state = StateRequesting
	f.errMsg = ""
	f.token = ""
	f.hasChallenge = false

	attempt := f.attempt
	client := f.client
	return func() tea.Msg {
		challenge, err := client.RequestCode()
		return ui.DeviceCodeMsg{Attempt: attempt, Challenge: challenge, Err: err}
	}
}

// Logout discards any token, challenge, and in-flight attempt.
func (f *Flow) Logout() {
	f.attempt++
	f.state = StateIdle
	f.token = ""
	f.errMsg = ""
	f.hasChallenge = false
}

func (f *Flow) HandleDeviceCode(msg ui.DeviceCodeMsg) tea.Cmd {
	if msg.Attempt != f.attempt || f.state != StateRequesting {
		return nil
	}
	if msg.Err != nil {
		f.fail(msg.Err.Error())
		return nil
	}
	f.challenge = msg.Challenge
	f.hasChallenge = true
	f.interval = msg.Challenge.PollInterval()
	f.deadline = f.now().Add(msg.Challenge.ValidFor())
	f.state = StateAwaiting
	return f.tick()
}

func (f *Flow) HandleTick(msg ui.AuthPollTickMsg) tea.Cmd {
	if msg.Attempt != f.attempt || f.state != StateAwaiting {
		return nil
	}
	if f.now().After(f.deadline) {
		f.fail("timed out")
		return nil
	}
	f.state = StatePolling

	attempt := f.attempt
	client := f.client
	deviceCode := f.challenge.DeviceCode
	return func() tea.Msg {
		resp, err := client.PollToken(deviceCode)
		return ui.AuthPollResultMsg{Attempt: attempt, Resp: resp, Err: err}
	}
}

func (f *Flow) HandlePollResult(msg ui.AuthPollResultMsg) tea.Cmd {
	if msg.Attempt != f.attempt || f.state != StatePolling {
		return nil
	}
	if msg.Err != nil {
		f.fail(msg.Err.Error())
		return nil
	}

	resp := msg.Resp
	switch {
	case resp.AccessToken != "":
		f.state = StateSucceeded
		f.token = resp.AccessToken
		f.hasChallenge = false
	case resp.Error == "authorization_pending":
		f.state = StateAwaiting
		return f.tick()
	case resp.Error == "slow_down":
		f.interval += slowDownIncrement
		f.state = StateAwaiting
		return f.tick()
	case resp.Error == "expired_token":
		f.fail("authentication expired")
	case resp.Error == "access_denied":
		f.fail("access denied")
	case resp.Error != "":
		if resp.ErrorDescription != "" {
			f.fail(resp.ErrorDescription)
		} else {
			f.fail(resp.Error)
		}
	default:
		f.fail("empty token response")
	}
	return nil
}

func (f *Flow) tick() tea.Cmd {
	attempt := f.attempt
	return tea.Tick(f.interval, func(time.Time) tea.Msg {
		return ui.AuthPollTickMsg{Attempt: attempt}
	})
}

func (f *Flow) fail(msg string) {
	f.state = StateFailed
	f.errMsg = msg
	f.hasChallenge = false
}
