package auth

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasli/gh-actions-panel/internal/model"
	"github.com/kasli/gh-actions-panel/internal/ui"
)

type fakeAuthorizer struct {
	challenge model.DeviceCodeChallenge
	codeErr   error

	responses []model.AccessTokenResponse
	pollErr   error
	polls     int
}

func (f *fakeAuthorizer) RequestCode() (model.DeviceCodeChallenge, error) {
	return f.challenge, f.codeErr
}

func (f *fakeAuthorizer) PollToken(string) (model.AccessTokenResponse, error) {
	if f.pollErr != nil {
		return model.AccessTokenResponse{}, f.pollErr
	}
	resp := f.responses[f.polls]
	f.polls++
	return resp, nil
}

func pending() model.AccessTokenResponse {
	return model.AccessTokenResponse{Error: "authorization_pending"}
}

func testChallenge() model.DeviceCodeChallenge {
	return model.DeviceCodeChallenge{
		DeviceCode:      "device-123",
		UserCode:        "ABCD-1234",
		VerificationURI: "https://github.com/login/device",
		ExpiresIn:       900,
		Interval:        5,
	}
}

// startFlow drives Login through HandleDeviceCode, leaving the flow
// awaiting its first poll tick.
func startFlow(t *testing.T, client *fakeAuthorizer) *Flow {
	t.Helper()
	f := NewFlow(client)
	cmd := f.Login()
	require.NotNil(t, cmd)

	msg, ok := cmd().(ui.DeviceCodeMsg)
	require.True(t, ok)
	require.NotNil(t, f.HandleDeviceCode(msg))
	require.Equal(t, StateAwaiting, f.State())
	return f
}

// poll delivers one tick and its poll result for the current attempt,
// returning the follow-up command.
func poll(t *testing.T, f *Flow) tea.Cmd {
	t.Helper()
	cmd := f.HandleTick(ui.AuthPollTickMsg{Attempt: f.attempt})
	require.NotNil(t, cmd)
	msg, ok := cmd().(ui.AuthPollResultMsg)
	require.True(t, ok)
	return f.HandlePollResult(msg)
}

func TestFlowSucceedsAfterSlowDown(t *testing.T) {
	client := &fakeAuthorizer{
		challenge: testChallenge(),
		responses: []model.AccessTokenResponse{
			pending(),
			pending(),
			{Error: "slow_down"},
			pending(),
			{AccessToken: "gho_token", TokenType: "bearer"},
		},
	}
	f := startFlow(t, client)
	assert.Equal(t, 5*time.Second, f.interval)

	poll(t, f)
	poll(t, f)
	assert.Equal(t, 5*time.Second, f.interval)

	poll(t, f) // slow_down
	assert.Equal(t, 10*time.Second, f.interval, "slow_down stretches the interval by 5s")

	poll(t, f)
	assert.Equal(t, 10*time.Second, f.interval, "the stretched interval persists")

	cmd := poll(t, f) // success
	assert.Nil(t, cmd)
	assert.Equal(t, StateSucceeded, f.State())
	assert.Equal(t, "gho_token", f.Token())
	assert.Equal(t, 5, client.polls)

	// a straggler result from the same attempt changes nothing
	assert.Nil(t, f.HandlePollResult(ui.AuthPollResultMsg{Attempt: f.attempt, Resp: pending()}))
	assert.Equal(t, StateSucceeded, f.State())
	assert.Equal(t, "gho_token", f.Token())
}

func TestFlowSlowDownIsCumulative(t *testing.T) {
	client := &fakeAuthorizer{
		challenge: testChallenge(),
		responses: []model.AccessTokenResponse{
			{Error: "slow_down"},
			{Error: "slow_down"},
		},
	}
	f := startFlow(t, client)

	poll(t, f)
	poll(t, f)
	assert.Equal(t, 15*time.Second, f.interval)
}

func TestFlowTerminalErrors(t *testing.T) {
	tests := []struct {
		name    string
		resp    model.AccessTokenResponse
		wantErr string
	}{
		{"expired", model.AccessTokenResponse{Error: "expired_token"}, "authentication expired"},
		{"denied", model.AccessTokenResponse{Error: "access_denied"}, "access denied"},
		{"described", model.AccessTokenResponse{Error: "incorrect_device_code", ErrorDescription: "The device code is wrong"}, "The device code is wrong"},
		{"bare code", model.AccessTokenResponse{Error: "unsupported_grant_type"}, "unsupported_grant_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeAuthorizer{
				challenge: testChallenge(),
				responses: []model.AccessTokenResponse{tt.resp},
			}
			f := startFlow(t, client)

			cmd := poll(t, f)
			assert.Nil(t, cmd)
			assert.Equal(t, StateFailed, f.State())
			assert.Equal(t, tt.wantErr, f.Err())

			_, ok := f.Challenge()
			assert.False(t, ok, "terminal states drop the challenge")
		})
	}
}

func TestFlowTimesOutAtDeadline(t *testing.T) {
	client := &fakeAuthorizer{challenge: testChallenge()}
	f := NewFlow(client)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return base }

	cmd := f.Login()
	msg := cmd().(ui.DeviceCodeMsg)
	require.NotNil(t, f.HandleDeviceCode(msg))

	f.now = func() time.Time { return base.Add(901 * time.Second) }
	assert.Nil(t, f.HandleTick(ui.AuthPollTickMsg{Attempt: f.attempt}))
	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, "timed out", f.Err())
	assert.Zero(t, client.polls, "an expired attempt never hits the token endpoint")
}

func TestFlowLogoutSupersedesAttempt(t *testing.T) {
	client := &fakeAuthorizer{challenge: testChallenge()}
	f := NewFlow(client)

	cmd := f.Login()
	msg := cmd().(ui.DeviceCodeMsg)

	f.Logout()
	assert.Nil(t, f.HandleDeviceCode(msg), "challenge from the abandoned attempt is dropped")
	assert.Equal(t, StateIdle, f.State())

	// ticks and results from the old attempt are dropped too
	assert.Nil(t, f.HandleTick(ui.AuthPollTickMsg{Attempt: msg.Attempt}))
	assert.Nil(t, f.HandlePollResult(ui.AuthPollResultMsg{Attempt: msg.Attempt, Resp: pending()}))
	assert.Equal(t, StateIdle, f.State())
}

func TestFlowLoginIsNoOpWhileInFlight(t *testing.T) {
	client := &fakeAuthorizer{challenge: testChallenge()}
	f := NewFlow(client)

	require.NotNil(t, f.Login())
	assert.True(t, f.InFlight())
	assert.Nil(t, f.Login())
}

func TestFlowRetriesFromFailure(t *testing.T) {
	client := &fakeAuthorizer{
		challenge: testChallenge(),
		responses: []model.AccessTokenResponse{
			{Error: "access_denied"},
			{AccessToken: "gho_second"},
		},
	}
	f := startFlow(t, client)
	poll(t, f)
	require.Equal(t, StateFailed, f.State())

	f2 := f.Login()
	require.NotNil(t, f2)
	msg := f2().(ui.DeviceCodeMsg)
	require.NotNil(t, f.HandleDeviceCode(msg))
	assert.Empty(t, f.Err(), "retry clears the previous error")

	poll(t, f)
	assert.Equal(t, StateSucceeded, f.State())
	assert.Equal(t, "gho_second", f.Token())
}

func TestFlowRequestCodeError(t *testing.T) {
	client := &fakeAuthorizer{codeErr: errors.New("connection refused")}
	f := NewFlow(client)

	cmd := f.Login()
	msg := cmd().(ui.DeviceCodeMsg)
	assert.Nil(t, f.HandleDeviceCode(msg))
	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, "connection refused", f.Err())
}

func TestFlowPollTransportError(t *testing.T) {
	client := &fakeAuthorizer{challenge: testChallenge(), pollErr: errors.New("network unreachable")}
	f := startFlow(t, client)

	cmd := poll(t, f)
	assert.Nil(t, cmd)
	assert.Equal(t, StateFailed, f.State())
	assert.Equal(t, "network unreachable", f.Err())
}
