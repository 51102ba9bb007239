package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kasli/gh-actions-panel/internal/model"
)

const (
	deviceCodeURL = "https://github.com/login/device/code"
	tokenURL      = "https://github.com/login/oauth/access_token"
	grantType     = "urn:ietf:params:oauth:grant-type:device_code"

	// Scope covers private repositories and their Actions data.
	Scope = "repo"
)

// DeviceClient speaks the two device-flow endpoints. These live on
// github.com rather than the API host, and are called before any token
// exists, so they bypass the go-gh client.
type DeviceClient struct {
	clientID string
	http     *http.Client

	codeURL  string
	tokenURL string
}

func NewDeviceClient(clientID string) *DeviceClient {
	return &DeviceClient{
		clientID: clientID,
		http:     &http.Client{Timeout: 30 * time.Second},
		codeURL:  deviceCodeURL,
		tokenURL: tokenURL,
	}
}

// RequestCode starts a device authorization and returns the challenge to
// display to the user.
func (c *DeviceClient) RequestCode() (model.DeviceCodeChallenge, error) {
	var challenge model.DeviceCodeChallenge
	err := c.postJSON(c.codeURL, map[string]string{
		"client_id": c.clientID,
		"scope":     Scope,
	}, &challenge)
	if err != nil {
		return model.DeviceCodeChallenge{}, fmt.Errorf("request device code: %w", err)
	}
	return challenge, nil
}

// PollToken polls the token endpoint once. Device-flow protocol errors
// (authorization_pending, slow_down, ...) arrive in the response body with
// a 200 status, so they are returned as data, not as an error.
func (c *DeviceClient) PollToken(deviceCode string) (model.AccessTokenResponse, error) {
	var resp model.AccessTokenResponse
	err := c.postJSON(c.tokenURL, map[string]string{
		"client_id":   c.clientID,
		"device_code": deviceCode,
		"grant_type":  grantType,
	}, &resp)
	if err != nil {
		return model.AccessTokenResponse{}, fmt.Errorf("poll for token: %w", err)
	}
	return resp, nil
}

func (c *DeviceClient) postJSON(url string, body map[string]string, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
