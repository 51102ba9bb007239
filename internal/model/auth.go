package model

import "time"

// DeviceCodeChallenge is the response to a device authorization request.
// The user enters UserCode at VerificationURI while the client polls the
// token endpoint every Interval seconds, for at most ExpiresIn seconds.
type DeviceCodeChallenge struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

func (c DeviceCodeChallenge) PollInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

func (c DeviceCodeChallenge) ValidFor() time.Duration {
	return time.Duration(c.ExpiresIn) * time.Second
}

// AccessTokenResponse is the token endpoint response. Either AccessToken
// is set, or Error carries one of the device-flow error codes.
type AccessTokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
