package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// JobLogs downloads the raw log text for a job. GitHub answers with a 302
// redirect to a short-lived archive URL, so redirects are handled manually:
// the first request carries auth, the redirect target must not.
func (c *Client) JobLogs(ctx context.Context, owner, repo string, jobID int64) (string, error) {
	httpClient := *c.http
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	url := fmt.Sprintf("https://api.github.com/%s", repoPath(owner, repo, fmt.Sprintf("actions/jobs/%d/logs", jobID)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build log request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("log request failed: %w", err)
	}

	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusTemporaryRedirect {
		location := resp.Header.Get("Location")
		resp.Body.Close()
		if location == "" {
			return "", fmt.Errorf("redirect with no Location header")
		}
		redirectReq, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return "", fmt.Errorf("create redirect request: %w", err)
		}
		resp, err = http.DefaultClient.Do(redirectReq)
		if err != nil {
			return "", fmt.Errorf("follow redirect: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d downloading logs for job %d", resp.StatusCode, jobID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read log body: %w", err)
	}
	return string(data), nil
}
