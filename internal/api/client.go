package api

import (
	"fmt"
	"net/http"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

const apiVersion = "2022-11-28"

// Client talks to the GitHub REST API with a bearer token obtained from
// the device flow. It is not bound to a repository; owner/repo are passed
// per call since the selected repository changes at runtime.
type Client struct {
	rest *ghAPI.RESTClient
	http *http.Client
}

func NewClient(token string) (*Client, error) {
	opts := ghAPI.ClientOptions{
		AuthToken: token,
		Headers:   map[string]string{"X-GitHub-Api-Version": apiVersion},
	}
	rest, err := ghAPI.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create GitHub client: %w", err)
	}
	httpClient, err := ghAPI.NewHTTPClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create HTTP client: %w", err)
	}
	return &Client{rest: rest, http: httpClient}, nil
}

func repoPath(owner, repo, path string) string {
	return fmt.Sprintf("repos/%s/%s/%s", owner, repo, path)
}
