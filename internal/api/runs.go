package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kasli/gh-actions-panel/internal/model"
)

type RunsFilter struct {
	Branch  string
	Status  string
	PerPage int
}

func (f RunsFilter) QueryString() string {
	v := url.Values{}
	if f.Branch != "" {
		v.Set("branch", f.Branch)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	} else {
		v.Set("per_page", "30")
	}
	return "?" + v.Encode()
}

func (c *Client) ListRuns(owner, repo string, filter RunsFilter) (*model.RunsResponse, error) {
	var resp model.RunsResponse
	err := c.rest.Get(repoPath(owner, repo, "actions/runs")+filter.QueryString(), &resp)
	if err != nil {
		// Repo may have Actions disabled or no runs yet
		if strings.Contains(err.Error(), "404") {
			return &model.RunsResponse{}, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return &resp, nil
}
