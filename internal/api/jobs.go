package api

import (
	"fmt"
	"strings"

	"github.com/kasli/gh-actions-panel/internal/model"
)

// ListJobs returns the jobs (with nested steps) for a workflow run.
func (c *Client) ListJobs(owner, repo string, runID int64) (*model.JobsResponse, error) {
	var resp model.JobsResponse
	path := repoPath(owner, repo, fmt.Sprintf("actions/runs/%d/jobs", runID))
	err := c.rest.Get(path, &resp)
	if err != nil {
		// Run may have been deleted between fetches
		if strings.Contains(err.Error(), "404") {
			return &model.JobsResponse{}, nil
		}
		return nil, fmt.Errorf("list jobs for run %d: %w", runID, err)
	}
	return &resp, nil
}
