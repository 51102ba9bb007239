package api

import (
	"fmt"

	"github.com/kasli/gh-actions-panel/internal/model"
)

// ListRepositories returns the authenticated user's repositories, most
// recently pushed first.
func (c *Client) ListRepositories() ([]model.Repository, error) {
	var repos []model.Repository
	err := c.rest.Get("user/repos?sort=pushed&per_page=100", &repos)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	return repos, nil
}
