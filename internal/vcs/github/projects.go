package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v80/github"
)

// projectsV2 calls the REST endpoints of organization projects directly.
type projectsV2 struct {
	client *github.Client
}

type projectItemRequest struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

func (p *projectsV2) AddIssue(ctx context.Context, org string, projectNumber int, issueID int64) (*github.Response, error) {
	u := fmt.Sprintf("orgs/%s/projectsV2/%d/items", org, projectNumber)
	req, err := p.client.NewRequest("POST", u, &projectItemRequest{Type: "Issue", ID: issueID})
	if err != nil {
		return nil, err
	}
	return p.client.Do(ctx, req, nil)
}
