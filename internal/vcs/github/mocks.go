package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockIssuesService struct {
	mock.Mock
}

func (m *MockIssuesService) Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error) {
	args := m.Called(ctx, owner, repo, issue)
	var resp *github.Response
	if v := args.Get(1); v != nil {
		resp = v.(*github.Response)
	}
	if v := args.Get(0); v != nil {
		return v.(*github.Issue), resp, args.Error(2)
	}
	return nil, resp, args.Error(2)
}

type MockProjectsService struct {
	mock.Mock
}

func (m *MockProjectsService) AddIssue(ctx context.Context, org string, projectNumber int, issueID int64) (*github.Response, error) {
	args := m.Called(ctx, org, projectNumber, issueID)
	if v := args.Get(0); v != nil {
		return v.(*github.Response), args.Error(1)
	}
	return nil, args.Error(1)
}
