package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/childrens-bti/ticket-tracker-app/internal/vcs"
)

var _ vcs.IssueSubmitter = (*GitHubClient)(nil)

type IssuesService interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// ProjectsService adds issues to organization projects (Projects v2).
type ProjectsService interface {
	AddIssue(ctx context.Context, org string, projectNumber int, issueID int64) (*github.Response, error)
}

type services struct {
	issues   IssuesService
	projects ProjectsService
}

type GitHubClient struct {
	owner        string
	repo         string
	projectOwner string
	baseURL      string
	// servicesFor builds the API services for one authenticated submission.
	servicesFor func(ctx context.Context, token string) (services, error)
}

type Option func(*GitHubClient)

// WithProjectOwner sets the organization that owns the projects issues are
// added to. Defaults to the repository owner.
func WithProjectOwner(org string) Option {
	return func(c *GitHubClient) {
		if org != "" {
			c.projectOwner = org
		}
	}
}

// WithBaseURL points the client at a GitHub Enterprise API.
func WithBaseURL(url string) Option {
	return func(c *GitHubClient) {
		c.baseURL = url
	}
}

func NewGitHubClient(owner, repo string, opts ...Option) *GitHubClient {
	c := &GitHubClient{
		owner:        owner,
		repo:         repo,
		projectOwner: owner,
	}
	c.servicesFor = c.newServices
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewGitHubClientWithServices(issues IssuesService, projects ProjectsService, owner, repo string, opts ...Option) *GitHubClient {
	c := NewGitHubClient(owner, repo, opts...)
	c.servicesFor = func(context.Context, string) (services, error) {
		return services{issues: issues, projects: projects}, nil
	}
	return c
}

func (c *GitHubClient) newServices(ctx context.Context, token string) (services, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if c.baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(c.baseURL, c.baseURL)
		if err != nil {
			return services{}, domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid GitHub API URL", err).
				WithContext("url", c.baseURL)
		}
	}
	return services{
		issues:   client.Issues,
		projects: &projectsV2{client: client},
	}, nil
}

func (c *GitHubClient) Repository() string {
	return fmt.Sprintf("%s/%s", c.owner, c.repo)
}

// Submit creates the issue and then adds it to every project of the payload.
// Project failures do not undo the issue; they come back as warnings.
func (c *GitHubClient) Submit(ctx context.Context, payload *models.IssuePayload, tokens auth.TokenProvider) (*models.SubmissionResult, error) {
	if payload == nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "nothing to submit", nil)
	}
	if c.owner == "" || c.repo == "" {
		return nil, domainErrors.ErrRepositoryMissing
	}
	if tokens == nil {
		return nil, domainErrors.ErrTokenMissing
	}

	token, err := tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := c.servicesFor(ctx, token)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "creating github issue",
		"owner", c.owner,
		"repo", c.repo,
		"title", payload.Title,
		"labels_count", len(payload.Labels),
		"projects_count", len(payload.ProjectIDs))

	labels := payload.Labels
	if labels == nil {
		labels = []string{}
	}
	req := &github.IssueRequest{
		Title:  github.Ptr(payload.Title),
		Body:   github.Ptr(payload.Body),
		Labels: &labels,
	}

	issue, resp, err := svc.issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		subErr := newSubmissionError(resp, err, c.Repository())
		logger.Error(ctx, "failed to create github issue", err,
			"owner", c.owner,
			"repo", c.repo,
			"status", subErr.StatusCode)
		return nil, subErr
	}

	result := &models.SubmissionResult{
		ID:     issue.GetID(),
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		URL:    issue.GetHTMLURL(),
		Labels: make([]string, 0, len(issue.Labels)),
	}
	for _, l := range issue.Labels {
		if l.Name != nil {
			result.Labels = append(result.Labels, l.GetName())
		}
	}

	logger.Info(ctx, "github issue created",
		"number", result.Number,
		"issue_url", result.URL)

	for _, number := range payload.ProjectIDs {
		if _, err := svc.projects.AddIssue(ctx, c.projectOwner, number, result.ID); err != nil {
			logger.Warn(ctx, "failed to add issue to project",
				"project", number,
				"org", c.projectOwner,
				"error", err)
			result.ProjectWarnings = append(result.ProjectWarnings,
				fmt.Sprintf("could not add issue #%d to project %s/%d: %v", result.Number, c.projectOwner, number, err))
		}
	}

	return result, nil
}

// classify maps a failed API call to the matching domain error.
func classify(statusCode int, err error, repository string) *domainErrors.AppError {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.WithError(err)
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return domainErrors.ErrGitHubTokenInvalid.WithError(err)
	case http.StatusForbidden:
		return domainErrors.ErrGitHubInsufficientPerms.WithError(err).WithContext("repo", repository)
	case http.StatusNotFound:
		return domainErrors.ErrRepositoryNotFound.WithError(err).WithContext("repo", repository)
	case http.StatusUnprocessableEntity:
		return domainErrors.ErrGitHubValidation.WithError(err)
	case http.StatusTooManyRequests:
		return domainErrors.ErrGitHubRateLimit.WithError(err)
	default:
		return domainErrors.NewAppError(domainErrors.TypeSubmission, "failed to create issue", err).
			WithContext("repo", repository)
	}
}
