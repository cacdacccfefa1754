package vcs

import (
	"context"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

// IssueSubmitter delivers a composed issue to a tracker.
type IssueSubmitter interface {
	// Submit creates exactly one issue from payload. It never retries; a
	// failed call is reported and left to the user to repeat.
	Submit(ctx context.Context, payload *models.IssuePayload, tokens auth.TokenProvider) (*models.SubmissionResult, error)
	// Repository returns the "owner/name" issues are created in.
	Repository() string
}
