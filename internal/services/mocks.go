package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

type (
	MockTemplateLoader struct {
		mock.Mock
	}

	MockIssueSubmitter struct {
		mock.Mock
	}
)

func (m *MockTemplateLoader) Load(ctx context.Context, id string) (*models.Template, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Template), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIssueSubmitter) Submit(ctx context.Context, payload *models.IssuePayload, tokens auth.TokenProvider) (*models.SubmissionResult, error) {
	args := m.Called(ctx, payload, tokens)
	if v := args.Get(0); v != nil {
		return v.(*models.SubmissionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIssueSubmitter) Repository() string {
	args := m.Called()
	return args.String(0)
}
