package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	"github.com/childrens-bti/ticket-tracker-app/internal/composer"
	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/form"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/childrens-bti/ticket-tracker-app/internal/vcs"
)

// templateLoader is a minimal interface for testing purposes
type templateLoader interface {
	Load(ctx context.Context, id string) (*models.Template, error)
}

type TicketService struct {
	templates templateLoader
	submitter vcs.IssueSubmitter
	tokens    auth.TokenProvider
	registry  *fields.Registry
}

type TicketOption func(*TicketService)

func WithSubmitter(submitter vcs.IssueSubmitter) TicketOption {
	return func(s *TicketService) {
		s.submitter = submitter
	}
}

func WithTokenProvider(tokens auth.TokenProvider) TicketOption {
	return func(s *TicketService) {
		s.tokens = tokens
	}
}

func WithRegistry(registry *fields.Registry) TicketOption {
	return func(s *TicketService) {
		s.registry = registry
	}
}

func NewTicketService(templates templateLoader, opts ...TicketOption) *TicketService {
	s := &TicketService{
		templates: templates,
		registry:  fields.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TicketService) Registry() *fields.Registry {
	return s.registry
}

// Start loads a template and opens a fresh session for it. Blocks the
// registry cannot handle are recorded as session notices.
func (s *TicketService) Start(ctx context.Context, templateID string) (*form.Session, error) {
	tpl, err := s.templates.Load(ctx, templateID)
	if err != nil {
		return nil, err
	}

	session := form.NewSession(tpl)
	ctx = logger.With(ctx, "session", session.ID())

	for i, b := range tpl.Body {
		if s.registry.Supports(b.Kind) {
			continue
		}
		name := b.ID
		if name == "" {
			name = fmt.Sprintf("block %d", i)
		}
		msg := fmt.Sprintf("%s: %s %q, skipped", name, fields.ReasonUnsupported, b.Type)
		session.Notice(msg)
		logger.Info(ctx, "skipping unsupported block", "template", tpl.ID, "field", name, "type", b.Type)
	}

	logger.Info(ctx, "form session started", "template", tpl.ID, "blocks", len(tpl.Body))
	return session, nil
}

// Preview composes the payload the session would submit.
func (s *TicketService) Preview(ctx context.Context, session *form.Session) (*models.IssuePayload, error) {
	return s.compose(ctx, session.Template(), session.Snapshot())
}

// Submit freezes the session, composes the issue and hands it to the
// submitter exactly once. Nothing is sent when composition fails.
func (s *TicketService) Submit(ctx context.Context, session *form.Session) (*models.SubmissionResult, error) {
	if s.submitter == nil {
		return nil, domainErrors.ErrConfigMissing.WithContext("detail", "no issue tracker configured")
	}

	snap := session.Snapshot()
	ctx = logger.With(ctx, "session", snap.SessionID())

	payload, err := s.compose(ctx, session.Template(), snap)
	if err != nil {
		return nil, err
	}

	result, err := s.submitter.Submit(ctx, payload, s.tokens)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "ticket submitted",
		"template", session.Template().ID,
		"issue_url", result.URL,
		"warnings", len(result.ProjectWarnings))
	return result, nil
}

func (s *TicketService) compose(ctx context.Context, tpl *models.Template, snap form.Snapshot) (*models.IssuePayload, error) {
	payload, err := composer.ComposeWith(s.registry, tpl, snap)
	if err != nil {
		var count int
		var errs fields.ValidationErrors
		if errors.As(err, &errs) {
			count = len(errs)
		}
		logger.Warn(ctx, "ticket not composed", "template", tpl.ID, "error", err, "count", count)
		return nil, err
	}
	logger.Debug(ctx, "ticket composed",
		"template", tpl.ID,
		"title", payload.Title,
		"labels", payload.Labels,
		"projects", payload.ProjectIDs)
	return payload, nil
}
