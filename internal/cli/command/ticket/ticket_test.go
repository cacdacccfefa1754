package ticket

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/childrens-bti/ticket-tracker-app/internal/prompt"
	"github.com/childrens-bti/ticket-tracker-app/internal/services"
)

type fakeDriver struct {
	inputs   []string
	confirm  bool
	confirms int
	infos    []string
}

func (d *fakeDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *fakeDriver) TextArea(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *fakeDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	d.confirms++
	return d.confirm, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	return cfg.DefaultIndex, nil
}

func (d *fakeDriver) MultiSelect(_ context.Context, cfg prompt.SelectConfig) ([]int, error) {
	return []int{0}, nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func transferTemplate() *models.Template {
	return &models.Template{
		ID:          "transfer",
		Name:        "Data Transfer",
		TitlePrefix: "[Transfer]",
		IssueType:   "transfer-request",
		Labels:      []string{"transfer"},
		Body: []models.FieldBlock{
			{ID: "source", Kind: models.KindText, Type: "input", Label: "Source location", Required: true},
			{ID: "checks", Kind: models.KindCheckboxes, Type: "checkboxes", Label: "Checks", Required: true,
				Options: []models.Option{{Label: "A"}, {Label: "B"}}},
		},
	}
}

type testEnv struct {
	app       *cli.Command
	out       *bytes.Buffer
	submitter *services.MockIssueSubmitter
	driver    *fakeDriver
	tokens    auth.TokenProvider
}

func setupTicketTest(t *testing.T) *testEnv {
	t.Helper()
	color.NoColor = true

	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	loader := new(services.MockTemplateLoader)
	loader.On("Load", mock.Anything, "transfer").Return(transferTemplate(), nil)
	loader.On("Load", mock.Anything, "nope").Return(nil, domainErrors.ErrTemplateNotFound)

	env := &testEnv{
		out:       &bytes.Buffer{},
		submitter: new(services.MockIssueSubmitter),
		driver:    &fakeDriver{},
		tokens:    auth.NewStaticProvider("token"),
	}
	svc := services.NewTicketService(loader,
		services.WithSubmitter(env.submitter),
		services.WithTokenProvider(env.tokens),
	)

	factory := NewTicketCommandFactory(
		func(context.Context) (TicketService, error) { return svc, nil },
		WithDriver(env.driver),
		WithPreviewStyle("notty"),
	)
	cfg := &config.Config{Repository: config.RepositoryConfig{Owner: "childrens-bti", Name: "tickets"}}
	env.app = &cli.Command{
		Name:     "ticket",
		Writer:   env.out,
		Commands: []*cli.Command{factory.CreateCommand(trans, cfg)},
	}
	return env
}

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("submits once from flags and an answers file", func(t *testing.T) {
		env := setupTicketTest(t)
		answers := writeAnswers(t, "source: s3://bucket\nchecks: [A, B]\n")
		env.submitter.On("Submit", mock.Anything, mock.MatchedBy(func(p *models.IssuePayload) bool {
			return p.Title == "[Transfer] Move crams" &&
				assert.ObjectsAreEqual([]string{"transfer-request", "transfer"}, p.Labels)
		}), env.tokens).Return(&models.SubmissionResult{
			Number: 12,
			URL:    "https://github.com/childrens-bti/tickets/issues/12",
		}, nil).Once()

		err := env.app.Run(ctx, []string{"ticket", "new",
			"--submitter", "Ada", "--lab", "D3b", "--title", "Move crams",
			"--answers", answers, "--no-prompt", "--yes", "transfer"})

		require.NoError(t, err)
		env.submitter.AssertNumberOfCalls(t, "Submit", 1)
		assert.Equal(t, 0, env.driver.confirms)
		assert.Contains(t, env.out.String(), "Issue #12 created: https://github.com/childrens-bti/tickets/issues/12")
	})

	t.Run("dry run never submits", func(t *testing.T) {
		env := setupTicketTest(t)
		answers := writeAnswers(t, "submitter_name: Ada\nlab: D3b\nticket_title: Move crams\nsource: s3://bucket\nchecks: A\n")

		err := env.app.Run(ctx, []string{"ticket", "submit", "--answers", answers, "--no-prompt", "--dry-run", "transfer"})

		require.NoError(t, err)
		env.submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
		assert.Contains(t, env.out.String(), "Title: [Transfer] Move crams")
		assert.Contains(t, env.out.String(), "Dry run: nothing was submitted")
	})

	t.Run("missing required fields block the submission", func(t *testing.T) {
		env := setupTicketTest(t)

		err := env.app.Run(ctx, []string{"ticket", "new", "--submitter", "Ada", "--no-prompt", "--yes", "transfer"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrRequiredFieldsMissing)
		env.submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("prompts for answers and stops when not confirmed", func(t *testing.T) {
		env := setupTicketTest(t)
		env.driver.inputs = []string{"Ada", "D3b", "Move crams", "s3://bucket"}
		env.driver.confirm = false

		err := env.app.Run(ctx, []string{"ticket", "new", "transfer"})

		require.NoError(t, err)
		assert.Equal(t, 1, env.driver.confirms)
		assert.Empty(t, env.driver.inputs)
		assert.Contains(t, env.out.String(), "Ticket not submitted")
		env.submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("submission errors are returned", func(t *testing.T) {
		env := setupTicketTest(t)
		answers := writeAnswers(t, "source: s3://bucket\nchecks: [A]\n")
		env.submitter.On("Submit", mock.Anything, mock.Anything, env.tokens).
			Return(nil, domainErrors.ErrGitHubRateLimit).Once()

		err := env.app.Run(ctx, []string{"ticket", "new",
			"-s", "Ada", "-l", "D3b", "-t", "Move crams", "-a", answers, "--no-prompt", "-y", "transfer"})

		assert.ErrorIs(t, err, domainErrors.ErrGitHubRateLimit)
		env.submitter.AssertNumberOfCalls(t, "Submit", 1)
	})

	t.Run("unknown template", func(t *testing.T) {
		env := setupTicketTest(t)

		err := env.app.Run(ctx, []string{"ticket", "new", "--no-prompt", "nope"})

		assert.ErrorIs(t, err, domainErrors.ErrTemplateNotFound)
	})

	t.Run("template id is required", func(t *testing.T) {
		env := setupTicketTest(t)

		err := env.app.Run(ctx, []string{"ticket", "new"})

		assert.Error(t, err)
		assert.Contains(t, env.out.String(), "A template id is required")
	})

	t.Run("project warnings are listed after success", func(t *testing.T) {
		env := setupTicketTest(t)
		answers := writeAnswers(t, "source: s3://bucket\nchecks: [A]\n")
		env.submitter.On("Submit", mock.Anything, mock.Anything, env.tokens).Return(&models.SubmissionResult{
			Number:          3,
			URL:             "https://github.com/childrens-bti/tickets/issues/3",
			ProjectWarnings: []string{"project 7: not found"},
		}, nil).Once()

		err := env.app.Run(ctx, []string{"ticket", "new",
			"-s", "Ada", "-l", "D3b", "-t", "Move crams", "-a", answers, "--no-prompt", "-y", "transfer"})

		require.NoError(t, err)
		assert.Contains(t, env.out.String(), "project 7: not found")
	})
}
