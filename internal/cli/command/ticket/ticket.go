package ticket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/childrens-bti/ticket-tracker-app/internal/cli/completion_helper"
	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/form"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/childrens-bti/ticket-tracker-app/internal/prompt"
	"github.com/childrens-bti/ticket-tracker-app/internal/ui"
	"github.com/urfave/cli/v3"
)

// TicketService is a minimal interface for testing purposes
type TicketService interface {
	Start(ctx context.Context, templateID string) (*form.Session, error)
	ApplyAnswers(ctx context.Context, session *form.Session, raw []byte) error
	Preview(ctx context.Context, session *form.Session) (*models.IssuePayload, error)
	Submit(ctx context.Context, session *form.Session) (*models.SubmissionResult, error)
	Registry() *fields.Registry
}

type TicketServiceProvider func(ctx context.Context) (TicketService, error)

type TemplateListerProvider func(ctx context.Context) (completion_helper.TemplateLister, error)

type TicketCommandFactory struct {
	provider     TicketServiceProvider
	lister       TemplateListerProvider
	driver       prompt.Driver
	previewStyle string
}

type Option func(*TicketCommandFactory)

// WithDriver replaces the terminal prompts.
func WithDriver(driver prompt.Driver) Option {
	return func(f *TicketCommandFactory) {
		f.driver = driver
	}
}

// WithPreviewStyle sets the glamour style of the preview ("notty" for plain text).
func WithPreviewStyle(style string) Option {
	return func(f *TicketCommandFactory) {
		f.previewStyle = style
	}
}

// WithTemplateLister enables template id completion.
func WithTemplateLister(lister TemplateListerProvider) Option {
	return func(f *TicketCommandFactory) {
		f.lister = lister
	}
}

func NewTicketCommandFactory(provider TicketServiceProvider, opts ...Option) *TicketCommandFactory {
	f := &TicketCommandFactory{provider: provider}
	for _, opt := range opts {
		opt(f)
	}
	if f.driver == nil {
		f.driver = prompt.NewSurveyDriver()
	}
	return f
}

func (f *TicketCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	cmd := &cli.Command{
		Name:          "new",
		Aliases:       []string{"submit"},
		Usage:         t.GetMessage("new_command_usage", 0, nil),
		ArgsUsage:     t.GetMessage("new_command_args", 0, nil),
		Flags:         f.createFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t, cfg),
	}
	if f.lister != nil {
		cmd.ShellComplete = completion_helper.TemplateComplete(f.lister)
	}
	return cmd
}

func (f *TicketCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "submitter",
			Aliases: []string{"s"},
			Usage:   t.GetMessage("flag_submitter", 0, nil),
		},
		&cli.StringFlag{
			Name:    "lab",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("flag_lab", 0, nil),
		},
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   t.GetMessage("flag_title", 0, nil),
		},
		&cli.StringFlag{
			Name:    "answers",
			Aliases: []string{"a"},
			Usage:   t.GetMessage("flag_answers", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: t.GetMessage("flag_dry_run", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   t.GetMessage("flag_yes", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "no-prompt",
			Usage: t.GetMessage("flag_no_prompt", 0, nil),
		},
	}
}

func output(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func (f *TicketCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		w := output(command)
		templateID := command.Args().First()
		if templateID == "" {
			ui.PrintError(w, t.GetMessage("error_missing_template_id", 0, nil))
			return fmt.Errorf("%s", t.GetMessage("error_missing_template_id", 0, nil))
		}

		svc, err := f.provider(ctx)
		if err != nil {
			ui.HandleAppError(err, t)
			return err
		}

		var session *form.Session
		err = ui.WithSpinner(t.GetMessage("loading_template", 0, map[string]interface{}{"ID": templateID}), func() error {
			var startErr error
			session, startErr = svc.Start(ctx, templateID)
			return startErr
		})
		if err != nil {
			ui.HandleAppError(err, t)
			return err
		}
		ctx = logger.With(ctx, "session", session.ID())

		if err := f.prefill(ctx, svc, session, command); err != nil {
			ui.HandleAppError(err, t)
			return err
		}

		if command.Bool("no-prompt") {
			ui.PrintList(w, t.GetMessage("notices_header", 0, nil), session.Notices())
		} else {
			filler := prompt.NewFiller(f.driver, svc.Registry())
			if err := filler.Fill(ctx, session); err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					ui.PrintWarning(w, t.GetMessage("submission_cancelled", 0, nil))
					return nil
				}
				return err
			}
		}

		payload, err := svc.Preview(ctx, session)
		if err != nil {
			ui.HandleAppError(err, t)
			return err
		}

		previewer, err := ui.NewPreviewer(f.previewStyle, t)
		if err != nil {
			return err
		}
		previewer.Print(w, payload)

		if command.Bool("dry-run") {
			ui.PrintInfo(w, t.GetMessage("dry_run_notice", 0, nil))
			return nil
		}

		repo := fmt.Sprintf("%s/%s", cfg.Repository.Owner, cfg.Repository.Name)
		if !command.Bool("yes") {
			ok, err := f.driver.Confirm(ctx, prompt.ConfirmConfig{
				Message: t.GetMessage("confirm_submit", 0, map[string]interface{}{"Repo": repo}),
				Default: true,
			})
			if err != nil && !errors.Is(err, prompt.ErrAborted) {
				return err
			}
			if !ok {
				ui.PrintWarning(w, t.GetMessage("submission_cancelled", 0, nil))
				return nil
			}
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("submitting_ticket", 0, map[string]interface{}{"Repo": repo}))
		spinner.Start()
		result, err := svc.Submit(ctx, session)
		spinner.Stop()
		if err != nil {
			ui.HandleAppError(err, t)
			return err
		}

		ui.PrintSuccess(w, t.GetMessage("ticket_created", 0, map[string]interface{}{
			"Number": result.Number,
			"URL":    result.URL,
		}))
		ui.PrintList(w, t.GetMessage("project_warnings_header", 0, nil), result.ProjectWarnings)
		return nil
	}
}

// prefill applies the answers file first so flags override it.
func (f *TicketCommandFactory) prefill(ctx context.Context, svc TicketService, session *form.Session, command *cli.Command) error {
	if path := command.String("answers"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading answers file %s: %w", path, err)
		}
		if err := svc.ApplyAnswers(ctx, session, raw); err != nil {
			return err
		}
	}

	fixed := map[string]string{
		form.SubmitterName: command.String("submitter"),
		form.Lab:           command.String("lab"),
		form.TicketTitle:   command.String("title"),
	}
	for _, ff := range form.FixedFields {
		if v := fixed[ff.ID]; v != "" {
			if err := session.SetFixed(ff.ID, v); err != nil {
				return err
			}
		}
	}
	return nil
}
