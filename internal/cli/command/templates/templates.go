package templates

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/childrens-bti/ticket-tracker-app/internal/cli/completion_helper"
	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/childrens-bti/ticket-tracker-app/internal/ui"
	"github.com/urfave/cli/v3"
)

// TemplateService is a minimal interface for testing purposes
type TemplateService interface {
	Load(ctx context.Context, id string) (*models.Template, error)
	ListTemplates(ctx context.Context) ([]models.TemplateMetadata, error)
	InitializeTemplates(ctx context.Context, force bool) error
	Dir() string
}

type TemplateServiceProvider func(ctx context.Context) (TemplateService, error)

type TemplateCommandFactory struct {
	provider TemplateServiceProvider
	registry *fields.Registry
}

func NewTemplateCommandFactory(provider TemplateServiceProvider) *TemplateCommandFactory {
	return &TemplateCommandFactory{provider: provider, registry: fields.NewRegistry()}
}

func (f *TemplateCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "template",
		Aliases: []string{"t"},
		Usage:   t.GetMessage("template_command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newListCommand(t),
			f.newShowCommand(t),
			f.newInitCommand(t),
		},
	}
}

func output(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func (f *TemplateCommandFactory) lister(ctx context.Context) (completion_helper.TemplateLister, error) {
	return f.provider(ctx)
}

func (f *TemplateCommandFactory) newListCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("template_list_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := output(cmd)
			svc, err := f.provider(ctx)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}

			tpls, err := svc.ListTemplates(ctx)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			if len(tpls) == 0 {
				ui.PrintInfo(w, t.GetMessage("no_templates", 0, nil))
				return nil
			}

			ui.PrintSectionBanner(w, t.GetMessage("templates_header", 0, nil))
			for _, tpl := range tpls {
				ui.PrintKeyValue(w, tpl.ID, tpl.Name)
				if tpl.Description != "" {
					_, _ = fmt.Fprintf(w, "      %s\n", ui.Dim.Sprint(tpl.Description))
				}
			}
			return nil
		},
	}
}

func (f *TemplateCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:          "show",
		Usage:         t.GetMessage("template_show_usage", 0, nil),
		ArgsUsage:     t.GetMessage("new_command_args", 0, nil),
		ShellComplete: completion_helper.TemplateComplete(f.lister),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := output(cmd)
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("%s", t.GetMessage("error_missing_template_id", 0, nil))
			}

			svc, err := f.provider(ctx)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			tpl, err := svc.Load(ctx, id)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}

			ui.PrintSectionBanner(w, t.GetMessage("template_fields_header", 0, map[string]interface{}{"Name": tpl.Name}))
			if tpl.Description != "" {
				_, _ = fmt.Fprintf(w, "%s\n\n", tpl.Description)
			}
			for _, b := range tpl.Body {
				if b.Kind == models.KindMarkdown {
					continue
				}
				note := ""
				switch {
				case !f.registry.Supports(b.Kind):
					note = " " + ui.Warning.Sprintf("(%s)", t.GetMessage("field_unsupported", 0, nil))
				case b.Required:
					note = " " + ui.Accent.Sprintf("(%s)", t.GetMessage("field_required", 0, nil))
				}
				_, _ = fmt.Fprintf(w, "   %s %s %s%s\n", ui.Info.Sprint(b.ID), ui.Dim.Sprintf("[%s]", b.Type), b.Label, note)
				for _, opt := range b.Options {
					_, _ = fmt.Fprintf(w, "      - %s\n", opt.Label)
				}
			}
			return nil
		},
	}
}

func (f *TemplateCommandFactory) newInitCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("template_init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag_force", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := f.provider(ctx)
			if err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			if err := svc.InitializeTemplates(ctx, cmd.Bool("force")); err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			ui.PrintSuccess(output(cmd), t.GetMessage("templates_created", 0, map[string]interface{}{"Dir": svc.Dir()}))
			return nil
		},
	}
}
