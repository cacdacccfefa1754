package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/childrens-bti/ticket-tracker-app/internal/cli/command/completion"
	configcmd "github.com/childrens-bti/ticket-tracker-app/internal/cli/command/config"
	templatecmd "github.com/childrens-bti/ticket-tracker-app/internal/cli/command/templates"
	"github.com/childrens-bti/ticket-tracker-app/internal/cli/command/ticket"
	"github.com/childrens-bti/ticket-tracker-app/internal/cli/completion_helper"
	"github.com/childrens-bti/ticket-tracker-app/internal/cli/registry"
	cfg "github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/infrastructure/di"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/ui"
	"github.com/childrens-bti/ticket-tracker-app/internal/version"
	"github.com/urfave/cli/v3"
)

// configEnv points at a config file other than ~/.ticket-tracker/config.json.
const configEnv = "TICKET_TRACKER_CONFIG"

func main() {
	app, err := initializeApp()
	if err != nil {
		ui.HandleAppError(err)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func configLocation() (string, error) {
	if path := os.Getenv(configEnv); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get the user home directory: %w", err)
	}
	return homeDir, nil
}

func initializeApp() (*cli.Command, error) {
	location, err := configLocation()
	if err != nil {
		return nil, err
	}

	cfgApp, err := cfg.LoadConfig(location)
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, filepath.Join(filepath.Dir(cfgApp.PathFile), "locales"))
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	container := di.NewContainer(cfgApp, translations)

	ticketProvider := func(ctx context.Context) (ticket.TicketService, error) {
		svc, err := container.GetTicketService(ctx)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	templateProvider := func(ctx context.Context) (templatecmd.TemplateService, error) {
		svc, err := container.GetTemplateService(ctx)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	templateLister := func(ctx context.Context) (completion_helper.TemplateLister, error) {
		return templateProvider(ctx)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("new", ticket.NewTicketCommandFactory(ticketProvider, ticket.WithTemplateLister(templateLister))); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("template", templatecmd.NewTemplateCommandFactory(templateProvider)); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("config", configcmd.NewConfigCommandFactory(nil)); err != nil {
		return nil, err
	}

	commands := registerCommand.CreateCommands()
	commands = append(commands, completion.NewCompletionCommand(translations))

	return &cli.Command{
		Name:    "ticket",
		Usage:   translations.GetMessage("app_usage", 0, nil),
		Version: version.FullVersion(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag_debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flag_verbose", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands:              commands,
		EnableShellCompletion: true,
	}, nil
}
