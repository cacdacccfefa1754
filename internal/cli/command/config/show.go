package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			w := output(command)
			ui.PrintSectionBanner(w, t.GetMessage("config_current", 0, nil))

			ui.PrintKeyValue(w, "file", cfg.PathFile)
			ui.PrintKeyValue(w, "language", cfg.Language)
			ui.PrintKeyValue(w, "repository", repositoryLabel(cfg))
			if cfg.Repository.ProjectOwner != "" {
				ui.PrintKeyValue(w, "project owner", cfg.Repository.ProjectOwner)
			}
			if cfg.Repository.APIURL != "" {
				ui.PrintKeyValue(w, "api url", cfg.Repository.APIURL)
			}

			ui.PrintKeyValue(w, "templates", cfg.Templates.Source)
			switch cfg.Templates.Source {
			case config.SourceGitHub:
				ref := cfg.Templates.Ref
				if ref == "" {
					ref = "default branch"
				}
				ui.PrintKeyValue(w, "templates repository", fmt.Sprintf("%s/%s:%s (%s)",
					cfg.Templates.Owner, cfg.Templates.Repo, cfg.Templates.Path, ref))
				ui.PrintKeyValue(w, "templates cache", cfg.CacheTTL().String())
			default:
				ui.PrintKeyValue(w, "templates dir", cfg.Templates.Dir)
			}

			ui.PrintKeyValue(w, "auth", cfg.Auth.Mode)
			switch cfg.Auth.Mode {
			case config.AuthModeApp:
				ui.PrintKeyValue(w, "app id", strconv.FormatInt(cfg.Auth.AppID, 10))
				ui.PrintKeyValue(w, "installation id", strconv.FormatInt(cfg.Auth.InstallationID, 10))
				ui.PrintKeyValue(w, "private key", cfg.Auth.PrivateKeyPath)
			default:
				state := "not set"
				if os.Getenv(cfg.Auth.TokenEnv) != "" {
					state = "set"
				}
				ui.PrintKeyValue(w, "token", fmt.Sprintf("$%s (%s)", cfg.Auth.TokenEnv, state))
			}
			return nil
		},
	}
}

func repositoryLabel(cfg *config.Config) string {
	if !cfg.RepositoryConfigured() {
		return "not configured"
	}
	return cfg.Repository.Owner + "/" + cfg.Repository.Name
}
