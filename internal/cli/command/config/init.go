package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/prompt"
	"github.com/childrens-bti/ticket-tracker-app/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Usage: t.GetMessage("prompt_repo_owner", 0, nil)},
			&cli.StringFlag{Name: "repo", Usage: t.GetMessage("prompt_repo_name", 0, nil)},
			&cli.StringFlag{Name: "lang", Usage: t.GetMessage("prompt_language", 0, nil)},
			&cli.BoolFlag{Name: "app", Usage: t.GetMessage("prompt_auth_mode", 0, nil)},
			&cli.StringFlag{Name: "token-env", Usage: t.GetMessage("prompt_token_env", 0, nil)},
			&cli.StringFlag{Name: "app-id", Usage: t.GetMessage("prompt_app_id", 0, nil)},
			&cli.StringFlag{Name: "installation-id", Usage: t.GetMessage("prompt_installation_id", 0, nil)},
			&cli.StringFlag{Name: "private-key", Usage: t.GetMessage("prompt_private_key", 0, nil)},
			&cli.StringFlag{Name: "templates-repo", Usage: t.GetMessage("prompt_template_repo", 0, nil)},
			&cli.BoolFlag{Name: "no-prompt", Usage: t.GetMessage("flag_no_prompt", 0, nil)},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			s := &setup{
				ctx:         ctx,
				driver:      c.driver,
				t:           t,
				interactive: !command.Bool("no-prompt"),
			}
			if err := s.run(command, cfg); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				ui.HandleAppError(err, t)
				return err
			}
			ui.PrintSuccess(output(command), t.GetMessage("config_saved", 0, map[string]interface{}{"Path": cfg.PathFile}))
			return nil
		},
	}
}

// setup fills the configuration from flags, asking for what they leave out.
type setup struct {
	ctx         context.Context
	driver      prompt.Driver
	t           *i18n.Translations
	interactive bool
}

func (s *setup) run(command *cli.Command, cfg *config.Config) error {
	var err error

	if cfg.Language, err = s.choose(command, "lang", "prompt_language", []string{config.LangEN, config.LangES}, cfg.Language); err != nil {
		return err
	}
	if cfg.Repository.Owner, err = s.text(command, "owner", "prompt_repo_owner", cfg.Repository.Owner); err != nil {
		return err
	}
	if cfg.Repository.Name, err = s.text(command, "repo", "prompt_repo_name", cfg.Repository.Name); err != nil {
		return err
	}

	if err := s.templates(command, cfg); err != nil {
		return err
	}
	return s.auth(command, cfg)
}

func (s *setup) templates(command *cli.Command, cfg *config.Config) error {
	repo := command.String("templates-repo")
	if repo == "" && s.interactive {
		source, err := s.choose(command, "", "prompt_template_source", []string{config.SourceLocal, config.SourceGitHub}, cfg.Templates.Source)
		if err != nil {
			return err
		}
		if source == config.SourceGitHub {
			current := ""
			if cfg.Templates.Owner != "" {
				current = cfg.Templates.Owner + "/" + cfg.Templates.Repo
			}
			if repo, err = s.text(command, "", "prompt_template_repo", current); err != nil {
				return err
			}
		} else {
			cfg.Templates.Source = config.SourceLocal
		}
	}
	if repo == "" {
		return nil
	}

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("templates repository must look like owner/name, got %q", repo)
	}
	cfg.Templates.Source = config.SourceGitHub
	cfg.Templates.Owner = owner
	cfg.Templates.Repo = name
	if cfg.Templates.Path == "" {
		cfg.Templates.Path = config.DefaultTemplatePath
	}
	return nil
}

func (s *setup) auth(command *cli.Command, cfg *config.Config) error {
	mode := cfg.Auth.Mode
	if command.Bool("app") {
		mode = config.AuthModeApp
	} else if s.interactive {
		var err error
		if mode, err = s.choose(command, "", "prompt_auth_mode", []string{config.AuthModePAT, config.AuthModeApp}, mode); err != nil {
			return err
		}
	}
	cfg.Auth.Mode = mode

	var err error
	if mode != config.AuthModeApp {
		if cfg.Auth.TokenEnv == "" {
			cfg.Auth.TokenEnv = config.DefaultTokenEnv
		}
		cfg.Auth.TokenEnv, err = s.text(command, "token-env", "prompt_token_env", cfg.Auth.TokenEnv)
		return err
	}

	if cfg.Auth.AppID, err = s.number(command, "app-id", "prompt_app_id", cfg.Auth.AppID); err != nil {
		return err
	}
	if cfg.Auth.InstallationID, err = s.number(command, "installation-id", "prompt_installation_id", cfg.Auth.InstallationID); err != nil {
		return err
	}
	cfg.Auth.PrivateKeyPath, err = s.text(command, "private-key", "prompt_private_key", cfg.Auth.PrivateKeyPath)
	return err
}

// text returns the flag value when set, otherwise asks with current as the
// default. Without prompts current is kept.
func (s *setup) text(command *cli.Command, flag, messageID, current string) (string, error) {
	if flag != "" {
		if v := strings.TrimSpace(command.String(flag)); v != "" {
			return v, nil
		}
	}
	if !s.interactive {
		return current, nil
	}
	v, err := s.driver.Input(s.ctx, prompt.InputConfig{
		Message: s.t.GetMessage(messageID, 0, nil),
		Default: current,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func (s *setup) number(command *cli.Command, flag, messageID string, current int64) (int64, error) {
	def := ""
	if current > 0 {
		def = strconv.FormatInt(current, 10)
	}
	v, err := s.text(command, flag, messageID, def)
	if err != nil || v == "" {
		return current, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s", s.t.GetMessage("error_invalid_number", 0, map[string]interface{}{"Value": v}))
	}
	return n, nil
}

func (s *setup) choose(command *cli.Command, flag, messageID string, options []string, current string) (string, error) {
	if flag != "" {
		if v := strings.TrimSpace(command.String(flag)); v != "" {
			return v, nil
		}
	}
	if !s.interactive {
		return current, nil
	}
	def := 0
	for i, o := range options {
		if o == current {
			def = i
		}
	}
	i, err := s.driver.Select(s.ctx, prompt.SelectConfig{
		Message:      s.t.GetMessage(messageID, 0, nil),
		Options:      options,
		DefaultIndex: def,
	})
	if err != nil {
		return "", err
	}
	return options[i], nil
}
