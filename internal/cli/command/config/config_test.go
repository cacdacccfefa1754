package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/prompt"
)

// queueDriver answers Input and Select prompts in order.
type queueDriver struct {
	inputs  []string
	selects []int
	asked   []string
}

func (d *queueDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *queueDriver) TextArea(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *queueDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *queueDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *queueDriver) MultiSelect(context.Context, prompt.SelectConfig) ([]int, error) {
	return nil, nil
}

func (d *queueDriver) Info(context.Context, string) error {
	return nil
}

func setupConfigTest(t *testing.T, driver prompt.Driver) (*config.Config, *cli.Command, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "ticket",
		Writer:   &out,
		Commands: []*cli.Command{NewConfigCommandFactory(driver).CreateCommand(translations, cfg)},
	}
	return cfg, app, &out
}

func TestInitCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("should save flags without prompting", func(t *testing.T) {
		driver := &queueDriver{}
		cfg, app, out := setupConfigTest(t, driver)

		err := app.Run(ctx, []string{"ticket", "config", "init", "--no-prompt",
			"--owner", "childrens-bti", "--repo", "tickets", "--lang", "es",
			"--templates-repo", "childrens-bti/ticket-templates"})

		require.NoError(t, err)
		assert.Empty(t, driver.asked)
		assert.Contains(t, out.String(), "Configuration saved to "+cfg.PathFile)

		saved, err := config.LoadConfig(cfg.PathFile)
		require.NoError(t, err)
		assert.Equal(t, "childrens-bti", saved.Repository.Owner)
		assert.Equal(t, "tickets", saved.Repository.Name)
		assert.Equal(t, config.LangES, saved.Language)
		assert.Equal(t, config.SourceGitHub, saved.Templates.Source)
		assert.Equal(t, "ticket-templates", saved.Templates.Repo)
		assert.Equal(t, config.DefaultTemplatePath, saved.Templates.Path)
		assert.Equal(t, config.AuthModePAT, saved.Auth.Mode)
		assert.Equal(t, config.DefaultTokenEnv, saved.Auth.TokenEnv)
	})

	t.Run("should configure app authentication from flags", func(t *testing.T) {
		cfg, app, _ := setupConfigTest(t, &queueDriver{})

		err := app.Run(ctx, []string{"ticket", "config", "init", "--no-prompt",
			"--owner", "childrens-bti", "--repo", "tickets", "--app",
			"--app-id", "12345", "--installation-id", "9876543210", "--private-key", "/keys/app.pem"})

		require.NoError(t, err)
		assert.Equal(t, config.AuthModeApp, cfg.Auth.Mode)
		assert.Equal(t, int64(12345), cfg.Auth.AppID)
		assert.Equal(t, int64(9876543210), cfg.Auth.InstallationID)
		assert.Equal(t, "/keys/app.pem", cfg.Auth.PrivateKeyPath)
	})

	t.Run("should reject invalid ids", func(t *testing.T) {
		_, app, _ := setupConfigTest(t, &queueDriver{})

		err := app.Run(ctx, []string{"ticket", "config", "init", "--no-prompt", "--app", "--app-id", "abc"})

		assert.EqualError(t, err, "abc is not a valid number")
	})

	t.Run("should refuse to save an incomplete app setup", func(t *testing.T) {
		cfg, app, _ := setupConfigTest(t, &queueDriver{})

		err := app.Run(ctx, []string{"ticket", "config", "init", "--no-prompt", "--app", "--app-id", "1"})

		assert.Error(t, err)
		data, readErr := os.ReadFile(cfg.PathFile)
		require.NoError(t, readErr)
		assert.NotContains(t, string(data), `"mode": "app"`)
	})

	t.Run("should ask for everything interactively", func(t *testing.T) {
		driver := &queueDriver{
			// language, template source, auth mode
			selects: []int{0, 0, 0},
			inputs:  []string{"childrens-bti", "tickets", "MY_TOKEN"},
		}
		cfg, app, _ := setupConfigTest(t, driver)

		err := app.Run(ctx, []string{"ticket", "config", "init"})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Language",
			"Repository owner (user or organization)",
			"Repository name",
			"Where are the templates stored?",
			"How should the tool authenticate with GitHub?",
			"Environment variable holding the personal access token",
		}, driver.asked)
		assert.Equal(t, "MY_TOKEN", cfg.Auth.TokenEnv)
		assert.Equal(t, config.SourceLocal, cfg.Templates.Source)
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("should display pat configuration", func(t *testing.T) {
		t.Setenv("TICKET_SHOW_TOKEN", "x")
		cfg, app, out := setupConfigTest(t, &queueDriver{})
		cfg.Repository = config.RepositoryConfig{Owner: "childrens-bti", Name: "tickets"}
		cfg.Auth.TokenEnv = "TICKET_SHOW_TOKEN"

		err := app.Run(context.Background(), []string{"ticket", "config", "show"})

		require.NoError(t, err)
		got := out.String()
		assert.Contains(t, got, "Current configuration")
		assert.Contains(t, got, "repository: childrens-bti/tickets")
		assert.Contains(t, got, "templates: local")
		assert.Contains(t, got, "token: $TICKET_SHOW_TOKEN (set)")
		assert.NotContains(t, got, "x)")
	})

	t.Run("should display app and github template configuration", func(t *testing.T) {
		cfg, app, out := setupConfigTest(t, &queueDriver{})
		cfg.Templates = config.TemplatesConfig{Source: config.SourceGitHub, Owner: "o", Repo: "r", Path: "forms", Ref: "main", CacheTTLSeconds: 60}
		cfg.Auth = config.AuthConfig{Mode: config.AuthModeApp, AppID: 1, InstallationID: 2, PrivateKeyPath: "/k.pem"}

		err := app.Run(context.Background(), []string{"ticket", "config", "show"})

		require.NoError(t, err)
		got := out.String()
		assert.Contains(t, got, "repository: not configured")
		assert.Contains(t, got, "templates repository: o/r:forms (main)")
		assert.Contains(t, got, "templates cache: 1m0s")
		assert.Contains(t, got, "installation id: 2")
	})
}
