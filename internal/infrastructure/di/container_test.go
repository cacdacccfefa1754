package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
)

func newTestContainer(t *testing.T, mutate func(*config.Config)) *Container {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return NewContainer(cfg, trans)
}

func TestGetTokenProvider(t *testing.T) {
	t.Run("personal access token from the configured variable", func(t *testing.T) {
		t.Setenv("TICKET_TEST_TOKEN", " secret ")
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Auth.TokenEnv = "TICKET_TEST_TOKEN"
		})

		tokens, err := c.GetTokenProvider()
		require.NoError(t, err)

		token, err := tokens.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "secret", token)
	})

	t.Run("missing token surfaces when asked", func(t *testing.T) {
		t.Setenv("TICKET_TEST_TOKEN", "")
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Auth.TokenEnv = "TICKET_TEST_TOKEN"
		})

		tokens, err := c.GetTokenProvider()
		require.NoError(t, err)

		_, err = tokens.Token(context.Background())
		assert.True(t, errors.Is(err, domainErrors.ErrTokenMissing))
	})

	t.Run("app mode with unreadable key", func(t *testing.T) {
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Auth = config.AuthConfig{
				Mode:           config.AuthModeApp,
				AppID:          1,
				InstallationID: 2,
				PrivateKeyPath: filepath.Join(t.TempDir(), "missing.pem"),
			}
		})

		_, err := c.GetTokenProvider()
		assert.True(t, errors.Is(err, domainErrors.ErrPrivateKeyInvalid))
	})

	t.Run("override wins", func(t *testing.T) {
		c := newTestContainer(t, nil)
		c.SetTokenProvider(auth.NewStaticProvider("override"))

		tokens, err := c.GetTokenProvider()
		require.NoError(t, err)
		token, err := tokens.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "override", token)
	})
}

func TestGetTemplateService(t *testing.T) {
	t.Run("local source reads the configured directory", func(t *testing.T) {
		dir := t.TempDir()
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Templates.Dir = dir
		})

		svc, err := c.GetTemplateService(context.Background())
		require.NoError(t, err)
		assert.Equal(t, dir, svc.Dir())

		require.NoError(t, svc.InitializeTemplates(context.Background(), false))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries)

		again, err := c.GetTemplateService(context.Background())
		require.NoError(t, err)
		assert.Same(t, svc, again)
	})

	t.Run("github source builds a remote store", func(t *testing.T) {
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Templates.Source = config.SourceGitHub
			cfg.Templates.Owner = "childrens-bti"
			cfg.Templates.Repo = "ticket-templates"
		})
		c.SetTokenProvider(auth.NewStaticProvider("token"))

		svc, err := c.GetTemplateService(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("invalid enterprise url", func(t *testing.T) {
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Templates.Source = config.SourceGitHub
			cfg.Templates.Owner = "childrens-bti"
			cfg.Templates.Repo = "ticket-templates"
			cfg.Repository.APIURL = "://bad"
		})
		c.SetTokenProvider(auth.NewStaticProvider("token"))

		_, err := c.GetTemplateService(context.Background())
		assert.Error(t, err)
	})
}

func TestGetTicketService(t *testing.T) {
	t.Run("repository must be configured", func(t *testing.T) {
		c := newTestContainer(t, nil)

		_, err := c.GetTicketService(context.Background())
		assert.True(t, errors.Is(err, domainErrors.ErrRepositoryMissing))
	})

	t.Run("wires the submitter for the configured repository", func(t *testing.T) {
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.Repository.Owner = "childrens-bti"
			cfg.Repository.Name = "tickets"
		})

		svc, err := c.GetTicketService(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, svc)

		submitter, err := c.GetSubmitter()
		require.NoError(t, err)
		assert.Equal(t, "childrens-bti/tickets", submitter.Repository())
	})
}
