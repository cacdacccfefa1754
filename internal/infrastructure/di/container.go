package di

import (
	"context"
	"sync"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/childrens-bti/ticket-tracker-app/internal/auth"
	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/services"
	"github.com/childrens-bti/ticket-tracker-app/internal/templates"
	ghclient "github.com/childrens-bti/ticket-tracker-app/internal/vcs/github"
)

// Container builds the application services from the configuration.
// Everything is created on first use.
type Container struct {
	config       *config.Config
	translations *i18n.Translations

	mu              sync.Mutex
	tokens          auth.TokenProvider
	templateService *templates.Service
	ticketService   *services.TicketService
	submitter       *ghclient.GitHubClient
}

func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
	}
}

// SetTokenProvider overrides the credentials derived from the configuration.
func (c *Container) SetTokenProvider(tokens auth.TokenProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

// GetTokenProvider returns the GitHub credentials for the configured auth
// mode. Tokens are only requested when a call needs one.
func (c *Container) GetTokenProvider() (auth.TokenProvider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenProvider()
}

func (c *Container) tokenProvider() (auth.TokenProvider, error) {
	if c.tokens != nil {
		return c.tokens, nil
	}

	switch c.config.Auth.Mode {
	case config.AuthModeApp:
		p, err := auth.LoadAppProvider(c.config.Auth.AppID, c.config.Auth.InstallationID, c.config.Auth.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		c.tokens = p
	default:
		c.tokens = auth.FromEnv(c.config.Auth.TokenEnv)
	}
	return c.tokens, nil
}

// GetTemplateService returns the template service for the configured source.
// Remote templates are cached for Templates.CacheTTLSeconds.
func (c *Container) GetTemplateService(ctx context.Context) (*templates.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.templateService != nil {
		return c.templateService, nil
	}

	opts := []templates.Option{templates.WithDir(c.config.Templates.Dir)}

	if c.config.Templates.Source == config.SourceGitHub {
		tokens, err := c.tokenProvider()
		if err != nil {
			return nil, err
		}
		client, err := c.githubClient(ctx, tokens)
		if err != nil {
			return nil, err
		}
		store := templates.NewGitHubStore(
			client.Repositories,
			c.config.Templates.Owner,
			c.config.Templates.Repo,
			c.config.Templates.Path,
			c.config.Templates.Ref,
		)
		opts = append(opts, templates.WithStore(templates.NewCachedStore(store, c.config.CacheTTL())))
	}

	c.templateService = templates.NewService(opts...)
	return c.templateService, nil
}

func (c *Container) githubClient(ctx context.Context, tokens auth.TokenProvider) (*github.Client, error) {
	client := github.NewClient(oauth2.NewClient(ctx, auth.TokenSource(ctx, tokens)))
	if c.config.Repository.APIURL == "" {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(c.config.Repository.APIURL, c.config.Repository.APIURL)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid GitHub API URL", err).
			WithContext("url", c.config.Repository.APIURL)
	}
	return client, nil
}

// GetSubmitter returns the GitHub client issues are created with.
func (c *Container) GetSubmitter() (*ghclient.GitHubClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueSubmitter()
}

func (c *Container) issueSubmitter() (*ghclient.GitHubClient, error) {
	if c.submitter != nil {
		return c.submitter, nil
	}
	if !c.config.RepositoryConfigured() {
		return nil, domainErrors.ErrRepositoryMissing
	}
	c.submitter = ghclient.NewGitHubClient(
		c.config.Repository.Owner,
		c.config.Repository.Name,
		ghclient.WithProjectOwner(c.config.ProjectOwner()),
		ghclient.WithBaseURL(c.config.Repository.APIURL),
	)
	return c.submitter, nil
}

// GetTicketService wires templates, credentials and the submitter together.
func (c *Container) GetTicketService(ctx context.Context) (*services.TicketService, error) {
	tpls, err := c.GetTemplateService(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticketService != nil {
		return c.ticketService, nil
	}

	submitter, err := c.issueSubmitter()
	if err != nil {
		return nil, err
	}
	tokens, err := c.tokenProvider()
	if err != nil {
		return nil, err
	}

	c.ticketService = services.NewTicketService(tpls,
		services.WithSubmitter(submitter),
		services.WithTokenProvider(tokens),
	)
	return c.ticketService, nil
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}
