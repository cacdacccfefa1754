// Package auth supplies GitHub credentials on demand.
package auth

import (
	"context"
	"os"
	"strings"

	"golang.org/x/oauth2"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
)

// TokenProvider returns a bearer token for the GitHub API. Implementations
// must not log or persist the token.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticProvider serves a fixed personal access token.
type StaticProvider struct {
	token string
}

func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: strings.TrimSpace(token)}
}

// FromEnv reads a personal access token from the named environment variable.
func FromEnv(name string) *StaticProvider {
	return NewStaticProvider(os.Getenv(name))
}

func (p *StaticProvider) Token(context.Context) (string, error) {
	if p.token == "" {
		return "", domainErrors.ErrTokenMissing
	}
	return p.token, nil
}

type tokenSource struct {
	ctx      context.Context
	provider TokenProvider
}

// TokenSource adapts a TokenProvider to oauth2. Every call asks the provider,
// so caching is left to the provider.
func TokenSource(ctx context.Context, provider TokenProvider) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, provider: provider}
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	token, err := s.provider.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
