package auth

import (
	"context"
	"crypto/rsa"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v80/github"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
)

const (
	jwtBackdate = 60 * time.Second
	jwtLifetime = 10 * time.Minute
	// refreshMargin renews installation tokens this long before they expire.
	refreshMargin = time.Minute
)

// AppsService is the part of the GitHub Apps API used to mint installation
// tokens.
type AppsService interface {
	CreateInstallationToken(ctx context.Context, id int64, opts *github.InstallationTokenOptions) (*github.InstallationToken, *github.Response, error)
}

// AppProvider authenticates as a GitHub App installation. It signs a short
// lived JWT with the app private key, exchanges it for an installation token
// and reuses that token until shortly before it expires.
type AppProvider struct {
	appID          int64
	installationID int64
	key            *rsa.PrivateKey
	now            func() time.Time
	apps           func(jwt string) AppsService

	mu      sync.Mutex
	token   string
	expires time.Time
}

type AppOption func(*AppProvider)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AppOption {
	return func(p *AppProvider) {
		p.now = now
	}
}

// WithAppsService replaces the GitHub Apps API client built for each JWT.
func WithAppsService(apps func(jwt string) AppsService) AppOption {
	return func(p *AppProvider) {
		p.apps = apps
	}
}

func defaultApps(jwt string) AppsService {
	return github.NewClient(nil).WithAuthToken(jwt).Apps
}

func NewAppProvider(appID, installationID int64, privateKeyPEM []byte, opts ...AppOption) (*AppProvider, error) {
	if appID <= 0 || installationID <= 0 {
		return nil, domainErrors.ErrConfigMissing.
			WithContext("detail", "GitHub App authentication needs an app id and an installation id")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, domainErrors.ErrPrivateKeyInvalid.WithError(err)
	}

	p := &AppProvider{
		appID:          appID,
		installationID: installationID,
		key:            key,
		now:            time.Now,
		apps:           defaultApps,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// LoadAppProvider reads the private key from a PEM file.
func LoadAppProvider(appID, installationID int64, privateKeyPath string, opts ...AppOption) (*AppProvider, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, domainErrors.ErrPrivateKeyInvalid.
			WithError(err).
			WithContext("path", privateKeyPath)
	}
	return NewAppProvider(appID, installationID, pem, opts...)
}

// JWT signs the app assertion used to request installation tokens.
func (p *AppProvider) JWT() (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtLifetime)),
		Issuer:    strconv.FormatInt(p.appID, 10),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.key)
	if err != nil {
		return "", domainErrors.ErrPrivateKeyInvalid.WithError(err)
	}
	return signed, nil
}

func (p *AppProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expires.Add(-refreshMargin)) {
		return p.token, nil
	}

	signed, err := p.JWT()
	if err != nil {
		return "", err
	}

	logger.Debug(ctx, "requesting installation token",
		"app_id", p.appID,
		"installation_id", p.installationID)

	tok, resp, err := p.apps(signed).CreateInstallationToken(ctx, p.installationID, nil)
	if err != nil {
		appErr := domainErrors.ErrInstallationToken.
			WithError(err).
			WithContext("installation_id", p.installationID)
		if resp != nil {
			appErr = appErr.WithContext("status", resp.StatusCode)
		}
		return "", appErr
	}
	if tok.GetToken() == "" {
		return "", domainErrors.ErrInstallationToken.WithContext("detail", "empty token in response")
	}

	p.token = tok.GetToken()
	p.expires = tok.GetExpiresAt().Time
	if p.expires.IsZero() {
		p.expires = p.now().Add(time.Hour)
	}
	return p.token, nil
}
