package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
)

type (
	Config struct {
		Language   string           `json:"language"`
		UseEmoji   bool             `json:"use_emoji"`
		Repository RepositoryConfig `json:"repository"`
		Templates  TemplatesConfig  `json:"templates"`
		Auth       AuthConfig       `json:"auth"`
		PathFile   string           `json:"path_file"`
	}

	// RepositoryConfig is where issues are created.
	RepositoryConfig struct {
		Owner string `json:"owner"`
		Name  string `json:"name"`
		// ProjectOwner owns the projects issues are added to. Defaults to Owner.
		ProjectOwner string `json:"project_owner,omitempty"`
		// APIURL targets a GitHub Enterprise server.
		APIURL string `json:"api_url,omitempty"`
	}

	TemplatesConfig struct {
		Source          string `json:"source"` // "local" or "github"
		Dir             string `json:"dir,omitempty"`
		Owner           string `json:"owner,omitempty"`
		Repo            string `json:"repo,omitempty"`
		Path            string `json:"path,omitempty"`
		Ref             string `json:"ref,omitempty"`
		CacheTTLSeconds int    `json:"cache_ttl_seconds"`
	}

	AuthConfig struct {
		Mode           string `json:"mode"` // "pat" or "app"
		TokenEnv       string `json:"token_env,omitempty"`
		AppID          int64  `json:"app_id,omitempty"`
		InstallationID int64  `json:"installation_id,omitempty"`
		PrivateKeyPath string `json:"private_key_path,omitempty"`
	}
)

const (
	SourceLocal  = "local"
	SourceGitHub = "github"

	AuthModePAT = "pat"
	AuthModeApp = "app"

	DefaultTokenEnv = "GITHUB_PAT_TOKEN"

	configDirName       = ".ticket-tracker"
	defaultLang         = LangEN
	defaultUseEmoji     = true
	defaultCacheTTL     = 300
	DefaultTemplatePath = ".github/ISSUE_TEMPLATE"
)

// LoadConfig reads the configuration file. path is either a .json file or a
// home directory holding .ticket-tracker/config.json. A default file is
// written when none exists.
func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".json" {
		configPath = path
	} else {
		configDir := filepath.Join(path, configDirName)
		configPath = filepath.Join(configDir, "config.json")

		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return nil, fmt.Errorf("error creating config directory: %w", err)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	} else if err != nil {
		return nil, fmt.Errorf("error checking config file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "config file is not valid JSON", err).
			WithContext("path", configPath)
	}
	config.PathFile = configPath
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func defaultConfig(path string) *Config {
	c := &Config{
		Language: defaultLang,
		UseEmoji: defaultUseEmoji,
		PathFile: path,
	}
	applyDefaults(c)
	return c
}

func applyDefaults(c *Config) {
	if c.Language == "" {
		c.Language = defaultLang
	}
	if c.Templates.Source == "" {
		c.Templates.Source = SourceLocal
	}
	if c.Templates.Source == SourceLocal && c.Templates.Dir == "" && c.PathFile != "" {
		c.Templates.Dir = filepath.Join(filepath.Dir(c.PathFile), "templates")
	}
	if c.Templates.Source == SourceGitHub && c.Templates.Path == "" {
		c.Templates.Path = DefaultTemplatePath
	}
	if c.Templates.CacheTTLSeconds == 0 {
		c.Templates.CacheTTLSeconds = defaultCacheTTL
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = AuthModePAT
	}
	if c.Auth.Mode == AuthModePAT && c.Auth.TokenEnv == "" {
		c.Auth.TokenEnv = DefaultTokenEnv
	}
}

func createDefaultConfig(path string) (*Config, error) {
	config := defaultConfig(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error saving default config: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	if config.PathFile == "" {
		return domainErrors.ErrConfigMissing.WithContext("detail", "config file path is not set")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func invalid(detail string) error {
	return domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid configuration", nil).
		WithContext("detail", detail).
		WithSuggestion("Edit the config file or run: ticket config init")
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return invalid("language cannot be empty")
	}
	if !IsSupportedLanguage(config.Language) {
		return invalid(fmt.Sprintf("unsupported language: %s", config.Language))
	}
	if config.Templates.CacheTTLSeconds < 0 {
		return invalid("templates.cache_ttl_seconds cannot be negative")
	}

	switch config.Templates.Source {
	case SourceLocal:
	case SourceGitHub:
		if config.Templates.Owner == "" || config.Templates.Repo == "" {
			return invalid("templates.owner and templates.repo are required for the github source")
		}
	default:
		return invalid(fmt.Sprintf("unsupported template source: %s", config.Templates.Source))
	}

	switch config.Auth.Mode {
	case AuthModePAT:
	case AuthModeApp:
		if config.Auth.AppID <= 0 || config.Auth.InstallationID <= 0 {
			return invalid("auth.app_id and auth.installation_id are required for app authentication")
		}
		if config.Auth.PrivateKeyPath == "" {
			return invalid("auth.private_key_path is required for app authentication")
		}
	default:
		return invalid(fmt.Sprintf("unsupported auth mode: %s", config.Auth.Mode))
	}
	return nil
}

// CacheTTL is how long fetched templates are reused.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Templates.CacheTTLSeconds) * time.Second
}

// ProjectOwner returns the organization owning the target projects.
func (c *Config) ProjectOwner() string {
	if c.Repository.ProjectOwner != "" {
		return c.Repository.ProjectOwner
	}
	return c.Repository.Owner
}

// RepositoryConfigured reports whether an issue repository is set.
func (c *Config) RepositoryConfigured() bool {
	return c.Repository.Owner != "" && c.Repository.Name != ""
}
