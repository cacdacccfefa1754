package config

import (
	"io"
	"os"

	"github.com/childrens-bti/ticket-tracker-app/internal/config"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/prompt"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct {
	driver prompt.Driver
}

// NewConfigCommandFactory uses terminal prompts when driver is nil.
func NewConfigCommandFactory(driver prompt.Driver) *ConfigCommandFactory {
	if driver == nil {
		driver = prompt.NewSurveyDriver()
	}
	return &ConfigCommandFactory{driver: driver}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_command_usage", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
		},
	}
}

func output(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
