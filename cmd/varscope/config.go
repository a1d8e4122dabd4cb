package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/varscope/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a varscope configuration file for syntax errors and invalid values.

Examples:
  varscope config validate                   # Validates default config locations
  varscope -c varscope.toml config validate`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the configuration merged from defaults and the config file.

Examples:
  varscope config show
  varscope -c varscope.toml config show`,
				Action: runConfigShow,
			},
		},
	}
}

func configLoadOptions(c *cli.Context) []config.LoadOption {
	if path := c.String("config"); path != "" {
		return []config.LoadOption{config.WithPath(path)}
	}
	return nil
}

func runConfigValidate(c *cli.Context) error {
	result, err := config.LoadConfig(configLoadOptions(c)...)
	if err != nil {
		fmt.Fprintln(c.App.ErrWriter, color.RedString("Configuration validation failed:"))
		fmt.Fprintf(c.App.ErrWriter, "  - %s\n", err)
		return err
	}

	if result.Source != "" {
		fmt.Fprintln(c.App.Writer, color.GreenString("Configuration valid: %s", result.Source))
	} else {
		fmt.Fprintln(c.App.Writer, color.YellowString("No config file found. Default configuration is valid."))
	}
	return nil
}

func runConfigShow(c *cli.Context) error {
	result, err := config.LoadConfig(configLoadOptions(c)...)
	if err != nil {
		return err
	}

	if result.Source != "" {
		fmt.Fprintf(c.App.Writer, "# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Fprintln(c.App.Writer, "# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = c.App.Writer.Write(content)
	return err
}
