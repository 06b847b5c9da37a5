package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/swiftcx/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate configuration file",
				Description: `Validates a swiftcx configuration file for syntax errors, unknown keys
and invalid values.

Examples:
  swiftcx config validate                      # Validates default config locations
  swiftcx -c swiftcx.toml config validate      # Validates specific file`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yaml",
						Usage: "Print YAML instead of TOML",
					},
				},
				Action: runConfigShow,
			},
		},
	}
}

// configSource returns the config file the CLI would load, or "".
func configSource(c *cli.Context) string {
	if path := c.String("config"); path != "" {
		return path
	}
	return config.Find(".")
}

func runConfigValidate(c *cli.Context) error {
	out := c.App.Writer
	path := configSource(c)
	if path == "" {
		fmt.Fprintln(out, color.YellowString("No config file found. Default configuration is valid."))
		return nil
	}

	if err := config.Validate(path); err != nil {
		fmt.Fprintln(out, color.RedString("Configuration validation failed:"))
		fmt.Fprintf(out, "  - %s\n", err)
		return err
	}
	fmt.Fprintln(out, color.GreenString("Configuration valid: %s", path))
	return nil
}

func runConfigShow(c *cli.Context) error {
	out := c.App.Writer
	path := configSource(c)

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		fmt.Fprintf(out, "# Configuration from: %s\n\n", path)
	} else {
		fmt.Fprintln(out, "# Default configuration (no config file found)")
	}

	var (
		content []byte
		err     error
	)
	if c.Bool("yaml") {
		content, err = yaml.Marshal(cfg)
	} else {
		content, err = toml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprint(out, string(content))
	return nil
}
