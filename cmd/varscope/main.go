package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "varscope",
		Usage:   "Track local variables across method versions",
		Version: version,
		Description: `varscope pairs the methods of two versions of a Java or Go file, maps their
statements, and reports which local variables were removed, added, or moved
to a different enclosing method or lambda.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"VARSCOPE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log progress at info level",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, error, quiet (default from config)",
				EnvVars: []string{"VARSCOPE_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			diffCmd(),
			commitCmd(),
			methodsCmd(),
			initCmd(),
			configCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		if coder, ok := err.(cli.ExitCoder); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}
