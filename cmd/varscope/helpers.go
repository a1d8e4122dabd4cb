package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/varscope/internal/cache"
	"github.com/panbanda/varscope/internal/logging"
	"github.com/panbanda/varscope/internal/output"
	"github.com/panbanda/varscope/internal/service/analysis"
	"github.com/panbanda/varscope/pkg/config"
	"github.com/urfave/cli/v2"
)

// exitChanged is the exit code of --fail-on-change when changes are found.
const exitChanged = 2

// env is the configuration shared by the commands of one invocation.
type env struct {
	cfg    *config.Config
	source string
	logger *slog.Logger
}

func loadEnv(c *cli.Context) (*env, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}

	levelName := result.Config.Log.Level
	if c.IsSet("log-level") {
		levelName = c.String("log-level")
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	verbosity := 0
	if c.Bool("verbose") {
		verbosity = 1
	}
	logger := logging.New(c.App.ErrWriter, logging.LevelFromVerbosity(level, verbosity), result.Config.Log.Format)
	if result.Source != "" {
		logger.Debug("loaded configuration", "path", result.Source)
	}

	return &env{cfg: result.Config, source: result.Source, logger: logger}, nil
}

func (e *env) formatter(c *cli.Context) (*output.Formatter, error) {
	name := e.cfg.Output.Format
	if c.IsSet("format") {
		name = c.String("format")
	}
	if !output.Valid(name) {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	format := output.ParseFormat(name)
	colored := e.cfg.Output.Color && !c.Bool("no-color") && !color.NoColor

	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path, false)
	}
	return output.NewWriterFormatter(format, c.App.Writer, colored), nil
}

func (e *env) service(c *cli.Context) *analysis.Service {
	opts := []analysis.Option{
		analysis.WithConfig(e.cfg),
		analysis.WithLogger(e.logger),
	}
	if e.cfg.Cache.Enabled && !c.Bool("no-cache") {
		store, err := cache.New(e.cfg.Cache.Dir, e.cfg.Cache.TTL, true)
		if err != nil {
			e.logger.Warn("cache unavailable", "dir", e.cfg.Cache.Dir, "error", err)
		} else {
			opts = append(opts, analysis.WithCache(store))
		}
	}
	return analysis.New(opts...)
}

// emit writes data with the configured formatter.
func (e *env) emit(c *cli.Context, data any) error {
	f, err := e.formatter(c)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Output(data)
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
