package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/panbanda/varscope/internal/service/analysis"
	"github.com/panbanda/varscope/pkg/analyzer/varchange"
	"github.com/panbanda/varscope/pkg/watch"
	"github.com/urfave/cli/v2"
)

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Compare the variables of two versions of a file",
		ArgsUsage: "<before> <after>",
		Description: `Pairs the methods of both versions by signature (or by class and name when
the signature changed) and reports removed, added, and re-scoped variables.

Examples:
  varscope diff old/Calc.java new/Calc.java
  varscope diff --method sum old/Calc.java new/Calc.java
  varscope -f json diff --watch before.go after.go`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "Only analyze this method (name, Class.name, or signature)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-run the analysis whenever either file is written",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before re-running in watch mode",
			},
			&cli.BoolFlag{
				Name:  "fail-on-change",
				Usage: "Exit with status 2 when any variable changed scope",
			},
		},
		Action: runDiffCmd,
	}
}

func runDiffCmd(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("diff needs exactly two files, got %d", c.Args().Len())
	}
	before, after := c.Args().Get(0), c.Args().Get(1)
	for _, path := range []string{before, after} {
		if err := requireFile(path); err != nil {
			return err
		}
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	svc := e.service(c)
	opts := analysis.DiffOptions{Method: c.String("method")}

	run := func(ctx context.Context) (*varchange.Results, error) {
		results, err := svc.AnalyzeFiles(ctx, before, after, opts)
		if err != nil {
			return nil, err
		}
		return results, e.emit(c, results)
	}

	if c.Bool("watch") {
		return watchDiff(c, e, before, after, run)
	}

	results, err := run(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("fail-on-change") && results.Changed() > 0 {
		return cli.Exit(fmt.Sprintf("%d variables changed scope", results.Changed()), exitChanged)
	}
	return nil
}

func watchDiff(c *cli.Context, e *env, before, after string, run func(context.Context) (*varchange.Results, error)) error {
	ctx := c.Context
	if _, err := run(ctx); err != nil {
		e.logger.Error("analysis failed", "error", err)
	}

	w, err := watch.New([]string{before, after}, func(path string) {
		e.logger.Info("file changed", "path", path)
		if _, err := run(ctx); err != nil {
			e.logger.Error("analysis failed", "error", err)
		}
	}, watch.WithDebounce(c.Duration("debounce")), watch.WithLogger(e.logger))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintf(c.App.ErrWriter, "Watching %s and %s (Ctrl+C to stop)\n", before, after)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
