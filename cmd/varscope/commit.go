package main

import (
	"fmt"

	"github.com/panbanda/varscope/internal/progress"
	"github.com/panbanda/varscope/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

func commitCmd() *cli.Command {
	return &cli.Command{
		Name:      "commit",
		Usage:     "Analyze every Java and Go file a commit modified",
		ArgsUsage: "[revision]",
		Description: `Compares each modified file of the commit with its first parent. Added and
deleted files are listed as skipped; excluded paths from the configuration
are ignored.

Examples:
  varscope commit
  varscope commit HEAD~3
  varscope commit --repo ../service a1b2c3d`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "repo",
				Value: ".",
				Usage: "Path inside the git repository",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker goroutines per file (default from config, 0 = one per CPU)",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Hide the progress bar",
			},
			&cli.BoolFlag{
				Name:  "fail-on-change",
				Usage: "Exit with status 2 when any variable changed scope",
			},
		},
		Action: runCommitCmd,
	}
}

func runCommitCmd(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("commit takes at most one revision, got %d", c.Args().Len())
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	var tracker *progress.Tracker
	opts := analysis.CommitOptions{
		Rev:     c.Args().First(),
		Workers: c.Int("workers"),
		OnStart: func(total int) {
			if !c.Bool("no-progress") && total > 1 {
				tracker = progress.NewTrackerTo(c.App.ErrWriter, "Analyzing files", total)
			}
		},
		OnProgress: func() { tracker.Tick() },
	}

	result, err := e.service(c).AnalyzeCommit(c.Context, c.String("repo"), opts)
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	if err := e.emit(c, result); err != nil {
		return err
	}
	if c.Bool("fail-on-change") && result.Changed() > 0 {
		return cli.Exit(fmt.Sprintf("%d variables changed scope", result.Changed()), exitChanged)
	}
	return nil
}
