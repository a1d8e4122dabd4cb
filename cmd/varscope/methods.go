package main

import (
	"fmt"

	"github.com/panbanda/varscope/internal/scanner"
	"github.com/panbanda/varscope/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

func methodsCmd() *cli.Command {
	return &cli.Command{
		Name:      "methods",
		Usage:     "List the methods that can be analyzed in files or directories",
		ArgsUsage: "<path>...",
		Description: `Directories are scanned recursively for Java and Go files, skipping the
excluded patterns and directories of the configuration and .gitignore.`,
		Action: runMethodsCmd,
	}
}

func runMethodsCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("methods needs at least one file or directory")
	}
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	svc := e.service(c)

	files, err := scanner.NewScanner(e.cfg).Expand(c.Args().Slice())
	if err != nil {
		return err
	}
	e.logger.Info("listing methods", "files", len(files))

	for _, path := range files {
		src, err := analysis.ReadSource(path)
		if err != nil {
			return err
		}
		list, err := svc.ListMethods(c.Context, src)
		if err != nil {
			return err
		}
		if err := e.emit(c, list); err != nil {
			return err
		}
	}
	return nil
}
