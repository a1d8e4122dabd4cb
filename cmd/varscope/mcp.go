package main

import (
	"github.com/panbanda/varscope/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the variable
analysis as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "varscope": {
        "command": "varscope",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_variables   Removed, added, and re-scoped variables of two file versions
  - analyze_commit      The same analysis over every file a commit modified
  - list_methods        Methods of a file and their declaration counts`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the server manifest as JSON and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		_, err = c.App.Writer.Write(append(data, '\n'))
		return err
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	return mcpserver.NewServer(version, e.service(c)).Run(c.Context)
}
