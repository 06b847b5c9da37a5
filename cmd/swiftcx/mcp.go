package main

import (
	"fmt"

	"github.com/panbanda/swiftcx/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes swiftcx as tools
that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "swiftcx": {
        "command": "swiftcx",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_complexity    Complexity of Swift files and directories
  - analyze_source        Complexity of inline Swift source`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// stdout carries the protocol, so diagnostics only ever go to stderr.
	svc, err := newService(cfg, newLogger(c.App.ErrWriter, c.Bool("verbose")))
	if err != nil {
		return err
	}
	return mcpserver.NewServer(version, svc).Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
