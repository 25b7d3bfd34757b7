package main

import (
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/htu21/adapter"
	"github.com/mklimuk/htu21/cmd/htu21/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 bridge maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "print the bridge I2C engine status",
	Action: func(c *cli.Context) error {
		status, err := adapter.NewMCP2221().Status(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeYAML(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a stuck transfer and release the bus",
	Action: func(c *cli.Context) error {
		status, err := adapter.NewMCP2221().ReleaseBus(c.Context)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeYAML(status)
	},
}

func encodeYAML(v any) error {
	enc := yaml.NewEncoder(console.Writer())
	defer func() { _ = enc.Close() }()
	err := enc.Encode(v)
	if err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
