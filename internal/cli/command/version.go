// Package command provides CLI command definitions for rifsredis-cli.
package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/rifsredis/internal/cli/output"
	"github.com/yndnr/rifsredis/internal/infra/buildinfo"
)

// VersionCommand returns the version command. It does not contact the server.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			return output.NewFormatter(flags.Output).Format(c.App.Writer, buildinfo.Get())
		},
	}
}
