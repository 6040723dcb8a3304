// Package command provides CLI command definitions for rifsredis-cli.
package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rifsredis/internal/cli/repl"
	"github.com/yndnr/rifsredis/pkg/client"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session over one connection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "History file (empty disables persistence)",
				Value: repl.NewHistory().File(),
			},
		},
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	// The shell outlives any single request, so only the dial is bounded
	// by --timeout.
	dialCtx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	cl := client.New(client.Config{
		Address:     flags.Server,
		GetRetries:  flags.GetRetries,
		GetInterval: flags.GetInterval,
	}, client.WithLogger(cliLogger(c.App.ErrWriter, flags.Verbose)))
	if err := cl.Init(dialCtx); err != nil {
		return err
	}
	defer cl.Terminate()

	history := repl.NewHistoryFile(c.String("history-file"))
	if err := history.Load(); err != nil {
		PrintError(c, "load history: %v", err)
	}
	defer func() {
		if err := history.Save(); err != nil {
			PrintError(c, "save history: %v", err)
		}
	}()

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	r := repl.New(cl, client.ErrNotFound,
		repl.WithIO(in, c.App.Writer),
		repl.WithHistory(history),
		repl.WithPrompt(flags.Server+"> "),
	)
	return r.Run(c.Context)
}
