// Package command provides CLI command definitions for rifsredis-cli.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/yndnr/rifsredis/internal/cli/config"
	"github.com/yndnr/rifsredis/internal/cli/output"
	"github.com/yndnr/rifsredis/internal/infra/buildinfo"
	"github.com/yndnr/rifsredis/internal/telemetry/logger"
	"github.com/yndnr/rifsredis/pkg/client"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "rifsredis-cli",
		Usage:   "Command-line client for the rifsredis key/value server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SetCommand(),
			GetCommand(),
			ShellCommand(),
			VersionCommand(),
		},
		Before: loadFileDefaults,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"RIFSREDIS_CLI_CONFIG"},
			Value:   cliconfig.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "rifsredis server address (host:port)",
			EnvVars: []string{"RIFSREDIS_SERVER"},
			Value:   cliconfig.DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   cliconfig.DefaultOutput,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Overall deadline for the command",
			Value: cliconfig.DefaultTimeout,
		},
		&cli.IntFlag{
			Name:  "get-retries",
			Usage: "Number of interval checks before a request times out",
			Value: cliconfig.DefaultGetRetries,
		},
		&cli.DurationFlag{
			Name:  "get-interval",
			Usage: "Spacing between checks while waiting for a response",
			Value: cliconfig.DefaultGetInterval,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log client activity to stderr",
		},
	}
}

// loadFileDefaults applies the CLI config file to flags the user did
// not set explicitly.
func loadFileDefaults(c *cli.Context) error {
	cfg, err := cliconfig.Load(c.String("config"))
	if err != nil {
		return err
	}

	defaults := map[string]string{
		"server":       cfg.Server,
		"output":       cfg.Output,
		"timeout":      cfg.Timeout.String(),
		"get-retries":  fmt.Sprint(cfg.GetRetries),
		"get-interval": cfg.GetInterval.String(),
	}
	for name, value := range defaults {
		if c.IsSet(name) || value == "" {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	return nil
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	GetRetries  int
	GetInterval time.Duration
	Verbose     bool
}

// ParseGlobalFlags extracts and validates global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Server:      c.String("server"),
		Output:      format,
		Timeout:     c.Duration("timeout"),
		GetRetries:  c.Int("get-retries"),
		GetInterval: c.Duration("get-interval"),
		Verbose:     c.Bool("verbose"),
	}, nil
}

// session is one connected invocation of a command.
type session struct {
	flags  *GlobalFlags
	client *client.Client
	ctx    context.Context
	cancel context.CancelFunc
}

// connect parses global flags and dials the server.
func connect(c *cli.Context) (*session, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)

	cl := client.New(client.Config{
		Address:     flags.Server,
		GetRetries:  flags.GetRetries,
		GetInterval: flags.GetInterval,
	}, client.WithLogger(cliLogger(c.App.ErrWriter, flags.Verbose)))

	if err := cl.Init(ctx); err != nil {
		cancel()
		return nil, err
	}
	return &session{flags: flags, client: cl, ctx: ctx, cancel: cancel}, nil
}

func (s *session) close() {
	_ = s.client.Terminate()
	s.cancel()
}

func (s *session) print(c *cli.Context, data any) error {
	return output.NewFormatter(s.flags.Output).Format(c.App.Writer, data)
}

// cliLogger keeps the client quiet unless verbose output was requested.
func cliLogger(w io.Writer, verbose bool) *slog.Logger {
	level := "error"
	if verbose {
		level = "debug"
	}
	l, err := logger.New(logger.Config{Level: level, Format: "text", Output: w})
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

// PrintError prints an error message to the app's error stream.
func PrintError(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.ErrWriter, "error: "+format+"\n", args...)
}
