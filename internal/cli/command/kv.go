// Package command provides CLI command definitions for rifsredis-cli.
package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rifsredis/internal/cli/output"
	"github.com/yndnr/rifsredis/pkg/client"
)

// SetResult is the outcome of a set command.
type SetResult struct {
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value" yaml:"value"`
	Sent      bool   `json:"sent" yaml:"sent"`
	Confirmed bool   `json:"confirmed" yaml:"confirmed"`
}

// GetResult is the outcome of a get command. Value is nil when the key
// does not exist.
type GetResult struct {
	Key   string  `json:"key" yaml:"key"`
	Value *string `json:"value" yaml:"value"`
	Found bool    `json:"found" yaml:"found"`
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store VALUE under KEY",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "confirm",
				Usage: "Wait for the server to acknowledge the write",
			},
		},
		Action: runSet,
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value stored under KEY",
		ArgsUsage: "KEY",
		Action:    runGet,
	}
}

func runSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: set KEY VALUE")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	s, err := connect(c)
	if err != nil {
		return err
	}
	defer s.close()

	result := SetResult{Key: key, Value: value}
	if c.Bool("confirm") {
		if err := s.client.SetConfirmed(s.ctx, key, value); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
		result.Sent = true
		result.Confirmed = true
	} else {
		result.Sent = s.client.Set(key, value)
		if !result.Sent {
			return fmt.Errorf("set %q: request not sent", key)
		}
	}

	return s.print(c, result)
}

func runGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: get KEY")
	}
	key := c.Args().Get(0)

	s, err := connect(c)
	if err != nil {
		return err
	}
	defer s.close()

	var spinner *output.Spinner
	if s.flags.Output == output.FormatTable && output.IsTerminal(os.Stderr) {
		spinner = output.NewSpinner(c.App.ErrWriter, "waiting for "+key)
		spinner.Start()
	}

	value, err := s.client.Get(s.ctx, key)

	if spinner != nil {
		spinner.Stop()
	}

	result := GetResult{Key: key}
	switch {
	case err == nil:
		result.Value = &value
		result.Found = true
	case errors.Is(err, client.ErrNotFound):
	default:
		return fmt.Errorf("get %q: %w", key, err)
	}

	return s.print(c, result)
}
