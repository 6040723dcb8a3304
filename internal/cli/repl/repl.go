// Package repl provides the interactive shell of rifsredis-cli.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// KV is the client surface the shell drives.
type KV interface {
	Set(key, value string) bool
	Get(ctx context.Context, key string) (string, error)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	kv        KV
	notFound  error
	prompt    string
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory replaces the default history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithPrompt sets the prompt text.
func WithPrompt(p string) Option {
	return func(r *REPL) {
		r.prompt = p
	}
}

// New creates a REPL over kv. notFound is the error kv.Get returns for a
// missing key; it is printed as (nil) rather than as an error.
func New(kv KV, notFound error, opts ...Option) *REPL {
	r := &REPL{
		kv:        kv,
		notFound:  notFound,
		prompt:    "rifsredis> ",
		completer: NewCompleter(),
		history:   NewHistory(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. It returns on EXIT, end of input or ctx
// cancellation.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
			continue
		}

		name := strings.ToLower(args[0])
		if name == "exit" || name == "quit" {
			return nil
		}

		if err := r.execute(ctx, name, args[1:]); err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, name string, args []string) error {
	switch name {
	case "set":
		if len(args) != 2 {
			return errors.New("usage: SET key value")
		}
		if !r.kv.Set(args[0], args[1]) {
			return errors.New("request not sent")
		}
		fmt.Fprintln(r.output, "OK")
	case "get":
		if len(args) != 1 {
			return errors.New("usage: GET key")
		}
		value, err := r.kv.Get(ctx, args[0])
		if r.notFound != nil && errors.Is(err, r.notFound) {
			fmt.Fprintln(r.output, "(nil)")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(r.output, strconv.Quote(value))
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
	case "help":
		fmt.Fprintln(r.output, "commands: "+strings.Join(r.completer.Complete(""), ", "))
	default:
		if s := r.completer.Complete(name); len(s) > 0 {
			return fmt.Errorf("unknown command %q, did you mean %s", name, strings.Join(s, " or "))
		}
		return fmt.Errorf("unknown command %q, try HELP", name)
	}
	return nil
}

// splitArgs splits a line on whitespace, honouring double quotes and
// backslash escapes inside them.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		hasArg  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == '"':
			inQuote = !inQuote
			hasArg = true
		case !inQuote && (c == ' ' || c == '\t'):
			if hasArg {
				args = append(args, cur.String())
				cur.Reset()
				hasArg = false
			}
		default:
			cur.WriteByte(c)
			hasArg = true
		}
	}
	if inQuote {
		return nil, errors.New("unbalanced quotes")
	}
	if hasArg {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}
