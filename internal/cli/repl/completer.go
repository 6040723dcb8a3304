// Package repl provides the interactive shell of rifsredis-cli.
package repl

import "strings"

// Completer matches partial command names.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{"set", "get", "history", "help", "exit", "quit"},
	}
}

// Complete returns the commands starting with prefix, case-insensitively.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
