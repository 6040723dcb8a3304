// Package command provides CLI command definitions for rifsredis-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: App, global flags, client construction
//   - kv.go: set and get
//   - shell.go: interactive session (internal/cli/repl)
//   - version.go: build information
//
// Commands follow a consistent pattern of parsing flags, calling
// pkg/client, and formatting the result with internal/cli/output.
package command
