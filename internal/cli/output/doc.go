// Package output provides output formatting for rifsredis-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Aligned FIELD/VALUE rendering for humans
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - spinner.go: Waiting indicator for slow lookups
//
// Machine-readable formats (json, yaml) are meant for scripting; the
// table format is the default.
package output
