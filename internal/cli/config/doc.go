// Package config provides rifsredis-cli configuration.
//
// The optional file ~/.rifsredis/cli.yaml supplies defaults for the
// global flags:
//
//	server: 127.0.0.1:6380
//	output: table
//	timeout: 10s
//	get_retries: 100
//	get_interval: 100ms
//
// Flags and RIFSREDIS_* environment variables take precedence.
package config
