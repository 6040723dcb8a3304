// Package config provides the rifsredis-server configuration.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, timeouts and levels
//   - convert.go: Mapping onto component configs (kvserver, logger)
//
// Configuration is loaded via internal/infra/confloader and supports
// files and environment variables on top of Default().
package config
