// Package config defines the CLI configuration structure.
package config

import "time"

// CLIConfig is the configuration for rifsredis-cli.
type CLIConfig struct {
	Server      string        `yaml:"server"`
	Output      string        `yaml:"output"` // table, json, yaml
	Timeout     time.Duration `yaml:"timeout"`
	GetRetries  int           `yaml:"get_retries"`
	GetInterval time.Duration `yaml:"get_interval"`
}

// Default CLI settings.
const (
	DefaultServer      = "127.0.0.1:6380"
	DefaultOutput      = "table"
	DefaultTimeout     = 15 * time.Second
	DefaultGetRetries  = 100
	DefaultGetInterval = 100 * time.Millisecond
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:      DefaultServer,
		Output:      DefaultOutput,
		Timeout:     DefaultTimeout,
		GetRetries:  DefaultGetRetries,
		GetInterval: DefaultGetInterval,
	}
}
