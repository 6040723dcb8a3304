// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for rifsredis-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the key/value listener.
type ServerSection struct {
	// Addr is the TCP host:port to listen on.
	Addr string `koanf:"addr"`

	// ReadTimeout bounds reading one frame after its first byte arrived.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing one response.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout closes connections that send nothing for this long.
	// Zero keeps idle connections open.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is requests per second per connection. 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// MaxFrameSize is the largest accepted request line in bytes.
	MaxFrameSize int `koanf:"max_frame_size"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// RedactValues masks stored values in request logs.
	RedactValues bool `koanf:"redact_values"`
}
