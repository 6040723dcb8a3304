// Package config defines the server configuration structure.
package config

import (
	"io"

	"github.com/yndnr/rifsredis/internal/server/kvserver"
	"github.com/yndnr/rifsredis/internal/telemetry/logger"
)

// ToKVServerConfig converts ServerConfig to kvserver.Config.
func ToKVServerConfig(cfg *ServerConfig) *kvserver.Config {
	return &kvserver.Config{
		Address:      cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		RateLimit:    cfg.Server.RateLimit,
		MaxFrameSize: cfg.Server.MaxFrameSize,
	}
}

// ToLoggerConfig converts the log section to logger.Config writing to out.
func ToLoggerConfig(cfg *ServerConfig, out io.Writer) logger.Config {
	return logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       out,
		RedactValues: cfg.Log.RedactValues,
	}
}
