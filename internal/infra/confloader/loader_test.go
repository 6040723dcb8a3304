package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Addr        string        `koanf:"addr"`
		ReadTimeout time.Duration `koanf:"read_timeout"`
		RateLimit   int           `koanf:"rate_limit"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), "/path/to/config.yaml")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"RIFSREDIS_SERVER_ADDR", "server.addr"},
		{"RIFSREDIS_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"RIFSREDIS_LOG_REDACT_VALUES", "log.redact_values"},
		{"RIFSREDIS_DEBUG", "debug"},
	}

	for _, tt := range tests {
		if got := EnvKey("RIFSREDIS_", tt.name); got != tt.want {
			t.Errorf("EnvKey(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLoader_Load_Sources(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		env   map[string]string
		opts  []Option
		check func(t *testing.T, cfg testConfig)
	}{
		{
			name: "file only",
			file: "server:\n  addr: \"0.0.0.0:6380\"\n  rate_limit: 10\n",
			check: func(t *testing.T, cfg testConfig) {
				if cfg.Server.Addr != "0.0.0.0:6380" || cfg.Server.RateLimit != 10 {
					t.Errorf("Server = %+v", cfg.Server)
				}
			},
		},
		{
			name: "env only",
			env:  map[string]string{"RIFSREDIS_SERVER_READ_TIMEOUT": "5s"},
			check: func(t *testing.T, cfg testConfig) {
				if cfg.Server.ReadTimeout != 5*time.Second {
					t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
				}
			},
		},
		{
			name: "custom env prefix",
			env:  map[string]string{"MYAPP_SERVER_ADDR": "host:9090"},
			opts: []Option{WithEnvPrefix("MYAPP_")},
			check: func(t *testing.T, cfg testConfig) {
				if cfg.Server.Addr != "host:9090" {
					t.Errorf("Addr = %q, want host:9090", cfg.Server.Addr)
				}
			},
		},
		{
			name: "dotted overrides nest",
			opts: []Option{WithOverrides(map[string]any{"server.addr": "localhost:3000"})},
			check: func(t *testing.T, cfg testConfig) {
				if cfg.Server.Addr != "localhost:3000" {
					t.Errorf("Addr = %q, want localhost:3000", cfg.Server.Addr)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := tt.opts
			if tt.file != "" {
				opts = append(opts, WithConfigFile(writeConfig(t, tt.file)))
			}

			var cfg testConfig
			if err := NewLoader(opts...).Load(&cfg); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := NewLoader(WithConfigFile("/nonexistent/config.yaml")).Load(&cfg); err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "from-file:6380"
  rate_limit: 5
log:
  level: "warn"
`)
	t.Setenv("RIFSREDIS_SERVER_ADDR", "from-env:6380")
	t.Setenv("RIFSREDIS_SERVER_RATE_LIMIT", "7")

	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{"server.rate_limit": 9}),
	)

	var cfg testConfig
	cfg.Log.Level = "info"
	cfg.Server.ReadTimeout = 30 * time.Second
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "from-env:6380" {
		t.Errorf("Addr = %q, want env to override file", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit != 9 {
		t.Errorf("RateLimit = %d, want override 9", cfg.Server.RateLimit)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want file to override default", cfg.Log.Level)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want untouched default", cfg.Server.ReadTimeout)
	}
}

func TestLoader_Load_Duration(t *testing.T) {
	path := writeConfig(t, `
server:
  read_timeout: "250ms"
`)

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.ReadTimeout != 250*time.Millisecond {
		t.Errorf("ReadTimeout = %v, want 250ms", cfg.Server.ReadTimeout)
	}
}

func TestLoader_Load_BadFile(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestLoader_Load_PicksUpFileChanges(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	l := NewLoader(WithConfigFile(path))
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("server:\n  rate_limit: 3\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var next testConfig
	if err := l.Load(&next); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if next.Server.RateLimit != 3 {
		t.Errorf("RateLimit = %d, want 3", next.Server.RateLimit)
	}
	if next.Log.Level != "" {
		t.Errorf("Log.Level = %q, want empty once removed from the file", next.Log.Level)
	}
}
