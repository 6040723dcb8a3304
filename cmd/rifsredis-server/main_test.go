package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/rifsredis/internal/infra/confloader"
	"github.com/yndnr/rifsredis/internal/telemetry/logger"
	"github.com/yndnr/rifsredis/internal/telemetry/metric"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := "server:\n  addr: 127.0.0.1:7001\n  rate_limit: 20\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("RIFSREDIS_SERVER_IDLE_TIMEOUT", "1m")

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(map[string]any{"server.addr": "127.0.0.1:7002"}),
	)
	cfg, err := loadConfig(loader)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:7002" {
		t.Errorf("Addr = %q, want flag override", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit != 20 {
		t.Errorf("RateLimit = %d, want 20", cfg.Server.RateLimit)
	}
	if cfg.Server.IdleTimeout != time.Minute {
		t.Errorf("IdleTimeout = %v, want 1m from env", cfg.Server.IdleTimeout)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	loader := confloader.NewLoader(
		confloader.WithOverrides(map[string]any{"log.level": "loud"}),
	)
	if _, err := loadConfig(loader); err == nil {
		t.Error("loadConfig() should reject an unknown log level")
	}
}

func TestWatchConfig_AppliesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loader := confloader.NewLoader(confloader.WithConfigFile(path))
	if _, err := loadConfig(loader); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	logger.SetLevel("info")
	t.Cleanup(func() { logger.SetLevel("info") })

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	watcher, err := watchConfig(loader, quiet)
	if err != nil {
		t.Fatalf("watchConfig() error = %v", err)
	}
	t.Cleanup(func() { _ = watcher.Stop() })
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if logger.GetLevel() == "debug" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("log level = %q after reload, want debug", logger.GetLevel())
}

func TestMetricsServer(t *testing.T) {
	reg := metric.NewRegistry()
	reg.ObserveRequest("GET", metric.OutcomeSuccess, time.Millisecond)

	srv := newMetricsServer("127.0.0.1:0", reg)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "rifsredis_requests_total") {
		t.Error("metrics output missing rifsredis_requests_total")
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}
