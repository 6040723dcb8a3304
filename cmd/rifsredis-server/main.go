package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/rifsredis/internal/infra/buildinfo"
	"github.com/yndnr/rifsredis/internal/infra/confloader"
	"github.com/yndnr/rifsredis/internal/infra/shutdown"
	"github.com/yndnr/rifsredis/internal/server/config"
	"github.com/yndnr/rifsredis/internal/server/kvserver"
	"github.com/yndnr/rifsredis/internal/storage/memory"
	"github.com/yndnr/rifsredis/internal/telemetry/logger"
	"github.com/yndnr/rifsredis/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Listen address (overrides server.addr)")
		logLevel    = flag.String("log-level", "", "Log level (overrides log.level)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rifsredis-server %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.addr"] = *addr
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(*configFile),
		confloader.WithOverrides(overrides),
	)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(config.ToLoggerConfig(cfg, os.Stdout))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting rifsredis-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	store := memory.New()
	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewStoreCollector(store))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := kvserver.New(config.ToKVServerConfig(cfg), store, metrics, log)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))
	shutdownHandler.OnShutdown("kvserver", srv.Shutdown)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		httpServer := newMetricsServer(cfg.Metrics.Addr, metrics)
		shutdownHandler.OnShutdown("metrics", httpServer.Shutdown)

		g.Go(func() error {
			log.Info("metrics endpoint listening", "addr", cfg.Metrics.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	if *configFile != "" {
		watcher, err := watchConfig(loader, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	g.Go(func() error {
		return shutdownHandler.Wait(gctx)
	})

	log.Info("server started, press Ctrl+C to stop", "addr", srv.Addr().String())
	if err := g.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers file, environment and flag overrides on the defaults.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig applies a changed log.level from the config file at runtime.
// Other settings need a restart.
func watchConfig(loader *confloader.Loader, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(loader.FilePath()); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		next := config.Default()
		if err := loader.Load(next); err != nil {
			log.Warn("config reload failed", "file", path, "error", err)
			return
		}
		if err := config.Verify(next); err != nil {
			log.Warn("reloaded config rejected", "file", path, "error", err)
			return
		}
		if prev := logger.GetLevel(); prev != next.Log.Level {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "from", prev, "to", logger.GetLevel())
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

func newMetricsServer(addr string, metrics *metric.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
