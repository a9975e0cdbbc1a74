package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	app "github.com/kode4food/docket"
	"github.com/kode4food/docket/internal/config"
	"github.com/kode4food/docket/internal/server"
	"github.com/kode4food/docket/internal/store"
	"github.com/kode4food/docket/internal/workflow"
	"github.com/kode4food/docket/pkg/log"
)

type docket struct {
	cfg        *config.Config
	rdb        *redis.Client
	recStore   store.RecordStore
	registry   *workflow.Registry
	executor   *workflow.Executor
	hub        *workflow.Hub
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &docket{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *docket) run() error {
	if err := s.initializeEngine(); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *docket) setupLogging() {
	level, ok := logLevels[s.cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("Docket Engine starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("store_base_url", s.cfg.StoreBaseURL),
		slog.String("cache_redis_addr", s.cfg.Cache.Addr),
		slog.Int("cache_redis_db", s.cfg.Cache.DB),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort))
}

func (s *docket) initializeEngine() error {
	s.rdb = redis.NewClient(&redis.Options{
		Addr:     s.cfg.Cache.Addr,
		Password: s.cfg.Cache.Password,
		DB:       s.cfg.Cache.DB,
	})

	cache := store.NewSchemaCache(s.rdb, s.cfg.Cache.Prefix, s.cfg.Cache.TTL)
	s.recStore = store.NewHTTPStore(
		s.cfg.StoreBaseURL, s.cfg.StoreTimeout, cache,
	)

	registry, err := workflow.NewRegistry(config.DefaultFieldMap())
	if err != nil {
		return err
	}
	s.registry = registry

	s.hub = workflow.NewHub()
	s.executor = workflow.NewExecutor(s.recStore, s.hub, s.cfg.NoticeTTL)
	return nil
}

func (s *docket) startServer() {
	s.apiServer = server.NewServer(s.registry, s.executor, s.hub)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *docket) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.hub.Close()

	if err := s.rdb.Close(); err != nil {
		slog.Error("Redis close failed", log.Error(err))
	}

	slog.Info("Server exited")
}
