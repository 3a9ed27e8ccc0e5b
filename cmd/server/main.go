package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/quorum/cmd"
	"github.com/nulzo/quorum/internal/analytics"
	"github.com/nulzo/quorum/internal/config"
	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/core/services"
	"github.com/nulzo/quorum/internal/llm/openai"
	"github.com/nulzo/quorum/internal/logger"
	"github.com/nulzo/quorum/internal/platform/otel"
	"github.com/nulzo/quorum/internal/server"
	"github.com/nulzo/quorum/internal/server/validator"
	"github.com/nulzo/quorum/internal/store/cache"
	"github.com/nulzo/quorum/internal/store/sqlite"
	"go.uber.org/zap"

	// Import providers to trigger init() registration
	_ "github.com/nulzo/quorum/internal/llm/anthropic"
	_ "github.com/nulzo/quorum/internal/llm/google"
	_ "github.com/nulzo/quorum/internal/llm/ollama"
	_ "github.com/nulzo/quorum/internal/llm/openai"
)

func main() {
	cmd.CheckForUpdates()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Initialize(logger.DefaultConfig())
	defer logger.Sync()
	log := logger.Get()

	validator.InitValidator()

	shutdownTracer, err := otel.InitTracer("quorum", log, os.Stdout)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	// Cache: redis when enabled, in-process otherwise.
	var cacheSvc cache.Service
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
			cacheSvc = cache.NewMemoryCache()
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = cache.NewMemoryCache()
	}

	// Analytics: optional sqlite-backed dispatch log.
	var ingestor analytics.Ingestor
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Store.Enabled {
		repo, err := sqlite.NewSQLiteStorage(cfg.Store.DSN)
		if err != nil {
			log.Fatal("Failed to open store", zap.Error(err))
		}
		defer func() { _ = repo.Close() }()

		ingestor = analytics.NewIngestor(log, repo)
		// The worker outlives the signal context: it terminates via
		// Stop after the HTTP server has drained, so dispatch logs
		// recorded during shutdown still reach the store.
		ingestor.Start(context.Background())
	}

	registry := services.NewRegistry(cfg.Providers, log)
	dispatcher := services.NewDispatcher(registry, log, ingestor)
	tester := services.NewTester(dispatcher, registry, cacheSvc, log)

	judgeClient := openai.New(domain.ProviderConfig{
		ID:      "judge",
		Type:    "openai",
		APIKey:  cfg.Judge.APIKey,
		BaseURL: cfg.Judge.BaseURL,
		Enabled: true,
	})
	judge := services.NewJudge(judgeClient, cfg.Judge.Model, log)

	for id, status := range tester.StatusReport() {
		log.Info("Provider registered",
			zap.String("provider", id),
			zap.Bool("configured", status.Configured),
			zap.String("default_model", status.DefaultModel),
		)
	}

	srv := server.New(cfg, log, dispatcher, judge, tester)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	if ingestor != nil {
		ingestor.Stop()
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
}
