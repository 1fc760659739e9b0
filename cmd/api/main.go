package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"promptcanvas/internal/cache"
	"promptcanvas/internal/config"
	"promptcanvas/internal/generator"
	"promptcanvas/internal/handlers"
	"promptcanvas/internal/jobs"
	"promptcanvas/internal/log"
	"promptcanvas/internal/repository"
	"promptcanvas/internal/server"
	"promptcanvas/internal/service"
	"promptcanvas/internal/session"
	"promptcanvas/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	// the record store is allowed to come up disconnected: the app keeps
	// serving in degraded mode (empty gallery, zero stats, no-op writes)
	records := repository.NewRecordStore(cfg.Mongo, logger)
	records.Connect(ctx)

	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, stats cache disabled")
	} else {
		redisClient = client
	}

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image storage")
	}

	if cfg.Inference.Token == "" {
		logger.Warn().Msg("inference token not configured, generation will be rejected")
	}
	genClient := generator.NewClient(cfg.Inference, cfg.Styles)

	sessions := session.NewManager(cfg.Studio.SessionIdleTTL)
	stats := service.NewStatsService(records, redisClient, int64(cfg.Studio.StatsScanCap), cfg.Studio.RecentPrompts, cfg.Studio.StatsCacheTTL, logger)
	studio := service.NewStudioService(genClient, records, images, stats, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, sessions, studio, stats, records, images, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	janitor := jobs.NewJanitor(sessions, records, images, logger)
	if err := janitor.Start(); err != nil {
		logger.Error().Err(err).Msg("janitor start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, janitor, records, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, janitor *jobs.Janitor, records *repository.RecordStore, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	janitor.Stop()

	records.Close(shutdownCtx)
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
