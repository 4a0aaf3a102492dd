package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/api"
	"github.com/spectra-labs/spectra-api/internal/core/ports"
	"github.com/spectra-labs/spectra-api/internal/core/service"
	mongodb "github.com/spectra-labs/spectra-api/internal/infrastructure/db/mongo"
	redisdb "github.com/spectra-labs/spectra-api/internal/infrastructure/db/redis"
	"github.com/spectra-labs/spectra-api/internal/infrastructure/genai"
	"github.com/spectra-labs/spectra-api/internal/infrastructure/http/handlers"
	"github.com/spectra-labs/spectra-api/internal/infrastructure/queue"
	"github.com/spectra-labs/spectra-api/internal/infrastructure/store"
	"github.com/spectra-labs/spectra-api/internal/pkg/config"
	"github.com/spectra-labs/spectra-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recordStore, pinger, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("record store init failed")
	}
	defer cleanup()

	authSvc := service.NewAuthService(recordStore, log)
	authSvc.Bootstrap(ctx)

	dispatcher := queue.NewDispatcher(0, service.NewActivityService(log), log)
	dispatcher.Start(ctx)

	genClient := genai.NewClient(genai.Config{
		BaseURL:    cfg.GenAI.BaseURL,
		APIKey:     cfg.GenAI.APIKey,
		TextModel:  cfg.GenAI.TextModel,
		ImageModel: cfg.GenAI.ImageModel,
		Timeout:    cfg.GenAI.Timeout,
	}, log)

	e := api.NewRouter(api.Deps{
		Auth:       authSvc,
		Generative: genClient,
		Dispatcher: dispatcher,
		Store:      pinger,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Store.Backend).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// buildStore constructs the record store backend selected by config and
// returns it together with its readiness pinger and a cleanup func.
func buildStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.RecordStore, handlers.StorePinger, func(), error) {
	switch cfg.Store.Backend {
	case "file":
		fs, err := store.NewFileStore(cfg.Store.Dir, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return fs, fs, func() {}, nil

	case "redis":
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, nil, err
		}
		rs := store.NewRedisStore(client, log)
		return rs, rs, func() { _ = client.Close() }, nil

	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		ms := store.NewMongoStore(db, log)
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return ms, ms, cleanup, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
