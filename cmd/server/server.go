package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/config"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcatalog"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/observability"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/handlers"
)

// @title Prompt Assistant Provider API
// @version 1.0
// @description Provider registry, model filters and model cache for the prompt assistant
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, err := newFileStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ProvidersFile).Msg("initialize provider store")
	}

	registry := newRegistry(store, provider.MustLoadCatalog(), log)
	filters := provider.NewFilterService(store, log)
	cache := newModelCache(cfg)
	catalog := modelcatalog.NewService(registry, filters, cache, newUpstreamRouter(cfg), log)

	handlerProvider := handlers.NewProvider(registry, filters, catalog, cache, newRedactor(cfg), log)
	httpServer := httpserver.New(cfg, log, handlerProvider, newReadinessCheck(store))
	app := NewApplication(httpServer, log)

	log.Info().
		Str("providers_file", store.Path()).
		Dur("model_cache_max_age", cache.DefaultMaxAge()).
		Msg("provider registry ready")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
