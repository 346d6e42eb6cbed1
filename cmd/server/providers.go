package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/config"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/filestore"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/logger"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/upstream"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/redact"
)

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

// newFileStore creates the providers file on first start so a bad path fails
// at boot rather than on the first request.
func newFileStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*filestore.FileStore, error) {
	store := filestore.New(cfg.ProvidersFile, log)
	if err := store.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newRegistry(store provider.Store, catalog *provider.Catalog, log zerolog.Logger) *provider.Service {
	return provider.NewService(store, catalog, log)
}

func newModelCache(cfg *config.Config) *modelcache.Cache {
	return modelcache.New(modelcache.WithDefaultMaxAge(cfg.ModelCacheMaxAge))
}

func newUpstreamRouter(cfg *config.Config) *upstream.Router {
	return upstream.NewRouter(cfg.UpstreamHTTPTimeout, cfg.UpstreamKeys())
}

func newReadinessCheck(store *filestore.FileStore) httpserver.ReadinessCheck {
	return func(ctx context.Context) error {
		_, err := store.Read(ctx)
		return err
	}
}

func newRedactor(cfg *config.Config) *redact.Redactor {
	return redact.NewRedactor(redact.Level(cfg.SecretRedaction), cfg.ServiceName)
}
