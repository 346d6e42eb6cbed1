//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/frogg-app/prompt-assistant-sub001/internal/config"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcatalog"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/filestore"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/upstream"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/handlers"
)

var registrySet = wire.NewSet(
	newFileStore,
	wire.Bind(new(provider.Store), new(*filestore.FileStore)),
	provider.MustLoadCatalog,
	newRegistry,
	provider.NewFilterService,
)

var modelSet = wire.NewSet(
	newModelCache,
	newUpstreamRouter,
	wire.Bind(new(modelcatalog.Lister), new(*upstream.Router)),
	wire.Bind(new(modelcatalog.ProviderLookup), new(*provider.Service)),
	wire.Bind(new(modelcatalog.FilterLookup), new(*provider.FilterService)),
	modelcatalog.NewService,
)

var httpSet = wire.NewSet(
	wire.Bind(new(handlers.ProviderRegistry), new(*provider.Service)),
	wire.Bind(new(handlers.ModelFilters), new(*provider.FilterService)),
	wire.Bind(new(handlers.ModelLister), new(*modelcatalog.Service)),
	wire.Bind(new(handlers.ModelCache), new(*modelcache.Cache)),
	newRedactor,
	handlers.NewProvider,
	newReadinessCheck,
	httpserver.New,
)

// BuildApplication assembles the service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		newLogger,
		registrySet,
		modelSet,
		httpSet,
		NewApplication,
	)
	return nil, nil
}
