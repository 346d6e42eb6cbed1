package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcatalog"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/redact"
)

type ProviderRegistry interface {
	GetAllProviders(ctx context.Context) ([]provider.Provider, error)
	GetProvider(ctx context.Context, id string) (provider.Provider, bool, error)
	AddProvider(ctx context.Context, input provider.AddProviderInput) (provider.Provider, error)
	DeleteProvider(ctx context.Context, id string) error
}

type ModelFilters interface {
	GetFilteredModels(ctx context.Context, id string) ([]string, bool, error)
	SetFilteredModels(ctx context.Context, id string, names []string) error
}

type ModelLister interface {
	ListModels(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error)
}

type ModelCache interface {
	Get(id string) (modelcache.Entry, bool)
	Set(id string, models []modelcache.Model) modelcache.Entry
	IsStale(id string) bool
	Clear(id string)
	ClearAll()
	Keys() []string
}

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Providers  *ProviderHandler
	Models     *ModelHandler
	ModelCache *ModelCacheHandler
	Store      *StoreHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(registry ProviderRegistry, filters ModelFilters, lister ModelLister, cache ModelCache, redactor *redact.Redactor, log zerolog.Logger) *Provider {
	return &Provider{
		Providers:  NewProviderHandler(registry, filters, cache, redactor, log),
		Models:     NewModelHandler(lister),
		ModelCache: NewModelCacheHandler(cache),
		Store:      NewStoreHandler(),
	}
}
