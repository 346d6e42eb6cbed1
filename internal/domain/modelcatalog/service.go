package modelcatalog

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/metrics"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

// Lister fetches the live model list of a provider.
type Lister interface {
	ListModels(ctx context.Context, p provider.Provider, apiKey string) ([]modelcache.Model, error)
}

type ProviderLookup interface {
	GetProvider(ctx context.Context, id string) (provider.Provider, bool, error)
}

type FilterLookup interface {
	GetFilteredModels(ctx context.Context, id string) ([]string, bool, error)
}

// ListOptions controls a single ListModels call.
type ListOptions struct {
	// Refresh skips the cache even when the entry is fresh.
	Refresh bool
	// MaxAge overrides the cache default. Zero forces a refetch.
	MaxAge *time.Duration
	// APIKey is forwarded to the lister; empty lets the lister pick a fallback.
	APIKey string
	// Unfiltered returns every model even when an allow-list is set.
	Unfiltered bool
}

type ModelList struct {
	ProviderID string             `json:"provider_id"`
	Models     []modelcache.Model `json:"models"`
	FetchedAt  time.Time          `json:"fetched_at"`
	Cached     bool               `json:"cached"`
	Filtered   bool               `json:"filtered"`
}

type Service struct {
	providers ProviderLookup
	filters   FilterLookup
	cache     *modelcache.Cache
	lister    Lister
	group     singleflight.Group
	log       zerolog.Logger
}

func NewService(providers ProviderLookup, filters FilterLookup, cache *modelcache.Cache, lister Lister, log zerolog.Logger) *Service {
	return &Service{
		providers: providers,
		filters:   filters,
		cache:     cache,
		lister:    lister,
		log:       log.With().Str("component", "model-catalog").Logger(),
	}
}

// ListModels serves the provider's models from cache when fresh, otherwise
// from upstream, then applies the provider's allow-list.
func (s *Service) ListModels(ctx context.Context, id string, opts ListOptions) (ModelList, error) {
	p, ok, err := s.providers.GetProvider(ctx, id)
	if err != nil {
		return ModelList{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to resolve provider")
	}
	if !ok {
		return ModelList{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "provider not found: "+id, nil, "9c4e2f7a-61d8-4b3c-a0e5-7f1b2d8c6e04")
	}

	maxAge := s.cache.DefaultMaxAge()
	if opts.MaxAge != nil {
		maxAge = *opts.MaxAge
	}

	var (
		entry  modelcache.Entry
		cached bool
	)
	if !opts.Refresh && !s.cache.IsStaleAfter(id, maxAge) {
		entry, cached = s.cache.Get(id)
	}
	if !cached {
		entry, err = s.fetch(ctx, p, opts.APIKey)
		if err != nil {
			return ModelList{}, err
		}
	}

	list := ModelList{
		ProviderID: id,
		Models:     entry.Models,
		FetchedAt:  entry.FetchedAt,
		Cached:     cached,
	}
	if opts.Unfiltered {
		return list, nil
	}

	names, ok, err := s.filters.GetFilteredModels(ctx, id)
	if err != nil {
		return ModelList{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read model filter")
	}
	if ok {
		list.Models = ApplyFilter(list.Models, names)
		list.Filtered = true
	}
	return list, nil
}

// fetch collapses concurrent upstream calls for the same provider. The shared
// call runs detached from any single caller's cancellation; each caller stops
// waiting when its own context ends. Failed fetches leave the cache untouched.
func (s *Service) fetch(ctx context.Context, p provider.Provider, apiKey string) (modelcache.Entry, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(p.ID, func() (any, error) {
		start := time.Now()
		models, err := s.lister.ListModels(fetchCtx, p, apiKey)
		metrics.RecordUpstreamFetch(p.ID, err, time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		return s.cache.Set(p.ID, models), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return modelcache.Entry{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, ctx.Err(), "stopped waiting for models of "+p.ID)
	case res = <-ch:
	}

	if res.Err != nil {
		s.log.Warn().Err(res.Err).Str("provider_id", p.ID).Msg("upstream model listing failed")
		var pe *platformerrors.PlatformError
		if errors.As(res.Err, &pe) {
			return modelcache.Entry{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, res.Err, "failed to list models for "+p.ID)
		}
		return modelcache.Entry{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "failed to list models for "+p.ID, res.Err, "3f7d0b6e-2a91-4c58-8e1f-b4c6a9d2e730")
	}

	entry := res.Val.(modelcache.Entry)
	s.log.Debug().Str("provider_id", p.ID).Int("models", len(entry.Models)).Bool("shared", res.Shared).Msg("model list refreshed")
	return modelcache.Entry{Models: slices.Clone(entry.Models), FetchedAt: entry.FetchedAt}, nil
}

// ApplyFilter keeps the models whose id is in names, preserving models order.
func ApplyFilter(models []modelcache.Model, names []string) []modelcache.Model {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	out := make([]modelcache.Model, 0, len(names))
	for _, m := range models {
		if _, ok := allowed[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}
