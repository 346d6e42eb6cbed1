package provider

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

// FilterService keeps the per-provider model allow-lists stored under
// filtered_models. It accepts any id, built-in or custom.
type FilterService struct {
	store Store
	log   zerolog.Logger
}

func NewFilterService(store Store, log zerolog.Logger) *FilterService {
	return &FilterService{
		store: store,
		log:   log.With().Str("component", "model-filter").Logger(),
	}
}

// GetFilteredModels returns the allow-list for id. ok is false when no filter
// is set, which means every model is shown.
func (s *FilterService) GetFilteredModels(ctx context.Context, id string) (names []string, ok bool, err error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read model filters")
	}
	stored, ok := doc.FilteredModels[id]
	if !ok || len(stored) == 0 {
		return nil, false, nil
	}
	return slices.Clone(stored), true, nil
}

// SetFilteredModels replaces the allow-list for id. An empty list removes the
// entry; "zero models allowed" cannot be stored.
func (s *FilterService) SetFilteredModels(ctx context.Context, id string, names []string) error {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read model filters")
	}
	doc.Normalize()

	if len(names) == 0 {
		delete(doc.FilteredModels, id)
	} else {
		doc.FilteredModels[id] = slices.Clone(names)
	}

	if err := s.store.Write(ctx, doc); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist model filters")
	}

	s.log.Debug().Str("provider_id", id).Int("models", len(names)).Msg("model filter updated")
	return nil
}
