package provider

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/metrics"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

// AddProviderInput is what a caller supplies to create a custom provider.
type AddProviderInput struct {
	ID     string         `validate:"required,max=128"`
	Name   string         `validate:"required,max=256"`
	Config map[string]any `validate:"-"`
}

// Service is the provider registry: built-in catalog plus the custom providers
// held in the Store. Only custom providers can be added or deleted.
type Service struct {
	store    Store
	catalog  *Catalog
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

type ServiceOption func(*Service)

// WithClock overrides the time source used for created_at.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, catalog *Catalog, log zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		catalog:  catalog,
		validate: validator.New(),
		now:      time.Now,
		log:      log.With().Str("component", "provider-registry").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProviders returns built-ins first, in declaration order, followed by
// custom providers in stored order.
func (s *Service) GetAllProviders(ctx context.Context) ([]Provider, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read providers")
	}

	result := s.catalog.Providers()
	for _, p := range doc.Providers {
		result = append(result, customView(p))
	}
	return result, nil
}

// GetProvider looks up id among built-ins, then custom providers. The bool is
// false when nothing matches; that is not an error.
func (s *Service) GetProvider(ctx context.Context, id string) (Provider, bool, error) {
	if p, ok := s.catalog.Lookup(id); ok {
		return p, true, nil
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		return Provider{}, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read providers")
	}
	if idx := doc.indexOf(id); idx >= 0 {
		return customView(doc.Providers[idx]), true, nil
	}
	return Provider{}, false, nil
}

// AddProvider creates a custom provider. Built-in ids are permanently reserved.
func (s *Service) AddProvider(ctx context.Context, input AddProviderInput) (Provider, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return Provider{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "provider id and name are required", fmt.Errorf("%w: %w", ErrInvalidProvider, err), "5b8d3c1e-7f0a-4c61-9a2e-0d4f6b7c8e91")
	}

	if s.catalog.Contains(input.ID) {
		return Provider{}, duplicateError(ctx, input.ID)
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		return Provider{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read providers")
	}
	if doc.indexOf(input.ID) >= 0 {
		return Provider{}, duplicateError(ctx, input.ID)
	}

	createdAt := s.now().UTC()
	created := Provider{
		ID:        input.ID,
		Name:      input.Name,
		Builtin:   false,
		Config:    maps.Clone(input.Config),
		CreatedAt: &createdAt,
	}
	if created.Config == nil {
		created.Config = map[string]any{}
	}
	doc.Providers = append(doc.Providers, created)

	if err := s.store.Write(ctx, doc); err != nil {
		return Provider{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist provider")
	}
	metrics.SetCustomProviders(len(doc.Providers))

	s.log.Info().Str("provider_id", created.ID).Msg("custom provider added")
	return created.Clone(), nil
}

// DeleteProvider removes a custom provider and its model filter. Unknown and
// built-in ids yield the same error.
func (s *Service) DeleteProvider(ctx context.Context, id string) error {
	if s.catalog.Contains(id) {
		return notFoundOrBuiltinError(ctx, id)
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read providers")
	}
	idx := doc.indexOf(id)
	if idx < 0 {
		return notFoundOrBuiltinError(ctx, id)
	}

	doc.Providers = append(doc.Providers[:idx], doc.Providers[idx+1:]...)
	delete(doc.FilteredModels, id)

	if err := s.store.Write(ctx, doc); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist provider removal")
	}
	metrics.SetCustomProviders(len(doc.Providers))

	s.log.Info().Str("provider_id", id).Msg("custom provider deleted")
	return nil
}

// customView forces the stored record into its custom shape; a hand-edited
// file cannot promote an entry to built-in.
func customView(p Provider) Provider {
	out := p.Clone()
	out.Builtin = false
	return out
}

func duplicateError(ctx context.Context, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "provider id already exists: "+id, ErrDuplicateProvider, "a3f1c9d2-4b6e-4e0a-8c57-2f9b1d0e6a43")
}

func notFoundOrBuiltinError(ctx context.Context, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "provider not found or not deletable: "+id, ErrNotFoundOrBuiltin, "e27c4a90-1d3b-4f8e-b6a5-93c0d8f71e2b")
}
