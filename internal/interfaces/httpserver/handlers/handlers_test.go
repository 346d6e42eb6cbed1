package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcatalog"
	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/handlers"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/responses"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/redact"
)

// MockRegistry implements handlers.ProviderRegistry.
type MockRegistry struct {
	GetAllProvidersFunc func(ctx context.Context) ([]provider.Provider, error)
	GetProviderFunc     func(ctx context.Context, id string) (provider.Provider, bool, error)
	AddProviderFunc     func(ctx context.Context, input provider.AddProviderInput) (provider.Provider, error)
	DeleteProviderFunc  func(ctx context.Context, id string) error
}

func (m *MockRegistry) GetAllProviders(ctx context.Context) ([]provider.Provider, error) {
	if m.GetAllProvidersFunc != nil {
		return m.GetAllProvidersFunc(ctx)
	}
	return nil, nil
}

func (m *MockRegistry) GetProvider(ctx context.Context, id string) (provider.Provider, bool, error) {
	if m.GetProviderFunc != nil {
		return m.GetProviderFunc(ctx, id)
	}
	return provider.Provider{}, false, nil
}

func (m *MockRegistry) AddProvider(ctx context.Context, input provider.AddProviderInput) (provider.Provider, error) {
	if m.AddProviderFunc != nil {
		return m.AddProviderFunc(ctx, input)
	}
	return provider.Provider{ID: input.ID, Name: input.Name}, nil
}

func (m *MockRegistry) DeleteProvider(ctx context.Context, id string) error {
	if m.DeleteProviderFunc != nil {
		return m.DeleteProviderFunc(ctx, id)
	}
	return nil
}

// MockFilters implements handlers.ModelFilters.
type MockFilters struct {
	GetFilteredModelsFunc func(ctx context.Context, id string) ([]string, bool, error)
	SetFilteredModelsFunc func(ctx context.Context, id string, names []string) error
}

func (m *MockFilters) GetFilteredModels(ctx context.Context, id string) ([]string, bool, error) {
	if m.GetFilteredModelsFunc != nil {
		return m.GetFilteredModelsFunc(ctx, id)
	}
	return nil, false, nil
}

func (m *MockFilters) SetFilteredModels(ctx context.Context, id string, names []string) error {
	if m.SetFilteredModelsFunc != nil {
		return m.SetFilteredModelsFunc(ctx, id, names)
	}
	return nil
}

// MockLister implements handlers.ModelLister.
type MockLister struct {
	ListModelsFunc func(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error)
}

func (m *MockLister) ListModels(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error) {
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx, id, opts)
	}
	return modelcatalog.ModelList{ProviderID: id}, nil
}

type testDeps struct {
	registry *MockRegistry
	filters  *MockFilters
	lister   *MockLister
	cache    *modelcache.Cache
}

func setupTestRouter(deps *testDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if deps.registry == nil {
		deps.registry = &MockRegistry{}
	}
	if deps.filters == nil {
		deps.filters = &MockFilters{}
	}
	if deps.lister == nil {
		deps.lister = &MockLister{}
	}
	if deps.cache == nil {
		deps.cache = modelcache.New()
	}
	p := handlers.NewProvider(deps.registry, deps.filters, deps.lister, deps.cache, redact.NewRedactor(redact.LevelRedacted, "test"), zerolog.Nop())

	r := gin.New()
	providers := r.Group("/v1/providers")
	{
		providers.GET("", p.Providers.List)
		providers.POST("", p.Providers.Create)
		providers.GET("/:id", p.Providers.Get)
		providers.DELETE("/:id", p.Providers.Delete)
		providers.GET("/:id/filtered-models", p.Providers.GetFilteredModels)
		providers.PUT("/:id/filtered-models", p.Providers.SetFilteredModels)
		providers.GET("/:id/models", p.Models.List)
	}
	cache := r.Group("/v1/model-cache")
	{
		cache.GET("", p.ModelCache.List)
		cache.DELETE("", p.ModelCache.DeleteAll)
		cache.GET("/:id", p.ModelCache.Get)
		cache.PUT("/:id", p.ModelCache.Put)
		cache.DELETE("/:id", p.ModelCache.Delete)
	}
	r.GET("/v1/store/schema", p.Store.Schema)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestProviderHandler_List(t *testing.T) {
	r := setupTestRouter(&testDeps{registry: &MockRegistry{
		GetAllProvidersFunc: func(ctx context.Context) ([]provider.Provider, error) {
			return []provider.Provider{{ID: "openai", Name: "OpenAI", Builtin: true}, {ID: "custom", Name: "Custom"}}, nil
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[responses.ListResponse[provider.Provider]](t, w)
	assert.Equal(t, "list", body.Object)
	require.Len(t, body.Data, 2)
	assert.True(t, body.Data[0].Builtin)
	assert.False(t, body.Data[1].Builtin)
}

func TestProviderHandler_ListStoreFailure(t *testing.T) {
	r := setupTestRouter(&testDeps{registry: &MockRegistry{
		GetAllProvidersFunc: func(ctx context.Context) ([]provider.Provider, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "corrupt", provider.ErrStorageCorrupt, "corrupt-uuid")
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "corrupt-uuid", decode[responses.ErrorResponse](t, w).Code)
}

func TestProviderHandler_Get(t *testing.T) {
	r := setupTestRouter(&testDeps{registry: &MockRegistry{
		GetProviderFunc: func(ctx context.Context, id string) (provider.Provider, bool, error) {
			if id == "openai" {
				return provider.Provider{ID: "openai", Name: "OpenAI", Builtin: true}, true, nil
			}
			return provider.Provider{}, false, nil
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers/openai", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OpenAI", decode[provider.Provider](t, w).Name)

	w = do(t, r, http.MethodGet, "/v1/providers/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderHandler_Create(t *testing.T) {
	var got provider.AddProviderInput
	r := setupTestRouter(&testDeps{registry: &MockRegistry{
		AddProviderFunc: func(ctx context.Context, input provider.AddProviderInput) (provider.Provider, error) {
			got = input
			now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			return provider.Provider{ID: input.ID, Name: input.Name, Config: input.Config, CreatedAt: &now}, nil
		},
	}})

	w := do(t, r, http.MethodPost, "/v1/providers", map[string]any{
		"id":     "local",
		"name":   "Local",
		"config": map[string]any{"base_url": "http://localhost:11434/v1"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "local", got.ID)
	assert.Equal(t, "http://localhost:11434/v1", got.Config["base_url"])

	created := decode[provider.Provider](t, w)
	require.NotNil(t, created.CreatedAt)
}

func TestProviderHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{
			name:   "malformed json",
			body:   "{not json",
			status: http.StatusBadRequest,
		},
		{
			name:   "duplicate",
			body:   map[string]any{"id": "openai", "name": "Shadow"},
			err:    platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "exists", provider.ErrDuplicateProvider, "dup"),
			status: http.StatusConflict,
		},
		{
			name:   "invalid",
			body:   map[string]any{"id": ""},
			err:    platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "required", provider.ErrInvalidProvider, "inv"),
			status: http.StatusBadRequest,
		},
		{
			name:   "plain error",
			body:   map[string]any{"id": "x", "name": "X"},
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupTestRouter(&testDeps{registry: &MockRegistry{
				AddProviderFunc: func(ctx context.Context, input provider.AddProviderInput) (provider.Provider, error) {
					return provider.Provider{}, tt.err
				},
			}})
			w := do(t, r, http.MethodPost, "/v1/providers", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decode[responses.ErrorResponse](t, w).Error)
		})
	}
}

func TestProviderHandler_DeleteClearsCache(t *testing.T) {
	cache := modelcache.New()
	cache.Set("custom", []modelcache.Model{{ID: "m"}})
	cache.Set("other", []modelcache.Model{{ID: "m"}})
	r := setupTestRouter(&testDeps{cache: cache})

	w := do(t, r, http.MethodDelete, "/v1/providers/custom", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	_, ok := cache.Get("custom")
	assert.False(t, ok)
	_, ok = cache.Get("other")
	assert.True(t, ok)
}

func TestProviderHandler_DeleteNotFound(t *testing.T) {
	cache := modelcache.New()
	cache.Set("openai", []modelcache.Model{{ID: "m"}})
	r := setupTestRouter(&testDeps{cache: cache, registry: &MockRegistry{
		DeleteProviderFunc: func(ctx context.Context, id string) error {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "nope", provider.ErrNotFoundOrBuiltin, "nf")
		},
	}})

	w := do(t, r, http.MethodDelete, "/v1/providers/openai", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, ok := cache.Get("openai")
	assert.True(t, ok, "failed delete keeps the cache")
}

func TestProviderHandler_FilteredModels(t *testing.T) {
	stored := map[string][]string{}
	filters := &MockFilters{
		GetFilteredModelsFunc: func(ctx context.Context, id string) ([]string, bool, error) {
			names, ok := stored[id]
			return names, ok, nil
		},
		SetFilteredModelsFunc: func(ctx context.Context, id string, names []string) error {
			if len(names) == 0 {
				delete(stored, id)
				return nil
			}
			stored[id] = names
			return nil
		},
	}
	r := setupTestRouter(&testDeps{filters: filters})

	w := do(t, r, http.MethodGet, "/v1/providers/openai/filtered-models", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[handlers.FilteredModelsResponse](t, w)
	assert.False(t, body.Filtered)
	assert.Empty(t, body.Models)

	w = do(t, r, http.MethodPut, "/v1/providers/openai/filtered-models", map[string]any{"models": []string{"gpt-4o"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[handlers.FilteredModelsResponse](t, w).Filtered)

	w = do(t, r, http.MethodGet, "/v1/providers/openai/filtered-models", nil)
	body = decode[handlers.FilteredModelsResponse](t, w)
	assert.True(t, body.Filtered)
	assert.Equal(t, []string{"gpt-4o"}, body.Models)

	w = do(t, r, http.MethodPut, "/v1/providers/openai/filtered-models", map[string]any{"models": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[handlers.FilteredModelsResponse](t, w).Filtered)
	assert.NotContains(t, stored, "openai")

	w = do(t, r, http.MethodPut, "/v1/providers/openai/filtered-models", "[]")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModelHandler_ListParsesQuery(t *testing.T) {
	var got modelcatalog.ListOptions
	r := setupTestRouter(&testDeps{lister: &MockLister{
		ListModelsFunc: func(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error) {
			got = opts
			return modelcatalog.ModelList{ProviderID: id, Models: []modelcache.Model{{ID: "a"}}, Cached: true}, nil
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers/openai/models?refresh=true&max_age_ms=1500&unfiltered=1", nil, handlers.ProviderAPIKeyHeader, "sk-req")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.Refresh)
	assert.True(t, got.Unfiltered)
	require.NotNil(t, got.MaxAge)
	assert.Equal(t, 1500*time.Millisecond, *got.MaxAge)
	assert.Equal(t, "sk-req", got.APIKey)

	list := decode[modelcatalog.ModelList](t, w)
	assert.True(t, list.Cached)
	assert.Equal(t, "openai", list.ProviderID)

	w = do(t, r, http.MethodGet, "/v1/providers/openai/models", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, got.Refresh)
	assert.Nil(t, got.MaxAge)
}

func TestModelHandler_ListRejectsBadQuery(t *testing.T) {
	called := false
	r := setupTestRouter(&testDeps{lister: &MockLister{
		ListModelsFunc: func(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error) {
			called = true
			return modelcatalog.ModelList{}, nil
		},
	}})

	for _, query := range []string{"refresh=maybe", "unfiltered=x", "max_age_ms=-1", "max_age_ms=soon", "max_age_ms=9223372036855", "max_age_ms=10000000000000000"} {
		w := do(t, r, http.MethodGet, "/v1/providers/openai/models?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	assert.False(t, called)
}

func TestModelHandler_ListAcceptsLargestMaxAge(t *testing.T) {
	var got modelcatalog.ListOptions
	r := setupTestRouter(&testDeps{lister: &MockLister{
		ListModelsFunc: func(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error) {
			got = opts
			return modelcatalog.ModelList{ProviderID: id}, nil
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers/openai/models?max_age_ms=9223372036854", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.MaxAge)
	assert.Positive(t, *got.MaxAge)
	assert.Equal(t, 9223372036854*time.Millisecond, *got.MaxAge)
}

func TestModelHandler_ListUpstreamFailure(t *testing.T) {
	r := setupTestRouter(&testDeps{lister: &MockLister{
		ListModelsFunc: func(ctx context.Context, id string, opts modelcatalog.ListOptions) (modelcatalog.ModelList, error) {
			return modelcatalog.ModelList{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "upstream down", nil, "ext")
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers/openai/models", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestModelCacheHandler(t *testing.T) {
	cache := modelcache.New()
	r := setupTestRouter(&testDeps{cache: cache})

	w := do(t, r, http.MethodGet, "/v1/model-cache/openai", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, "/v1/model-cache/openai", map[string]any{"models": []map[string]any{{"id": "gpt-4o"}}})
	require.Equal(t, http.StatusOK, w.Code)
	put := decode[handlers.CachedModelsResponse](t, w)
	assert.False(t, put.Stale)
	assert.Equal(t, "gpt-4o", put.Models[0].ID)

	w = do(t, r, http.MethodGet, "/v1/model-cache/openai", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "openai", decode[handlers.CachedModelsResponse](t, w).ProviderID)

	do(t, r, http.MethodPut, "/v1/model-cache/gemini", map[string]any{"models": []any{}})
	w = do(t, r, http.MethodGet, "/v1/model-cache", nil)
	assert.Equal(t, []string{"gemini", "openai"}, decode[responses.ListResponse[string]](t, w).Data)

	w = do(t, r, http.MethodDelete, "/v1/model-cache/openai", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"gemini"}, cache.Keys())

	w = do(t, r, http.MethodDelete, "/v1/model-cache", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, cache.Len())
}

func TestStoreHandler_Schema(t *testing.T) {
	r := setupTestRouter(&testDeps{})

	w := do(t, r, http.MethodGet, "/v1/store/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	props, ok := body["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "providers")
	assert.Contains(t, props, "filtered_models")
}

func TestProviderHandler_RedactsCredentials(t *testing.T) {
	secret := provider.Provider{ID: "custom", Name: "Custom", Config: map[string]any{"api_key": "sk-live-123", "base_url": "http://a"}}
	r := setupTestRouter(&testDeps{registry: &MockRegistry{
		GetAllProvidersFunc: func(ctx context.Context) ([]provider.Provider, error) {
			return []provider.Provider{secret}, nil
		},
		GetProviderFunc: func(ctx context.Context, id string) (provider.Provider, bool, error) {
			return secret, true, nil
		},
		AddProviderFunc: func(ctx context.Context, input provider.AddProviderInput) (provider.Provider, error) {
			return provider.Provider{ID: input.ID, Name: input.Name, Config: input.Config}, nil
		},
	}})

	w := do(t, r, http.MethodGet, "/v1/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "sk-live-123")
	assert.Contains(t, w.Body.String(), "http://a")

	w = do(t, r, http.MethodGet, "/v1/providers/custom", nil)
	assert.NotContains(t, w.Body.String(), "sk-live-123")

	w = do(t, r, http.MethodPost, "/v1/providers", map[string]any{"id": "n", "name": "N", "config": map[string]any{"api_key": "sk-live-123"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "sk-live-123")

	assert.Equal(t, "sk-live-123", secret.Config["api_key"], "registry data is not modified")
}
