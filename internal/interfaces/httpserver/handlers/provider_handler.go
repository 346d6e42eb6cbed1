package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/provider"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/responses"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/redact"
)

type CreateProviderRequest struct {
	ID     string         `json:"id" example:"local-ollama"`
	Name   string         `json:"name" example:"Local Ollama"`
	Config map[string]any `json:"config,omitempty"`
}

type FilteredModelsRequest struct {
	Models []string `json:"models"`
}

type FilteredModelsResponse struct {
	ProviderID string   `json:"provider_id"`
	Filtered   bool     `json:"filtered"`
	Models     []string `json:"models"`
}

// ProviderHandler serves the provider registry and the per-provider model
// filters. Credentials in provider config are masked on the way out.
type ProviderHandler struct {
	registry ProviderRegistry
	filters  ModelFilters
	cache    ModelCache
	redactor *redact.Redactor
	log      zerolog.Logger
}

func NewProviderHandler(registry ProviderRegistry, filters ModelFilters, cache ModelCache, redactor *redact.Redactor, log zerolog.Logger) *ProviderHandler {
	if redactor == nil {
		redactor = redact.NewRedactor(redact.LevelRedacted, "")
	}
	return &ProviderHandler{
		registry: registry,
		filters:  filters,
		cache:    cache,
		redactor: redactor,
		log:      log,
	}
}

func (h *ProviderHandler) present(p provider.Provider) provider.Provider {
	p.Config = h.redactor.Config(p.Config)
	return p
}

// List godoc
// @Summary      List providers
// @Description  Built-in providers first, then custom providers in creation order.
// @Tags         providers
// @Produce      json
// @Success      200  {object}  responses.ListResponse[provider.Provider]
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/providers [get]
func (h *ProviderHandler) List(reqCtx *gin.Context) {
	providers, err := h.registry.GetAllProviders(reqCtx.Request.Context())
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to retrieve providers")
		return
	}
	for i := range providers {
		providers[i] = h.present(providers[i])
	}
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(providers))
}

// Get godoc
// @Summary      Get provider
// @Tags         providers
// @Produce      json
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  provider.Provider
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/providers/{id} [get]
func (h *ProviderHandler) Get(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	p, ok, err := h.registry.GetProvider(reqCtx.Request.Context(), id)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to retrieve provider")
		return
	}
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotFound, "provider not found: "+id, "4f0c8e2a-9b7d-4a16-b3e5-c2d1a0f98e76")
		return
	}
	reqCtx.JSON(http.StatusOK, h.present(p))
}

// Create godoc
// @Summary      Add custom provider
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        request  body      CreateProviderRequest  true  "Provider"
// @Success      201      {object}  provider.Provider
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Router       /v1/providers [post]
func (h *ProviderHandler) Create(reqCtx *gin.Context) {
	var req CreateProviderRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "0e3b5d7f-1a2c-4e6b-8d9f-a1b2c3d4e5f6")
		return
	}

	created, err := h.registry.AddProvider(reqCtx.Request.Context(), provider.AddProviderInput{
		ID:     req.ID,
		Name:   req.Name,
		Config: req.Config,
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to add provider")
		return
	}
	h.log.Debug().Str("provider_id", created.ID).Interface("config", h.redactor.Config(created.Config)).Msg("provider created via API")
	reqCtx.JSON(http.StatusCreated, h.present(created))
}

// Delete godoc
// @Summary      Delete custom provider
// @Description  Also drops the provider's model filter and cached model list.
// @Tags         providers
// @Param        id   path  string  true  "Provider ID"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/providers/{id} [delete]
func (h *ProviderHandler) Delete(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	if err := h.registry.DeleteProvider(reqCtx.Request.Context(), id); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete provider")
		return
	}
	h.cache.Clear(id)
	reqCtx.Status(http.StatusNoContent)
}

// GetFilteredModels godoc
// @Summary      Get model allow-list
// @Tags         providers
// @Produce      json
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  FilteredModelsResponse
// @Router       /v1/providers/{id}/filtered-models [get]
func (h *ProviderHandler) GetFilteredModels(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	names, ok, err := h.filters.GetFilteredModels(reqCtx.Request.Context(), id)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to retrieve model filter")
		return
	}
	reqCtx.JSON(http.StatusOK, filteredModelsResponse(id, names, ok))
}

// SetFilteredModels godoc
// @Summary      Replace model allow-list
// @Description  An empty list removes the filter.
// @Tags         providers
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Provider ID"
// @Param        request  body      FilteredModelsRequest  true  "Allowed model ids"
// @Success      200      {object}  FilteredModelsResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/providers/{id}/filtered-models [put]
func (h *ProviderHandler) SetFilteredModels(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	var req FilteredModelsRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "8a6c4e2f-0d1b-4c3a-9e8f-7d6c5b4a3f21")
		return
	}
	if err := h.filters.SetFilteredModels(reqCtx.Request.Context(), id, req.Models); err != nil {
		responses.HandleError(reqCtx, err, "Failed to update model filter")
		return
	}
	reqCtx.JSON(http.StatusOK, filteredModelsResponse(id, req.Models, len(req.Models) > 0))
}

func filteredModelsResponse(id string, names []string, filtered bool) FilteredModelsResponse {
	if !filtered || names == nil {
		names = []string{}
	}
	return FilteredModelsResponse{ProviderID: id, Filtered: filtered, Models: names}
}
