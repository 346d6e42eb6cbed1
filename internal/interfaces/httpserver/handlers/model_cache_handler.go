package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcache"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/responses"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

type CachedModelsRequest struct {
	Models []modelcache.Model `json:"models"`
}

type CachedModelsResponse struct {
	ProviderID string             `json:"provider_id"`
	Models     []modelcache.Model `json:"models"`
	FetchedAt  time.Time          `json:"fetched_at"`
	Stale      bool               `json:"stale"`
}

type ModelCacheHandler struct {
	cache ModelCache
}

func NewModelCacheHandler(cache ModelCache) *ModelCacheHandler {
	return &ModelCacheHandler{cache: cache}
}

// List godoc
// @Summary      List cached provider ids
// @Tags         model-cache
// @Produce      json
// @Success      200  {object}  responses.ListResponse[string]
// @Router       /v1/model-cache [get]
func (h *ModelCacheHandler) List(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(h.cache.Keys()))
}

// Get godoc
// @Summary      Get cached models
// @Tags         model-cache
// @Produce      json
// @Param        id   path      string  true  "Provider ID"
// @Success      200  {object}  CachedModelsResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/model-cache/{id} [get]
func (h *ModelCacheHandler) Get(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeNotFound, "no cached models for provider: "+id, "b2d4f6a8-0c1e-4a3c-9e5a-7c9e1a3c5e7a")
		return
	}
	reqCtx.JSON(http.StatusOK, CachedModelsResponse{
		ProviderID: id,
		Models:     entry.Models,
		FetchedAt:  entry.FetchedAt,
		Stale:      h.cache.IsStale(id),
	})
}

// Put godoc
// @Summary      Replace cached models
// @Tags         model-cache
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Provider ID"
// @Param        request  body      CachedModelsRequest  true  "Models"
// @Success      200      {object}  CachedModelsResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/model-cache/{id} [put]
func (h *ModelCacheHandler) Put(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	var req CachedModelsRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "6f8a0c2e-4b6d-4f8a-a0c2-e4b6d8f0a2c4")
		return
	}
	entry := h.cache.Set(id, req.Models)
	reqCtx.JSON(http.StatusOK, CachedModelsResponse{
		ProviderID: id,
		Models:     entry.Models,
		FetchedAt:  entry.FetchedAt,
		Stale:      h.cache.IsStale(id),
	})
}

// Delete godoc
// @Summary      Clear one provider's cached models
// @Tags         model-cache
// @Param        id   path  string  true  "Provider ID"
// @Success      204
// @Router       /v1/model-cache/{id} [delete]
func (h *ModelCacheHandler) Delete(reqCtx *gin.Context) {
	h.cache.Clear(reqCtx.Param("id"))
	reqCtx.Status(http.StatusNoContent)
}

// DeleteAll godoc
// @Summary      Clear the whole model cache
// @Tags         model-cache
// @Success      204
// @Router       /v1/model-cache [delete]
func (h *ModelCacheHandler) DeleteAll(reqCtx *gin.Context) {
	h.cache.ClearAll()
	reqCtx.Status(http.StatusNoContent)
}
