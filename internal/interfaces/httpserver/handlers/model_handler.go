package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frogg-app/prompt-assistant-sub001/internal/domain/modelcatalog"
	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/responses"
	"github.com/frogg-app/prompt-assistant-sub001/internal/utils/platformerrors"
)

// ProviderAPIKeyHeader carries a per-request upstream credential.
const ProviderAPIKeyHeader = "X-Provider-Api-Key"

// maxAgeMsLimit is the largest max_age_ms that fits in a time.Duration.
const maxAgeMsLimit = math.MaxInt64 / int64(time.Millisecond)

type ModelHandler struct {
	lister ModelLister
}

func NewModelHandler(lister ModelLister) *ModelHandler {
	return &ModelHandler{lister: lister}
}

// List godoc
// @Summary      List provider models
// @Description  Served from the model cache while fresh, otherwise fetched upstream.
// @Tags         models
// @Produce      json
// @Param        id          path      string  true   "Provider ID"
// @Param        refresh     query     bool    false  "Bypass the cache"
// @Param        max_age_ms  query     int     false  "Maximum acceptable cache age in milliseconds"
// @Param        unfiltered  query     bool    false  "Ignore the provider's model filter"
// @Success      200  {object}  modelcatalog.ModelList
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      502  {object}  responses.ErrorResponse
// @Router       /v1/providers/{id}/models [get]
func (h *ModelHandler) List(reqCtx *gin.Context) {
	opts, ok := parseListOptions(reqCtx)
	if !ok {
		return
	}
	opts.APIKey = reqCtx.GetHeader(ProviderAPIKeyHeader)

	list, err := h.lister.ListModels(reqCtx.Request.Context(), reqCtx.Param("id"), opts)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list models")
		return
	}
	reqCtx.JSON(http.StatusOK, list)
}

func parseListOptions(reqCtx *gin.Context) (modelcatalog.ListOptions, bool) {
	var opts modelcatalog.ListOptions

	if raw := reqCtx.Query("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "refresh must be a boolean", "5d3f1b9e-7c2a-4e8d-a6b4-0f9e8d7c6b5a")
			return opts, false
		}
		opts.Refresh = v
	}
	if raw := reqCtx.Query("unfiltered"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "unfiltered must be a boolean", "e9c7a5b3-1f0d-4b2e-8c6a-4d2f0e8c6a4b")
			return opts, false
		}
		opts.Unfiltered = v
	}
	if raw := reqCtx.Query("max_age_ms"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms < 0 || ms > maxAgeMsLimit {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "max_age_ms must be a non-negative integer no larger than 9223372036854", "1c3e5a7b-9d0f-4a2c-b4e6-f8a0c2e4a6b8")
			return opts, false
		}
		maxAge := time.Duration(ms) * time.Millisecond
		opts.MaxAge = &maxAge
	}
	return opts, true
}
