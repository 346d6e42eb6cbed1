package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/filestore"
)

type StoreHandler struct{}

func NewStoreHandler() *StoreHandler {
	return &StoreHandler{}
}

// Schema godoc
// @Summary      JSON schema of the providers file
// @Tags         store
// @Produce      json
// @Success      200
// @Router       /v1/store/schema [get]
func (h *StoreHandler) Schema(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, filestore.Schema())
}
