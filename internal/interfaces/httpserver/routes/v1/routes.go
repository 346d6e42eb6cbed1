package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/frogg-app/prompt-assistant-sub001/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	registerProviderRoutes(group, r.handlers.Providers, r.handlers.Models)
	registerModelCacheRoutes(group, r.handlers.ModelCache)
	registerStoreRoutes(group, r.handlers.Store)
}

func registerProviderRoutes(router *gin.RouterGroup, providers *handlers.ProviderHandler, models *handlers.ModelHandler) {
	group := router.Group("/providers")
	group.GET("", providers.List)
	group.POST("", providers.Create)
	group.GET("/:id", providers.Get)
	group.DELETE("/:id", providers.Delete)
	group.GET("/:id/filtered-models", providers.GetFilteredModels)
	group.PUT("/:id/filtered-models", providers.SetFilteredModels)
	group.GET("/:id/models", models.List)
}

func registerModelCacheRoutes(router *gin.RouterGroup, cache *handlers.ModelCacheHandler) {
	group := router.Group("/model-cache")
	group.GET("", cache.List)
	group.DELETE("", cache.DeleteAll)
	group.GET("/:id", cache.Get)
	group.PUT("/:id", cache.Put)
	group.DELETE("/:id", cache.Delete)
}

func registerStoreRoutes(router *gin.RouterGroup, store *handlers.StoreHandler) {
	router.GET("/store/schema", store.Schema)
}
