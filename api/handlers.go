// Package api wires the HTTP surface of the discovery service: routes,
// parameter normalization, and the standardized error responses.
package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oerhub/discovery/services"
)

// API holds handler dependencies.
type API struct {
	searcher  services.MaterialSearcher
	store     services.MaterialStore
	languages services.LanguageCache
}

// NewAPI creates a new API handler instance
func NewAPI(searcher services.MaterialSearcher, store services.MaterialStore, languages services.LanguageCache) *API {
	return &API{searcher: searcher, store: store, languages: languages}
}

// SetupRoutes defines all the API routes for the discovery service.
func SetupRoutes(router *gin.Engine, searcher services.MaterialSearcher, store services.MaterialStore, languages services.LanguageCache) {
	apiHandler := NewAPI(searcher, store, languages)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		materials := v1.Group("/oer_materials")
		{
			materials.GET("/search", apiHandler.SearchHandler)
			materials.POST("", apiHandler.CreateMaterialHandler)
			materials.POST("/bulk", apiHandler.CreateMaterialsBulkHandler)
			materials.GET("/:materialId", apiHandler.GetMaterialHandler)
			materials.PUT("/:materialId", apiHandler.UpdateMaterialHandler)
			materials.DELETE("/:materialId", apiHandler.DeleteMaterialHandler)
		}

		v1.GET("/recommend/oer_materials", apiHandler.RecommendHandler)

		languageRoutes := v1.Group("/oer_languages")
		{
			languageRoutes.GET("", apiHandler.ListLanguagesHandler)
			languageRoutes.POST("/refresh", apiHandler.RefreshLanguagesHandler)
		}
	}
}

// HealthCheckHandler reports service liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLanguagesHandler returns the cached set of document languages.
func (api *API) ListLanguagesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": api.languages.Languages()})
}

// RefreshLanguagesHandler re-reads the language set from the index.
func (api *API) RefreshLanguagesHandler(c *gin.Context) {
	if err := api.languages.Refresh(c.Request.Context()); err != nil {
		log.Printf("Error: refreshing language cache: %v", err)
		SendInternalError(c, "language refresh")
		return
	}
	c.JSON(http.StatusOK, gin.H{"languages": api.languages.Languages()})
}
