// Package routes defines the HTTP routes for the Mongo Viewer gateway.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/unifiedui/mongo-viewer/internal/api/handlers"
	"github.com/unifiedui/mongo-viewer/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler     *handlers.HealthHandler
	ConnectionHandler *handlers.ConnectionHandler
	CatalogHandler    *handlers.CatalogHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	api := r.Group("/api")
	{
		api.GET("/health", cfg.HealthHandler.Health)
		api.GET("/ready", cfg.HealthHandler.Ready)
		api.GET("/live", cfg.HealthHandler.Live)

		api.POST("/connect", cfg.ConnectionHandler.Connect)
		api.POST("/disconnect", cfg.ConnectionHandler.Disconnect)

		api.GET("/databases", cfg.CatalogHandler.Databases)
		api.GET("/collections/:dbName", cfg.CatalogHandler.Collections)
		api.GET("/documents/:dbName/:collectionName", cfg.CatalogHandler.Documents)
		api.GET("/stats/:dbName/:collectionName", cfg.CatalogHandler.Stats)
	}

	r.NoRoute(middleware.NotFound())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, cors middleware.CORSConfig) {
	r.Use(loggingMw.RequestLogger())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(middleware.NewCORSMiddleware(cors))
	middleware.SetupCORSRoutes(r, cors)

	Setup(r, cfg)
}
