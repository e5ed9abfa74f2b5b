package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	"github.com/unifiedui/mongo-viewer/internal/api/middleware"
	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
	"github.com/unifiedui/mongo-viewer/internal/services/catalog"
)

// Catalog is the read surface served by CatalogHandler.
type Catalog interface {
	ListDatabases(ctx context.Context) ([]docdb.DatabaseSummary, error)
	ListCollections(ctx context.Context, dbName string) ([]docdb.CollectionSummary, error)
	ListDocuments(ctx context.Context, dbName, collectionName string, limit int64) (*catalog.DocumentPage, error)
	CollectionStats(ctx context.Context, dbName, collectionName string) (*catalog.CollectionStats, error)
}

// CatalogHandler handles database, collection, document and stats reads.
type CatalogHandler struct {
	catalog Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Databases handles GET /databases.
// @Summary List databases
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.DatabasesResponse
// @Failure 400 {object} dto.ErrorResponse "Not connected"
// @Failure 500 {object} dto.ErrorResponse
// @Router /databases [get]
func (h *CatalogHandler) Databases(c *gin.Context) {
	databases, err := h.catalog.ListDatabases(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DatabasesResponse{Databases: databases})
}

// Collections handles GET /collections/:dbName.
// @Summary List collections
// @Tags Catalog
// @Produce json
// @Param dbName path string true "Database name"
// @Success 200 {object} dto.CollectionsResponse
// @Failure 400 {object} dto.ErrorResponse "Not connected"
// @Failure 500 {object} dto.ErrorResponse
// @Router /collections/{dbName} [get]
func (h *CatalogHandler) Collections(c *gin.Context) {
	collections, err := h.catalog.ListCollections(c.Request.Context(), c.Param("dbName"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CollectionsResponse{Collections: collections})
}

// Documents handles GET /documents/:dbName/:collectionName.
// @Summary List documents
// @Description Returns up to limit documents in natural order and the total count
// @Tags Catalog
// @Produce json
// @Param dbName path string true "Database name"
// @Param collectionName path string true "Collection name"
// @Param limit query int false "Page size (default 50)"
// @Success 200 {object} dto.DocumentsResponse
// @Failure 400 {object} dto.ErrorResponse "Not connected"
// @Failure 500 {object} dto.ErrorResponse
// @Router /documents/{dbName}/{collectionName} [get]
func (h *CatalogHandler) Documents(c *gin.Context) {
	limit := catalog.ParseLimit(c.Query("limit"))

	page, err := h.catalog.ListDocuments(c.Request.Context(), c.Param("dbName"), c.Param("collectionName"), limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Stats handles GET /stats/:dbName/:collectionName.
// @Summary Collection statistics
// @Tags Catalog
// @Produce json
// @Param dbName path string true "Database name"
// @Param collectionName path string true "Collection name"
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} dto.ErrorResponse "Not connected"
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats/{dbName}/{collectionName} [get]
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.catalog.CollectionStats(c.Request.Context(), c.Param("dbName"), c.Param("collectionName"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
