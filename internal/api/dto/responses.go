package dto

import (
	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
	"github.com/unifiedui/mongo-viewer/internal/services/catalog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	// Success is only set on connect failures.
	Success *bool `json:"success,omitempty"`
}

// SuccessResponse acknowledges a connect or disconnect.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DatabasesResponse lists databases.
type DatabasesResponse struct {
	Databases []docdb.DatabaseSummary `json:"databases"`
}

// CollectionsResponse lists collections.
type CollectionsResponse struct {
	Collections []docdb.CollectionSummary `json:"collections"`
}

// DocumentsResponse is one page of documents.
type DocumentsResponse = catalog.DocumentPage

// StatsResponse reports collection statistics.
type StatsResponse = catalog.CollectionStats

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse represents a readiness check response.
type ReadyResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}
