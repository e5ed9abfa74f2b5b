// Package catalog reads databases, collections, documents and statistics
// through the gateway's MongoDB session.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
	"github.com/unifiedui/mongo-viewer/internal/domain/errors"
	"github.com/unifiedui/mongo-viewer/internal/pkg/docjson"
)

// Sessions gives read access to the current database client.
type Sessions interface {
	WithClient(fn func(client docdb.Client) error) error
}

// DocumentPage is one page of documents in natural order.
type DocumentPage struct {
	Documents     []json.RawMessage `json:"documents"`
	TotalCount    int64             `json:"totalCount"`
	ReturnedCount int               `json:"returnedCount"`
}

// CollectionStats summarises the storage of a collection.
type CollectionStats struct {
	DocumentCount       int64   `json:"documentCount"`
	AverageDocumentSize float64 `json:"averageDocumentSize"`
	CollectionSize      int64   `json:"collectionSize"`
	StorageSize         int64   `json:"storageSize"`
	IndexCount          int64   `json:"indexCount"`
}

// Config holds the dependencies of a Service.
type Config struct {
	Sessions Sessions
	// Encoder renders documents; nil uses plain JSON.
	Encoder      *docjson.Encoder
	DefaultLimit int64
	MaxLimit     int64
}

// Service implements the catalog, document and stats operations.
type Service struct {
	sessions     Sessions
	encoder      *docjson.Encoder
	defaultLimit int64
	maxLimit     int64
}

// NewService creates a new catalog service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("sessions is required")
	}

	encoder := cfg.Encoder
	if encoder == nil {
		encoder = docjson.NewEncoder(docjson.ModePlain)
	}

	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}

	return &Service{
		sessions:     cfg.Sessions,
		encoder:      encoder,
		defaultLimit: defaultLimit,
		maxLimit:     cfg.MaxLimit,
	}, nil
}

// ListDatabases lists the databases on the server.
func (s *Service) ListDatabases(ctx context.Context) ([]docdb.DatabaseSummary, error) {
	var databases []docdb.DatabaseSummary
	err := s.sessions.WithClient(func(client docdb.Client) error {
		result, err := client.ListDatabases(ctx)
		if err != nil {
			return errors.FromDriverError("list databases", err)
		}
		databases = result
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("error listing databases")
		return nil, err
	}

	if databases == nil {
		databases = []docdb.DatabaseSummary{}
	}
	return databases, nil
}

// ListCollections lists the collections and views of a database.
func (s *Service) ListCollections(ctx context.Context, dbName string) ([]docdb.CollectionSummary, error) {
	if err := requireName("Database name", dbName); err != nil {
		return nil, err
	}

	var collections []docdb.CollectionSummary
	err := s.sessions.WithClient(func(client docdb.Client) error {
		result, err := client.Database(dbName).ListCollections(ctx)
		if err != nil {
			return errors.FromDriverError("list collections", err)
		}
		collections = result
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("database", dbName).Msg("error listing collections")
		return nil, err
	}

	if collections == nil {
		collections = []docdb.CollectionSummary{}
	}
	return collections, nil
}

// ListDocuments returns up to limit documents plus the collection's total count.
// The limit is normalised with ResolveLimit.
func (s *Service) ListDocuments(ctx context.Context, dbName, collectionName string, limit int64) (*DocumentPage, error) {
	if err := requireName("Database name", dbName); err != nil {
		return nil, err
	}
	if err := requireName("Collection name", collectionName); err != nil {
		return nil, err
	}

	limit = s.ResolveLimit(limit)

	var page *DocumentPage
	err := s.sessions.WithClient(func(client docdb.Client) error {
		coll := client.Database(dbName).Collection(collectionName)

		cursor, err := coll.Find(ctx, bson.D{}, &docdb.FindOptions{Limit: limit})
		if err != nil {
			return errors.FromDriverError("find documents", err)
		}

		var docs []bson.D
		if err := cursor.All(ctx, &docs); err != nil {
			return errors.FromDriverError("read documents", err)
		}

		total, err := coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return errors.FromDriverError("count documents", err)
		}

		rendered, err := s.encoder.EncodeAll(docs)
		if err != nil {
			return errors.NewInternalError(err.Error(), err)
		}

		page = &DocumentPage{
			Documents:     rendered,
			TotalCount:    total,
			ReturnedCount: len(rendered),
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).
			Str("database", dbName).
			Str("collection", collectionName).
			Msg("error fetching documents")
		return nil, err
	}

	return page, nil
}

// CollectionStats reports the document count and storage statistics of a collection.
func (s *Service) CollectionStats(ctx context.Context, dbName, collectionName string) (*CollectionStats, error) {
	if err := requireName("Database name", dbName); err != nil {
		return nil, err
	}
	if err := requireName("Collection name", collectionName); err != nil {
		return nil, err
	}

	var stats *CollectionStats
	err := s.sessions.WithClient(func(client docdb.Client) error {
		coll := client.Database(dbName).Collection(collectionName)

		storage, err := coll.Stats(ctx)
		if err != nil {
			return errors.FromDriverError("collection stats", err)
		}

		count, err := coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return errors.FromDriverError("count documents", err)
		}

		stats = &CollectionStats{
			DocumentCount:       count,
			AverageDocumentSize: storage.AvgObjSize,
			CollectionSize:      storage.Size,
			StorageSize:         storage.StorageSize,
			IndexCount:          storage.IndexCount,
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).
			Str("database", dbName).
			Str("collection", collectionName).
			Msg("error fetching stats")
		return nil, err
	}

	return stats, nil
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field+" is required", "")
	}
	return nil
}
