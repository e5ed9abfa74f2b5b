// Package docdb is the read-only view of a document server used by the catalog.
package docdb

import (
	"context"
)

// Cursor yields the documents of a query. *mongo.Cursor satisfies it.
type Cursor interface {
	// All decodes the remaining documents into a pointer to a slice and
	// closes the cursor.
	All(ctx context.Context, results interface{}) error
	Close(ctx context.Context) error
}

// Collection exposes the reads the viewer performs on a collection.
type Collection interface {
	Name() string
	Find(ctx context.Context, filter interface{}, opts *FindOptions) (Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	// Stats returns storage engine counters; absent counters are zero.
	Stats(ctx context.Context) (*StorageStats, error)
}

// Database lists and opens collections.
type Database interface {
	Name() string
	Collection(name string) Collection
	// ListCollections includes views.
	ListCollections(ctx context.Context) ([]CollectionSummary, error)
}
