package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
)

// Database adapts a driver database handle to docdb.Database.
type Database struct {
	db *mongo.Database
}

func (d *Database) Name() string {
	return d.db.Name()
}

func (d *Database) Collection(name string) docdb.Collection {
	return &Collection{coll: d.db.Collection(name)}
}

// ListCollections returns collections and views with their reported type.
// Only names and types are requested from the server.
func (d *Database) ListCollections(ctx context.Context) ([]docdb.CollectionSummary, error) {
	specs, err := d.db.ListCollectionSpecifications(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", d.db.Name(), err)
	}

	out := make([]docdb.CollectionSummary, len(specs))
	for i, spec := range specs {
		out[i] = docdb.CollectionSummary{Name: spec.Name, Type: spec.Type}
	}
	return out, nil
}

// Collection adapts a driver collection handle to docdb.Collection.
type Collection struct {
	coll *mongo.Collection
}

func (c *Collection) Name() string {
	return c.coll.Name()
}

// Find runs an unsorted query in natural order. A nil filter matches everything.
func (c *Collection) Find(ctx context.Context, filter interface{}, opts *docdb.FindOptions) (docdb.Cursor, error) {
	if filter == nil {
		filter = bson.D{}
	}

	query := options.Find()
	if opts != nil && opts.Limit != 0 {
		query.SetLimit(opts.Limit)
	}

	cur, err := c.coll.Find(ctx, filter, query)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.namespace(), err)
	}
	return cur, nil
}

func (c *Collection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}

	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", c.namespace(), err)
	}
	return n, nil
}

func (c *Collection) namespace() string {
	return c.coll.Database().Name() + "." + c.coll.Name()
}
