package mongodb

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
)

// codeCommandNotFound is the server error code for an unknown command.
const codeCommandNotFound = 59

// Stats runs collStats for the collection.
// Servers that no longer ship the command are asked through the $collStats stage.
func (c *Collection) Stats(ctx context.Context) (*docdb.StorageStats, error) {
	var raw bson.M
	cmd := bson.D{{Key: "collStats", Value: c.coll.Name()}}
	err := c.coll.Database().RunCommand(ctx, cmd).Decode(&raw)
	if err == nil {
		return StorageStatsFromDocument(raw), nil
	}
	if !isCommandNotFound(err) {
		return nil, fmt.Errorf("failed to get collection stats: %w", err)
	}

	return c.aggregateStats(ctx)
}

func (c *Collection) aggregateStats(ctx context.Context) (*docdb.StorageStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$collStats", Value: bson.D{{Key: "storageStats", Value: bson.D{}}}}},
	}

	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collection stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode collection stats: %w", err)
	}
	if len(results) == 0 {
		return &docdb.StorageStats{}, nil
	}

	return StorageStatsFromDocument(asMap(results[0]["storageStats"])), nil
}

// StorageStatsFromDocument maps a collStats reply onto StorageStats.
// Missing fields read as zero; any BSON numeric type is accepted.
func StorageStatsFromDocument(doc map[string]interface{}) *docdb.StorageStats {
	if doc == nil {
		return &docdb.StorageStats{}
	}
	return &docdb.StorageStats{
		Count:          toInt64(doc["count"]),
		AvgObjSize:     toFloat64(doc["avgObjSize"]),
		Size:           toInt64(doc["size"]),
		StorageSize:    toInt64(doc["storageSize"]),
		IndexCount:     toInt64(doc["nindexes"]),
		TotalIndexSize: toInt64(doc["totalIndexSize"]),
	}
}

func isCommandNotFound(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeCommandNotFound
	}
	return false
}

func asMap(v interface{}) map[string]interface{} {
	switch doc := v.(type) {
	case bson.M:
		return doc
	case map[string]interface{}:
		return doc
	case bson.D:
		m := make(map[string]interface{}, len(doc))
		for _, e := range doc {
			m[e.Key] = e.Value
		}
		return m
	}
	return nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(math.Round(n))
	case primitive.Decimal128:
		f, err := decimalToFloat(n)
		if err != nil {
			return 0
		}
		return int64(math.Round(f))
	}
	return 0
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	case primitive.Decimal128:
		f, err := decimalToFloat(n)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func decimalToFloat(d primitive.Decimal128) (float64, error) {
	var f float64
	if _, err := fmt.Sscan(d.String(), &f); err != nil {
		return 0, err
	}
	return f, nil
}
