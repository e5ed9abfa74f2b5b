// Package mongodb provides MongoDB client implementation.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
)

// DefaultAppName is reported to the server in the client handshake.
const DefaultAppName = "mongo-viewer"

// ConnectorConfig holds the options applied to every connection.
// A zero timeout leaves the driver default in force.
type ConnectorConfig struct {
	AppName        string
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

// Connector implements docdb.Connector for MongoDB.
type Connector struct {
	config ConnectorConfig
}

// NewConnector creates a new MongoDB connector.
func NewConnector(config *ConnectorConfig) *Connector {
	cfg := ConnectorConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	return &Connector{config: cfg}
}

// Connect opens a client for the descriptor and probes it with listDatabases.
func (c *Connector) Connect(ctx context.Context, uri string) (docdb.Client, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}

	clientOpts := options.Client().ApplyURI(uri).SetAppName(c.config.AppName)
	if c.config.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(c.config.ConnectTimeout)
		clientOpts.SetServerSelectionTimeout(c.config.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	probeCtx := ctx
	if c.config.PingTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, c.config.PingTimeout)
		defer cancel()
	}

	// Verify connection the way an operator would: list the catalog.
	if _, err := client.ListDatabases(probeCtx, bson.D{}, options.ListDatabases().SetNameOnly(true)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return NewClient(client), nil
}

// Client implements the docdb.Client interface for MongoDB.
type Client struct {
	client *mongo.Client
}

// NewClient wraps a connected driver client.
func NewClient(client *mongo.Client) *Client {
	return &Client{client: client}
}

// ListDatabases lists every database with its size and emptiness flag.
func (c *Client) ListDatabases(ctx context.Context) ([]docdb.DatabaseSummary, error) {
	result, err := c.client.ListDatabases(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	databases := make([]docdb.DatabaseSummary, 0, len(result.Databases))
	for _, spec := range result.Databases {
		databases = append(databases, docdb.DatabaseSummary{
			Name:       spec.Name,
			SizeOnDisk: spec.SizeOnDisk,
			Empty:      spec.Empty,
		})
	}
	return databases, nil
}

// Database returns the database interface.
func (c *Client) Database(name string) docdb.Database {
	return &Database{db: c.client.Database(name)}
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// Driver returns the underlying driver client (for testing purposes).
func (c *Client) Driver() *mongo.Client {
	return c.client
}
