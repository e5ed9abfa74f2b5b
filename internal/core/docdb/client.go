// Package docdb defines the document database client interface.
package docdb

import (
	"context"
)

// Connector opens database clients from a connection descriptor.
type Connector interface {
	// Connect opens a client and verifies the server is reachable.
	Connect(ctx context.Context, uri string) (Client, error)
}

// Client defines the interface for a document database client.
type Client interface {
	// ListDatabases returns the catalog of databases on the server.
	ListDatabases(ctx context.Context) ([]DatabaseSummary, error)

	// Database returns a database handle by name.
	Database(name string) Database

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error
}
