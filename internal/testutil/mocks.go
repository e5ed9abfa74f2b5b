package testutil

import (
	"context"
	"fmt"
	"reflect"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
)

// MockConnector is a mock implementation of docdb.Connector.
type MockConnector struct {
	mock.Mock
}

// Connect opens a client.
func (m *MockConnector) Connect(ctx context.Context, uri string) (docdb.Client, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(docdb.Client), args.Error(1)
}

// MockClient is a mock implementation of docdb.Client.
type MockClient struct {
	mock.Mock
}

// ListDatabases lists databases.
func (m *MockClient) ListDatabases(ctx context.Context) ([]docdb.DatabaseSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docdb.DatabaseSummary), args.Error(1)
}

// Database returns a database.
func (m *MockClient) Database(name string) docdb.Database {
	args := m.Called(name)
	return args.Get(0).(docdb.Database)
}

// Ping checks the database connection.
func (m *MockClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the database connection.
func (m *MockClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDatabase is a mock implementation of docdb.Database.
type MockDatabase struct {
	mock.Mock
}

// Name returns the database name.
func (m *MockDatabase) Name() string {
	args := m.Called()
	return args.String(0)
}

// Collection returns a collection from the database.
func (m *MockDatabase) Collection(name string) docdb.Collection {
	args := m.Called(name)
	return args.Get(0).(docdb.Collection)
}

// ListCollections lists collections.
func (m *MockDatabase) ListCollections(ctx context.Context) ([]docdb.CollectionSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docdb.CollectionSummary), args.Error(1)
}

// MockCollection is a mock implementation of docdb.Collection.
type MockCollection struct {
	mock.Mock
}

// Name returns the collection name.
func (m *MockCollection) Name() string {
	args := m.Called()
	return args.String(0)
}

// Find finds multiple documents.
func (m *MockCollection) Find(ctx context.Context, filter interface{}, opts *docdb.FindOptions) (docdb.Cursor, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(docdb.Cursor), args.Error(1)
}

// CountDocuments counts documents matching the filter.
func (m *MockCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Stats returns storage statistics.
func (m *MockCollection) Stats(ctx context.Context) (*docdb.StorageStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docdb.StorageStats), args.Error(1)
}

// SliceCursor is a docdb.Cursor over in-memory documents.
type SliceCursor struct {
	Docs   []bson.D
	Closed bool
	Error  error
}

// NewSliceCursor creates a cursor over docs.
func NewSliceCursor(docs ...bson.D) *SliceCursor {
	return &SliceCursor{Docs: docs}
}

// All decodes every document into a pointer to a slice and closes the cursor.
func (c *SliceCursor) All(ctx context.Context, results interface{}) error {
	if c.Error != nil {
		return c.Error
	}
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("results must be a pointer to a slice")
	}

	slice := rv.Elem()
	for _, doc := range c.Docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		elem := reflect.New(slice.Type().Elem())
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	rv.Elem().Set(slice)
	return c.Close(ctx)
}

// Close marks the cursor closed.
func (c *SliceCursor) Close(ctx context.Context) error {
	c.Closed = true
	return nil
}

// BlockingClient is a docdb.Client whose ListDatabases waits for Release.
// It records whether Close ran while a call was still in flight.
type BlockingClient struct {
	MockClient
	Entered chan struct{}
	Release chan struct{}

	inFlight         chan struct{}
	ClosedDuringCall bool
	closed           bool
}

// NewBlockingClient creates a blocking client.
func NewBlockingClient() *BlockingClient {
	return &BlockingClient{
		Entered:  make(chan struct{}),
		Release:  make(chan struct{}),
		inFlight: make(chan struct{}, 1),
	}
}

// ListDatabases blocks until Release is closed.
func (c *BlockingClient) ListDatabases(ctx context.Context) ([]docdb.DatabaseSummary, error) {
	c.inFlight <- struct{}{}
	close(c.Entered)
	<-c.Release
	<-c.inFlight
	return []docdb.DatabaseSummary{{Name: "admin"}}, nil
}

// Close records whether a call was in flight.
func (c *BlockingClient) Close(ctx context.Context) error {
	c.ClosedDuringCall = len(c.inFlight) > 0
	c.closed = true
	return nil
}

// CloseCalled reports whether Close ran.
func (c *BlockingClient) CloseCalled() bool {
	return c.closed
}
