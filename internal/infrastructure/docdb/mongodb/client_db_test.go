//go:build database

package mongodb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
	"github.com/unifiedui/mongo-viewer/internal/infrastructure/docdb/mongodb"
)

const (
	testDatabase   = "mongo-viewer-test"
	testCollection = "items"
)

// ClientTestSuite runs against a live server named by MONGODB_TEST_URI.
type ClientTestSuite struct {
	suite.Suite
	ctx    context.Context
	client docdb.Client
}

func TestClientSuite(t *testing.T) {
	if os.Getenv("MONGODB_TEST_URI") == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupSuite() {
	s.ctx = context.Background()

	connector := mongodb.NewConnector(&mongodb.ConnectorConfig{
		ConnectTimeout: 5 * time.Second,
		PingTimeout:    2 * time.Second,
	})

	client, err := connector.Connect(s.ctx, os.Getenv("MONGODB_TEST_URI"))
	s.Require().NoError(err, "connect to mongo")
	s.client = client

	driver := client.(*mongodb.Client).Driver()
	coll := driver.Database(testDatabase).Collection(testCollection)
	s.Require().NoError(coll.Drop(s.ctx))

	docs := make([]interface{}, 0, 10)
	for i := 0; i < 10; i++ {
		docs = append(docs, bson.D{{Key: "n", Value: i}})
	}
	_, err = coll.InsertMany(s.ctx, docs)
	s.Require().NoError(err)
}

func (s *ClientTestSuite) TearDownSuite() {
	driver := s.client.(*mongodb.Client).Driver()
	s.NoError(driver.Database(testDatabase).Drop(s.ctx), "drop test database")
	s.NoError(s.client.Close(s.ctx), "disconnect from mongo")
}

func (s *ClientTestSuite) TestPing() {
	s.NoError(s.client.Ping(s.ctx))
}

func (s *ClientTestSuite) TestListDatabases() {
	databases, err := s.client.ListDatabases(s.ctx)
	s.Require().NoError(err)

	names := make([]string, 0, len(databases))
	for _, db := range databases {
		names = append(names, db.Name)
	}
	s.Contains(names, testDatabase)
}

func (s *ClientTestSuite) TestListCollections() {
	collections, err := s.client.Database(testDatabase).ListCollections(s.ctx)
	s.Require().NoError(err)
	s.Contains(collections, docdb.CollectionSummary{Name: testCollection, Type: "collection"})
}

func (s *ClientTestSuite) TestFindWithLimitAndCount() {
	coll := s.client.Database(testDatabase).Collection(testCollection)

	cursor, err := coll.Find(s.ctx, nil, &docdb.FindOptions{Limit: 3})
	s.Require().NoError(err)

	var docs []bson.D
	s.Require().NoError(cursor.All(s.ctx, &docs))
	s.Len(docs, 3)

	count, err := coll.CountDocuments(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(int64(10), count)
}

func (s *ClientTestSuite) TestStats() {
	stats, err := s.client.Database(testDatabase).Collection(testCollection).Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(10), stats.Count)
	s.GreaterOrEqual(stats.IndexCount, int64(1))
	s.Greater(stats.Size, int64(0))
}

func (s *ClientTestSuite) TestConnect_Unreachable() {
	connector := mongodb.NewConnector(&mongodb.ConnectorConfig{ConnectTimeout: 500 * time.Millisecond})
	_, err := connector.Connect(s.ctx, "mongodb://127.0.0.1:1")
	s.Error(err)
}
