package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabaseName = "crm_integration"
	ConnectionTimeout   = 10 * time.Second
)

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper creates a new MongoDB test helper
func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

// Close closes MongoDB connection
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanDatabase drops the whole test database
func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Database.Drop(ctx); err != nil {
		t.Fatalf("failed to drop database %s: %v", m.DBName, err)
	}
}

// Insert seeds a collection with documents
func (m *MongoHelper) Insert(t *testing.T, collectionName string, docs ...any) {
	t.Helper()
	if len(docs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := m.Database.Collection(collectionName).InsertMany(ctx, docs); err != nil {
		t.Fatalf("failed to seed %s: %v", collectionName, err)
	}
}

// FindAll decodes every document of a collection into out, ordered by _id
func (m *MongoHelper) FindAll(t *testing.T, collectionName string, out any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Database.Collection(collectionName).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		t.Fatalf("failed to query %s: %v", collectionName, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		t.Fatalf("failed to decode %s: %v", collectionName, err)
	}
}

// GetCollection returns a collection for direct access
func (m *MongoHelper) GetCollection(collectionName string) *mongo.Collection {
	return m.Database.Collection(collectionName)
}
