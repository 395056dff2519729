package testutil

import (
	"os"
	"testing"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     os.Getenv("TEST_MONGO_URI"),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
	}
}

// Setup connects to the test database and drops it; the test is skipped
// when TEST_MONGO_URI is not set.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	if e.MongoURI == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)
	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
