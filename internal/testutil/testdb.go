// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sinfiltro/feedserver/internal/database"
)

// TestDB wraps a MongoDB connection pointed at a throwaway test database.
type TestDB struct {
	*database.DB
	t *testing.T
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// NewTestDB connects to the test MongoDB instance. It skips the test when
// no instance is reachable, so the suite passes without infrastructure.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := database.New(database.Config{
		URI:            getEnvOrDefault("MONGO_TEST_URI", "mongodb://localhost:27017"),
		Database:       getEnvOrDefault("MONGO_TEST_DB", "feedserver_test"),
		ConnectTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Skipf("Skipping test: unable to connect to MongoDB: %v", err)
	}

	return &TestDB{DB: db, t: t}
}

// Cleanup drops the test database.
func (tdb *TestDB) Cleanup(ctx context.Context) {
	tdb.t.Helper()
	if err := tdb.Drop(ctx); err != nil {
		tdb.t.Logf("Warning: failed to drop test database: %v", err)
	}
}

// Close drops test data and disconnects.
func (tdb *TestDB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tdb.Cleanup(ctx)
	if err := tdb.DB.Close(ctx); err != nil {
		tdb.t.Errorf("Failed to close test database: %v", err)
	}
}
