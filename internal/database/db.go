package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds database configuration
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		URI:            "mongodb://localhost:27017",
		Database:       "sinfiltro_db",
		ConnectTimeout: 5 * time.Second,
	}
}

// DB wraps the MongoDB client and the application database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	config Config
}

// New connects to MongoDB and verifies the connection with a ping.
func New(config Config) (*DB, error) {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{
		client: client,
		db:     client.Database(config.Database),
		config: config,
	}, nil
}

// Collection returns a handle to a named collection in the app database.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// Drop removes the entire app database. Test helper.
func (db *DB) Drop(ctx context.Context) error {
	return db.db.Drop(ctx)
}

// Close disconnects the underlying client.
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
