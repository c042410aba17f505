package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
)

type MongoConfig struct {
	URI string
}

// MongoDB implements the db.Database interface for MongoDB
type MongoDB struct {
	uri    string
	client *mongo.Client
}

var _ Database = (*MongoDB)(nil)

// NewMongoDB creates a new MongoDB instance from a connection URI
func NewMongoDB(cfg *MongoConfig) *MongoDB {
	return &MongoDB{
		uri: cfg.URI,
	}
}

// Connect establishes the client connection and verifies it with a ping
// against the primary.
func (m *MongoDB) Connect(ctx context.Context) error {
	if m.client != nil {
		return fmt.Errorf("database already connected")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	writeOptions := writeconcern.New(
		writeconcern.W(1),
		writeconcern.J(true),
	)
	opts := options.Client().SetWriteConcern(writeOptions).ApplyURI(m.uri)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m.client = client
	return nil
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}

	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}

// Ping checks that the primary is still reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("database not connected")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return m.client.Ping(pingCtx, readpref.Primary())
}

// Client returns the underlying *mongo.Client instance
func (m *MongoDB) Client() *mongo.Client {
	return m.client
}

// Collection returns the named collection, creating it lazily on first write
func (m *MongoDB) Collection(database, name string) *mongo.Collection {
	return m.client.Database(database).Collection(name)
}
