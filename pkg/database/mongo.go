// Package database opens the MongoDB connection and owns the indexes the
// service relies on.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the app.
const (
	UsersCollection   = "users"
	PotionsCollection = "potions"
	LogsCollection    = "logs"
)

// Mongo bundles the connected client and the application database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens the Mongo client, configures the pool and verifies the
// connection with a ping. Returns an error instead of log.Fatal so the
// caller can shut down gracefully.
func Connect(ctx context.Context, uri, db string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetTimeout(10 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Mongo{Client: client, DB: client.Database(db)}, nil
}

// EnsureIndexes creates the unique username index and the catalog query
// indexes. Safe to call repeatedly.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	users := m.DB.Collection(UsersCollection)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("database: users.name index: %w", err)
	}

	potions := m.DB.Collection(PotionsCollection)
	_, err = potions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("database: potions indexes: %w", err)
	}

	return nil
}

// Close disconnects the client with a short deadline.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}
