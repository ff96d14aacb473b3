package archive

import (
	"context"
	"fmt"
	"time"

	"ledgerpay/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(client *mongo.Client, cfg config.MongoConfig) *MongoStore {
	return &MongoStore{collection: client.Database(cfg.Database).Collection(cfg.Collection)}
}

// Save inserts doc. A document that is already archived is not an error.
func (s *MongoStore) Save(ctx context.Context, doc Document) error {
	doc.ArchivedAt = time.Now().UTC()
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert archive document: %w", err)
	}
	return nil
}
