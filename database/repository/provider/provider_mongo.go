package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the providers collection.
const CollectionName = "providers"

// DefaultNearbyLimit caps one FindNearby result.
const DefaultNearbyLimit = 500

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll        *mongo.Collection
	nearbyLimit int
}

// NewMongoProviderRepo creates a ProviderRepository backed by db.
func NewMongoProviderRepo(db *mongo.Database) *MongoProviderRepo {
	return &MongoProviderRepo{coll: db.Collection(CollectionName), nearbyLimit: DefaultNearbyLimit}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]models.Provider, error) {
	defer cursor.Close(ctx)
	var providers []models.Provider
	for cursor.Next(ctx) {
		var p models.Provider
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return providers, nil
}

func notFound(id string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("provider %s: %w", id, ErrProviderNotFound)
	}
	return fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
}
