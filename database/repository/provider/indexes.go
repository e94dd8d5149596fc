package providerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for the fields used by scheduling queries.
func (r *MongoProviderRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "profile.status", Value: 1}}},
		{Keys: bson.D{{Key: "subCategoryIds", Value: 1}}},
		// Compound geo + status for FindNearby.
		{Keys: bson.D{
			{Key: "profile.locationGeo", Value: "2dsphere"},
			{Key: "profile.status", Value: 1},
		}},
		// Stale purge.
		{Keys: bson.D{{Key: "availability.dateOverrides.date", Value: 1}}},
		{Keys: bson.D{{Key: "availability.leavePeriods.to", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
