package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for booking lookups.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{
			{Key: "providerId", Value: 1},
			{Key: "scheduledDate", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
		// One booking per payment. Unpaid bookings omit the field.
		{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
