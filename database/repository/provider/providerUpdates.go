package providerRepo

import (
	"context"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UpdateAvailability sets the whole availability sub-document.
func (r *MongoProviderRepo) UpdateAvailability(ctx context.Context, id string, availability models.Availability) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"availability": availability,
		"updatedAt":    time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability for provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider %s: %w", id, ErrProviderNotFound)
	}
	return nil
}

// PurgeStaleAvailability pulls every date override dated before cutoff and
// every leave period that ended before cutoff, across all providers.
// Dates are fixed-width YYYY-MM-DD, so string comparison orders them.
func (r *MongoProviderRepo) PurgeStaleAvailability(ctx context.Context, cutoff string) (int64, error) {
	ctx, cancel := withTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"availability.dateOverrides.date": bson.M{"$lt": cutoff}},
		bson.M{"availability.leavePeriods.to": bson.M{"$lt": cutoff}},
	}}
	update := bson.M{"$pull": bson.M{
		"availability.dateOverrides": bson.M{"date": bson.M{"$lt": cutoff}},
		"availability.leavePeriods":  bson.M{"to": bson.M{"$lt": cutoff}},
	}}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale availability: %w", err)
	}
	return result.ModifiedCount, nil
}
