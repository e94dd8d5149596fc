package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListForProviders fetches the bookings overlapping a date range in one query.
// Dates are fixed-width strings, so $gte/$lte order them correctly.
func (r *MongoBookingRepo) ListForProviders(
	ctx context.Context,
	providerIDs []string,
	from, to string,
	statuses []models.BookingStatus,
) ([]models.Booking, error) {
	if len(providerIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId":    bson.M{"$in": providerIDs},
		"scheduledDate": bson.M{"$gte": from, "$lte": to},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "providerId", Value: 1},
		{Key: "scheduledDate", Value: 1},
	})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
