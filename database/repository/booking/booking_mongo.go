package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "bookings"
	// LockCollectionName holds one guard document per provider and date.
	LockCollectionName = "booking_locks"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by db.
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{
		coll:  db.Collection(CollectionName),
		locks: db.Collection(LockCollectionName),
	}
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %s: %w", id, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByPaymentIntent finds the booking a payment confirmed.
func (r *MongoBookingRepo) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"paymentIntentId": paymentIntentID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("payment %s: %w", paymentIntentID, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to fetch booking for payment %s: %w", paymentIntentID, err)
	}
	return &booking, nil
}

// UpdateStatus performs a conditional status transition.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s status: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrStatusChanged)
	}
	return nil
}
