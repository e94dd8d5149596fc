package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// LockKey is the guard document id for a provider's day.
func LockKey(providerID, date string) string {
	return providerID + ":" + date
}

// reserveDates lists the scheduled dates whose bookings can overlap a
// booking on date. A booking from the day before may run past midnight.
func reserveDates(date string) []string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return []string{date}
	}
	return []string{d.AddDate(0, 0, -1).Format("2006-01-02"), date}
}

// Reserve is the check-then-insert write path.
//
// Every reservation for a provider and date first bumps the same guard
// document inside the transaction. Two overlapping transactions therefore
// write the same document and one of them gets a WriteConflict; the driver
// retries it, and on retry its snapshot includes the booking the winner
// committed, so check rejects it.
//
// Only the booking's own day is guarded. The day before is read as well,
// but a booking is accepted only inside an availability window, which ends
// by midnight, so a concurrent insert there cannot reach into this day.
func (r *MongoBookingRepo) Reserve(ctx context.Context, booking *models.Booking, check ReserveCheck) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		guard := bson.M{"_id": LockKey(booking.ProviderID, booking.ScheduledDate)}
		bump := bson.M{
			"$inc": bson.M{"version": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		}
		if _, err := r.locks.UpdateOne(sc, guard, bump, options.Update().SetUpsert(true)); err != nil {
			return nil, fmt.Errorf("acquire booking guard: %w", err)
		}

		cursor, err := r.coll.Find(sc, bson.M{
			"providerId":    booking.ProviderID,
			"scheduledDate": bson.M{"$in": reserveDates(booking.ScheduledDate)},
		})
		if err != nil {
			return nil, fmt.Errorf("load same-day bookings: %w", err)
		}
		var existing []models.Booking
		if err := cursor.All(sc, &existing); err != nil {
			return nil, fmt.Errorf("decode same-day bookings: %w", err)
		}

		if err := check(existing); err != nil {
			return nil, err
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			if booking.PaymentIntentID != "" && mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("payment %s: %w", booking.PaymentIntentID, ErrPaymentAlreadyUsed)
			}
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	}, txnOpts)
	return err
}
