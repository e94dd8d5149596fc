package booking

import (
	"context"
	"fmt"
	"time"

	"marketplace/models"

	"go.uber.org/zap"
)

// BookingForPayment looks up the booking holding a payment intent.
func (se *DefaultSchedulingEngine) BookingForPayment(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	return se.Bookings.GetByPaymentIntent(ctx, paymentIntentID)
}

// UpdateBookingStatus applies a lifecycle transition on behalf of one of the
// booking's parties. Moving to a terminal status frees the slot.
func (se *DefaultSchedulingEngine) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus, actor models.Actor) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, status)
	}
	b, err := se.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsPartyTo(*b) {
		se.logger().Warn("status change refused for non-party caller",
			zap.String("bookingID", bookingID),
			zap.String("userID", actor.UserID),
			zap.String("providerID", actor.ProviderID))
		return nil, ErrNotBookingParty
	}
	if !b.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, b.Status, status)
	}
	if err := se.Bookings.UpdateStatus(ctx, bookingID, b.Status, status); err != nil {
		return nil, err
	}

	se.logger().Info("booking status updated",
		zap.String("bookingID", bookingID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(status)))

	if b.Status.Blocking() != status.Blocking() {
		se.invalidateSlots(ctx, b.ProviderID)
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return b, nil
}
