package bookingRepo

import (
	"context"
	"errors"

	"marketplace/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStatusChanged means a conditional status update lost a race.
	ErrStatusChanged = errors.New("booking status changed concurrently")
	// ErrPaymentAlreadyUsed means another booking already holds the payment.
	ErrPaymentAlreadyUsed = errors.New("payment is already attached to a booking")
)

// ReserveCheck inspects every booking already stored for the provider and
// date inside the reservation transaction. A non-nil error aborts it.
type ReserveCheck func(existing []models.Booking) error

// BookingRepository defines booking data access needed by scheduling.
type BookingRepository interface {
	// GetByID retrieves a booking by its ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetByPaymentIntent returns the booking holding a payment intent, or
	// ErrBookingNotFound.
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	// ListForProviders returns the bookings of providerIDs scheduled between
	// from and to (inclusive YYYY-MM-DD) whose status is one of statuses.
	ListForProviders(ctx context.Context, providerIDs []string, from, to string, statuses []models.BookingStatus) ([]models.Booking, error)
	// Reserve runs check against the provider's bookings for booking.ScheduledDate
	// and the day before it, then inserts booking, atomically. A second booking
	// for the same payment intent fails with ErrPaymentAlreadyUsed.
	Reserve(ctx context.Context, booking *models.Booking, check ReserveCheck) error
	// UpdateStatus moves a booking from one status to another, failing with
	// ErrStatusChanged if it is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error
	// EnsureIndexes creates the indexes the queries above rely on.
	EnsureIndexes(ctx context.Context) error
}
