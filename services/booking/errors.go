package booking

import (
	"errors"
	"fmt"

	bookingRepo "marketplace/database/repository/booking"
	catalogRepo "marketplace/database/repository/catalog"
	providerRepo "marketplace/database/repository/provider"
)

var (
	ErrServiceNotFound  = catalogRepo.ErrServiceNotFound
	ErrProviderNotFound = providerRepo.ErrProviderNotFound
	ErrBookingNotFound  = bookingRepo.ErrBookingNotFound
	// ErrPaymentAlreadyUsed: the payment intent already confirmed another booking.
	ErrPaymentAlreadyUsed = bookingRepo.ErrPaymentAlreadyUsed

	ErrMissingScheduleFields   = errors.New("scheduled date and time are required")
	ErrSlotConflict            = errors.New("slot conflict")
	ErrSlotInPast              = errors.New("requested slot has already started")
	ErrOutsideAvailability     = errors.New("provider is not available at the requested time")
	ErrInvalidAvailability     = errors.New("invalid availability")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrProviderInactive        = errors.New("provider is not accepting bookings")
	ErrNotBookingParty         = errors.New("caller is neither the customer nor the provider of this booking")
	// ErrPaymentMismatch: the payment was opened for a different reservation.
	ErrPaymentMismatch = errors.New("payment does not match the reservation")
)

// SlotConflictMessage is shown to the customer when a reservation loses the
// slot. Payment may already be authorized, and checkout refunds it.
const SlotConflictMessage = "The selected time slot is no longer available. Any payment made for this booking will be refunded."

// SlotConflictError reports the booking a reservation collided with.
type SlotConflictError struct {
	ProviderID        string
	Date              string
	Time              string
	ConflictBookingID string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict for provider %s on %s at %s", e.ProviderID, e.Date, e.Time)
}

// Message is the user-facing text.
func (e *SlotConflictError) Message() string {
	return SlotConflictMessage
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

func newSlotConflict(providerID, date, clock, conflictID string) error {
	return &SlotConflictError{
		ProviderID:        providerID,
		Date:              date,
		Time:              clock,
		ConflictBookingID: conflictID,
	}
}
