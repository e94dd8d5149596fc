package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/models"
	"marketplace/services/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReserveBooking validates the requested slot and creates the booking inside
// one transaction, so two overlapping requests for a provider cannot both
// succeed. The booking's duration is frozen from the service at this point.
func (se *DefaultSchedulingEngine) ReserveBooking(ctx context.Context, req models.ReservationRequest) (*models.Booking, error) {
	logger := se.logger()
	loc := se.loc()

	if strings.TrimSpace(req.ScheduledDate) == "" || strings.TrimSpace(req.ScheduledTime) == "" {
		return nil, ErrMissingScheduleFields
	}

	duration, _, err := se.serviceDuration(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	provider, err := se.Providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider.Profile.Status != models.ProviderStatusActive {
		return nil, fmt.Errorf("provider %s is %s: %w", provider.ID, provider.Profile.Status, ErrProviderInactive)
	}

	slot, err := scheduling.SlotBounds(req.ScheduledDate, req.ScheduledTime, duration, loc)
	if err != nil {
		return nil, err
	}
	if slot.Start.Before(se.now()) {
		return nil, ErrSlotInPast
	}

	avail, err := scheduling.EvaluateDate(provider.Availability, slot.Start)
	if err != nil {
		return nil, fmt.Errorf("provider %s availability: %w", provider.ID, err)
	}
	if !scheduling.WithinOpen(slot, avail.Open) {
		return nil, ErrOutsideAvailability
	}
	if !scheduling.IsSlotFree(slot, scheduling.BusyIntervals(slot.Start, avail.Busy)) {
		return nil, newSlotConflict(provider.ID, req.ScheduledDate, req.ScheduledTime, "")
	}

	now := time.Now()
	booking := &models.Booking{
		ID:              uuid.New().String(),
		ProviderID:      provider.ID,
		ServiceID:       req.ServiceID,
		CustomerID:      req.Customer.ID,
		CustomerName:    req.Customer.Name,
		CustomerPhone:   req.Customer.Phone,
		AddressID:       req.AddressID,
		Instructions:    req.Instructions,
		ScheduledDate:   req.ScheduledDate,
		ScheduledTime:   req.ScheduledTime,
		Duration:        duration,
		Status:          models.BookingPending,
		PaymentIntentID: req.PaymentIntentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.PaymentIntentID != "" {
		booking.Status = models.BookingConfirmed
	}

	durations := se.bookingDurations(ctx, duration)
	check := func(existing []models.Booking) error {
		for _, b := range existing {
			if !b.Status.Blocking() {
				continue
			}
			iv, err := scheduling.SlotBounds(b.ScheduledDate, b.ScheduledTime, durations(b), loc)
			if err != nil {
				logger.Warn("ignoring existing booking with unparseable schedule",
					zap.String("bookingID", b.ID), zap.Error(err))
				continue
			}
			if slot.Overlaps(iv) {
				return newSlotConflict(provider.ID, req.ScheduledDate, req.ScheduledTime, b.ID)
			}
		}
		return nil
	}

	if err := se.Bookings.Reserve(ctx, booking, check); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			logger.Info("reservation rejected, slot taken",
				zap.String("providerID", provider.ID),
				zap.String("date", req.ScheduledDate),
				zap.String("time", req.ScheduledTime))
			return nil, err
		}
		return nil, fmt.Errorf("failed to reserve booking: %w", err)
	}

	logger.Info("booking reserved",
		zap.String("bookingID", booking.ID),
		zap.String("providerID", provider.ID),
		zap.String("date", booking.ScheduledDate),
		zap.String("time", booking.ScheduledTime),
		zap.Int("duration", booking.Duration))

	se.invalidateSlots(ctx, provider.ID)
	if se.Notifier != nil {
		if err := se.Notifier.NotifyBookingCreated(ctx, *provider, *booking); err != nil {
			logger.Warn("booking notification failed", zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	return booking, nil
}
