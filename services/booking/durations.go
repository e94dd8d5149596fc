package booking

import (
	"context"
	"fmt"
	"strings"

	"marketplace/models"
	"marketplace/services/scheduling"

	"go.uber.org/zap"
)

// serviceDuration resolves the requested service's length. An empty id
// means the caller did not pick a service, so the default length applies.
func (se *DefaultSchedulingEngine) serviceDuration(ctx context.Context, serviceID string) (int, *models.Service, error) {
	if strings.TrimSpace(serviceID) == "" {
		return scheduling.DefaultDurationMinutes, nil, nil
	}
	svc, err := se.Catalog.GetByID(ctx, serviceID)
	if err != nil {
		return 0, nil, fmt.Errorf("resolve service %s: %w", serviceID, err)
	}
	return scheduling.DurationToMinutes(svc.Duration), svc, nil
}

// bookingDurations returns the duration rule for existing bookings: the
// persisted duration, else the booking's own service duration, else fallback.
// Service lookups are memoized for the lifetime of the returned func.
func (se *DefaultSchedulingEngine) bookingDurations(ctx context.Context, fallback int) scheduling.DurationFunc {
	memo := map[string]int{}
	return func(b models.Booking) int {
		if b.Duration > 0 {
			return b.Duration
		}
		if b.ServiceID == "" {
			return fallback
		}
		if d, ok := memo[b.ServiceID]; ok {
			return d
		}
		d := fallback
		svc, err := se.Catalog.GetByID(ctx, b.ServiceID)
		if err != nil {
			se.logger().Warn("could not resolve duration of existing booking, using requested duration",
				zap.String("bookingID", b.ID),
				zap.String("serviceID", b.ServiceID),
				zap.Error(err))
		} else {
			d = scheduling.DurationToMinutes(svc.Duration)
		}
		memo[b.ServiceID] = d
		return d
	}
}
