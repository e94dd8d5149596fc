package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	providerRepo "marketplace/database/repository/provider"
	"marketplace/models"
	"marketplace/services/scheduling"

	"go.uber.org/zap"
)

// ListAvailableSlots narrows providers by location and criteria, then
// computes each provider's free slots across the requested date range.
// Providers without any free slot are omitted; the rest are nearest first.
func (se *DefaultSchedulingEngine) ListAvailableSlots(ctx context.Context, search models.SlotSearch) ([]models.ProviderSlots, error) {
	logger := se.logger()
	loc := se.loc()

	days, err := scheduling.DateRange(search.DateFrom, search.DateTo, se.MaxRangeDays, loc)
	if err != nil {
		return nil, err
	}
	duration, _, err := se.serviceDuration(ctx, search.ServiceID)
	if err != nil {
		return nil, err
	}

	providers, err := se.Providers.FindNearby(ctx, providerRepo.SearchCriteria{
		ProviderIDs:   search.ProviderIDs,
		SubCategoryID: search.SubCategoryID,
		Lat:           search.Lat,
		Lng:           search.Lng,
		RadiusKm:      search.RadiusKm,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find providers: %w", err)
	}
	// Same haversine the store used, to get distances and drop any
	// provider the native query let through on rounding.
	candidates := scheduling.FilterByRadius(providers, search.Lat, search.Lng, search.RadiusKm)
	if len(candidates) == 0 {
		return []models.ProviderSlots{}, nil
	}

	now := se.now()
	results := make([]models.ProviderSlots, 0, len(candidates))
	var uncached []scheduling.ProviderDistance
	cached := map[string][]models.AvailableSlot{}
	for _, c := range candidates {
		if slots, ok := se.cachedSlots(ctx, c.Provider.ID, search, duration, now); ok {
			cached[c.Provider.ID] = slots
			continue
		}
		uncached = append(uncached, c)
	}

	byProvider := map[string][]models.Booking{}
	if len(uncached) > 0 {
		ids := make([]string, 0, len(uncached))
		for _, c := range uncached {
			ids = append(ids, c.Provider.ID)
		}
		bookings, err := se.Bookings.ListForProviders(ctx, ids, dayBefore(days[0]), search.DateTo, models.BlockingStatuses())
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		for _, b := range bookings {
			byProvider[b.ProviderID] = append(byProvider[b.ProviderID], b)
		}
	}

	durations := se.bookingDurations(ctx, duration)
	for _, c := range candidates {
		slots, ok := cached[c.Provider.ID]
		if !ok {
			booked := scheduling.BookingIntervals(byProvider[c.Provider.ID], durations, loc)
			slots = providerSlots(c.Provider, days, duration, booked, now, logger)
			se.storeSlots(ctx, c.Provider.ID, search, duration, slots)
		}
		if len(slots) == 0 {
			continue
		}
		results = append(results, models.ProviderSlots{
			ProviderID:     c.Provider.ID,
			ProviderName:   c.Provider.Profile.ProviderName,
			DistanceKm:     c.DistanceKm,
			AvailableSlots: slots,
		})
	}
	return results, nil
}

// dayBefore is where a booking query starts: a booking from the previous
// day may run past midnight.
func dayBefore(day time.Time) string {
	return day.AddDate(0, 0, -1).Format(scheduling.DateLayout)
}

func providerSlots(
	p models.Provider,
	days []time.Time,
	duration int,
	booked []scheduling.Interval,
	now time.Time,
	logger *zap.Logger,
) []models.AvailableSlot {
	var out []models.AvailableSlot
	for _, day := range days {
		avail, err := scheduling.EvaluateDate(p.Availability, day)
		if err != nil {
			logger.Warn("skipping day with malformed availability",
				zap.String("providerID", p.ID),
				zap.String("date", day.Format(scheduling.DateLayout)),
				zap.Error(err))
			continue
		}
		for _, s := range scheduling.FreeSlotsForDay(day, avail, duration, booked, now) {
			out = append(out, models.AvailableSlot{Start: s.Start, End: s.End})
		}
	}
	return out
}

// CheckSlotForProviders returns, in request order, the providers that are
// open and unbooked for the whole requested slot.
func (se *DefaultSchedulingEngine) CheckSlotForProviders(ctx context.Context, check models.SlotCheck) ([]string, error) {
	if strings.TrimSpace(check.Date) == "" || strings.TrimSpace(check.Time) == "" {
		return nil, ErrMissingScheduleFields
	}
	loc := se.loc()

	duration, _, err := se.serviceDuration(ctx, check.ServiceID)
	if err != nil {
		return nil, err
	}
	slot, err := scheduling.SlotBounds(check.Date, check.Time, duration, loc)
	if err != nil {
		return nil, err
	}
	if len(check.ProviderIDs) == 0 || slot.Start.Before(se.now()) {
		return []string{}, nil
	}

	providers, err := se.Providers.GetByIDs(ctx, check.ProviderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	byID := make(map[string]models.Provider, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}

	bookings, err := se.Bookings.ListForProviders(ctx, check.ProviderIDs, dayBefore(slot.Start), check.Date, models.BlockingStatuses())
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	byProvider := map[string][]models.Booking{}
	for _, b := range bookings {
		byProvider[b.ProviderID] = append(byProvider[b.ProviderID], b)
	}

	durations := se.bookingDurations(ctx, duration)
	available := []string{}
	seen := map[string]bool{}
	for _, id := range check.ProviderIDs {
		p, ok := byID[id]
		if !ok || seen[id] || p.Profile.Status != models.ProviderStatusActive {
			continue
		}
		seen[id] = true
		avail, err := scheduling.EvaluateDate(p.Availability, slot.Start)
		if err != nil {
			se.logger().Warn("skipping provider with malformed availability", zap.String("providerID", id), zap.Error(err))
			continue
		}
		if !scheduling.WithinOpen(slot, avail.Open) {
			continue
		}
		booked := scheduling.BookingIntervals(byProvider[id], durations, loc)
		busy := scheduling.BusyIntervals(slot.Start, avail.Busy)
		if scheduling.IsSlotFree(slot, booked, busy) {
			available = append(available, id)
		}
	}
	return available, nil
}
