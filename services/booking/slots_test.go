package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/models"
	"marketplace/services/scheduling"
)

func mondaySearch() models.SlotSearch {
	return models.SlotSearch{ServiceID: "svc-60", DateFrom: monday, DateTo: monday}
}

func TestListAvailableSlotsOpenMonday(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ProviderID)
	assert.Equal(t, "Provider p1", got[0].ProviderName)
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16}, slotHours(t, got[0].AvailableSlots))
	for _, s := range got[0].AvailableSlots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
	}
}

func TestListAvailableSlotsSkipsBookedHour(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	env.seedBooking(models.Booking{ID: "b1", ProviderID: "p1", ServiceID: "svc-60",
		ScheduledDate: monday, ScheduledTime: "10:00 AM", Duration: 60})

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{9, 11, 12, 13, 14, 15, 16}, slotHours(t, got[0].AvailableSlots))
}

// earlyProvider opens at midnight on Mondays.
func earlyProvider(id string) models.Provider {
	p := activeProvider(id, 0, 0)
	p.Availability.WeeklySchedule[0].Slots = []models.TimeSlot{{Start: "00:00", End: "04:00"}}
	return p
}

func TestListAvailableSlotsSeesBookingFromDayBefore(t *testing.T) {
	env := newTestEnv(t, earlyProvider("p1"))
	// Sunday 23:00 for two hours runs until Monday 01:00.
	env.seedBooking(models.Booking{ID: "late", ProviderID: "p1", ServiceID: "svc-120",
		ScheduledDate: "2023-12-31", ScheduledTime: "23:00", Duration: 120})

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 2, 3}, slotHours(t, got[0].AvailableSlots))

	free, err := env.engine.CheckSlotForProviders(context.Background(), models.SlotCheck{
		ProviderIDs: []string{"p1"}, ServiceID: "svc-60", Date: monday, Time: "00:00",
	})
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestListAvailableSlotsLeaveHidesProvider(t *testing.T) {
	p := activeProvider("p1", 0, 0)
	p.Availability.LeavePeriods = []models.LeavePeriod{{From: monday, To: monday}}
	env := newTestEnv(t, p)

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListAvailableSlotsOverrideBusyWindow(t *testing.T) {
	p := activeProvider("p1", 0, 0)
	p.Availability.DateOverrides = []models.DateOverride{{
		Date: monday, BusySlots: []models.TimeSlot{{Start: "12:00", End: "13:00"}},
	}}
	env := newTestEnv(t, p)

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{9, 10, 11, 13, 14, 15, 16}, slotHours(t, got[0].AvailableSlots))
}

func TestListAvailableSlotsUsesExistingBookingServiceDuration(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	// No persisted duration: the booking's own two hour service applies.
	env.seedBooking(models.Booking{ID: "b1", ProviderID: "p1", ServiceID: "svc-120",
		ScheduledDate: monday, ScheduledTime: "10:00"})

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{9, 12, 13, 14, 15, 16}, slotHours(t, got[0].AvailableSlots))
}

func TestListAvailableSlotsIgnoresTerminalBookings(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	env.seedBooking(models.Booking{ID: "b1", ProviderID: "p1", ScheduledDate: monday, ScheduledTime: "10:00",
		Duration: 60, Status: models.BookingCancelled})
	env.seedBooking(models.Booking{ID: "b2", ProviderID: "p1", ScheduledDate: monday, ScheduledTime: "11:00",
		Duration: 60, Status: models.BookingCompleted})

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].AvailableSlots, 8)
}

func TestListAvailableSlotsGeoFilterAndOrder(t *testing.T) {
	center := [2]float64{-1.2864, 36.8172}
	env := newTestEnv(t,
		activeProvider("far", -1.2864, 36.95),  // ~14.8 km
		activeProvider("near", -1.2864, 36.84), // ~2.5 km
		activeProvider("out", -1.2864, 37.20),  // ~42 km
	)
	search := mondaySearch()
	search.Lat, search.Lng, search.RadiusKm = center[0], center[1], 20

	got, err := env.engine.ListAvailableSlots(context.Background(), search)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ProviderID)
	assert.Equal(t, "far", got[1].ProviderID)
	assert.Less(t, got[0].DistanceKm, got[1].DistanceKm)
	assert.LessOrEqual(t, got[1].DistanceKm, 20.0)
}

func TestListAvailableSlotsMultiDayRange(t *testing.T) {
	p := activeProvider("p1", 0, 0)
	p.Availability.WeeklySchedule[1].Active = true
	p.Availability.WeeklySchedule[1].Slots = []models.TimeSlot{{Start: "13:00", End: "15:00"}}
	env := newTestEnv(t, p)

	search := models.SlotSearch{ServiceID: "svc-90", DateFrom: monday, DateTo: "2024-01-07"}
	got, err := env.engine.ListAvailableSlots(context.Background(), search)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Monday 09:00-17:00 with a 90 minute service starts hourly from 09:00 to 15:00.
	// Tuesday 13:00-15:00 fits only 13:00.
	var mondays, tuesdays int
	for _, s := range got[0].AvailableSlots {
		assert.Equal(t, 90*time.Minute, s.End.Sub(s.Start))
		switch s.Start.Format(scheduling.DateLayout) {
		case monday:
			mondays++
		case tuesday:
			tuesdays++
			assert.Equal(t, 13, s.Start.Hour())
		default:
			t.Fatalf("unexpected slot on %s", s.Start)
		}
	}
	assert.Equal(t, 7, mondays)
	assert.Equal(t, 1, tuesdays)
}

func TestListAvailableSlotsSuppressesPastSlots(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	env.engine.Now = func() time.Time { return time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC) }

	got, err := env.engine.ListAvailableSlots(context.Background(), mondaySearch())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int{13, 14, 15, 16}, slotHours(t, got[0].AvailableSlots))
}

func TestListAvailableSlotsValidation(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	ctx := context.Background()

	_, err := env.engine.ListAvailableSlots(ctx, models.SlotSearch{DateFrom: monday, DateTo: "2024-03-01"})
	assert.ErrorIs(t, err, scheduling.ErrInvalidDateRange)

	_, err = env.engine.ListAvailableSlots(ctx, models.SlotSearch{DateFrom: tuesday, DateTo: monday})
	assert.ErrorIs(t, err, scheduling.ErrInvalidDateRange)

	_, err = env.engine.ListAvailableSlots(ctx, models.SlotSearch{DateFrom: "Jan 1", DateTo: monday})
	assert.ErrorIs(t, err, scheduling.ErrInvalidDateFormat)

	_, err = env.engine.ListAvailableSlots(ctx, models.SlotSearch{ServiceID: "ghost", DateFrom: monday, DateTo: monday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestListAvailableSlotsUnparseableServiceDurationFallsBack(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	search := mondaySearch()
	search.ServiceID = "svc-odd"

	got, err := env.engine.ListAvailableSlots(context.Background(), search)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].AvailableSlots, 8)
}

func TestListAvailableSlotsServedFromCacheUntilReservation(t *testing.T) {
	env := newTestEnv(t, activeProvider("p1", 0, 0))
	ctx := context.Background()

	_, err := env.engine.ListAvailableSlots(ctx, mondaySearch())
	require.NoError(t, err)

	// Written behind the engine's back: a cached listing does not see it.
	env.seedBooking(models.Booking{ID: "sneaky", ProviderID: "p1", ScheduledDate: monday, ScheduledTime: "09:00", Duration: 60})
	got, err := env.engine.ListAvailableSlots(ctx, mondaySearch())
	require.NoError(t, err)
	assert.Len(t, got[0].AvailableSlots, 8)

	// A reservation through the engine invalidates the provider's entries.
	_, err = env.engine.ReserveBooking(ctx, models.ReservationRequest{
		ProviderID: "p1", ServiceID: "svc-60", ScheduledDate: monday, ScheduledTime: "14:00",
	})
	require.NoError(t, err)
	assert.Contains(t, env.cache.invalidated, "p1")

	got, err = env.engine.ListAvailableSlots(ctx, mondaySearch())
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12, 13, 15, 16}, slotHours(t, got[0].AvailableSlots))
}

func TestCheckSlotForProviders(t *testing.T) {
	onLeave := activeProvider("leave", 0, 0)
	onLeave.Availability.LeavePeriods = []models.LeavePeriod{{From: "2023-12-30", To: "2024-01-03"}}
	inactive := activeProvider("inactive", 0, 0)
	inactive.Profile.Status = models.ProviderStatusInactive
	env := newTestEnv(t, activeProvider("free", 0, 0), activeProvider("booked", 0, 0), onLeave, inactive)
	env.seedBooking(models.Booking{ID: "b1", ProviderID: "booked", ScheduledDate: monday, ScheduledTime: "09:30", Duration: 60})
	ctx := context.Background()

	got, err := env.engine.CheckSlotForProviders(ctx, models.SlotCheck{
		ProviderIDs: []string{"free", "booked", "leave", "inactive", "unknown", "free"},
		Date:        monday,
		Time:        "10:00",
		ServiceID:   "svc-60",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"free"}, got)

	got, err = env.engine.CheckSlotForProviders(ctx, models.SlotCheck{
		ProviderIDs: []string{"free", "booked"}, Date: monday, Time: "11:00 AM",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"free", "booked"}, got)

	got, err = env.engine.CheckSlotForProviders(ctx, models.SlotCheck{
		ProviderIDs: []string{"free"}, Date: monday, Time: "16:30",
	})
	require.NoError(t, err)
	assert.Empty(t, got, "slot runs past closing time")

	_, err = env.engine.CheckSlotForProviders(ctx, models.SlotCheck{ProviderIDs: []string{"free"}, Date: monday})
	assert.ErrorIs(t, err, ErrMissingScheduleFields)

	_, err = env.engine.CheckSlotForProviders(ctx, models.SlotCheck{ProviderIDs: []string{"free"}, Date: monday, Time: "noon"})
	assert.ErrorIs(t, err, scheduling.ErrInvalidTimeFormat)
}
