package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"marketplace/models"
)

// 2024-01-01 is a Monday.
const (
	monday  = "2024-01-01"
	tuesday = "2024-01-02"
)

var testNow = time.Date(2023, 12, 31, 8, 0, 0, 0, time.UTC)

func testCatalog() *memCatalog {
	return &memCatalog{services: map[string]models.Service{
		"svc-60":  {ID: "svc-60", Name: "Standard clean", Duration: "60 mins", Price: 30, Currency: "usd"},
		"svc-90":  {ID: "svc-90", Name: "Laundry", Duration: "1.5 hours", Price: 40, Currency: "usd"},
		"svc-120": {ID: "svc-120", Name: "Deep clean", Duration: "2 hours", Price: 55, Currency: "usd"},
		"svc-odd": {ID: "svc-odd", Name: "Consultation", Duration: "as needed", Price: 10, Currency: "usd"},
	}}
}

func activeProvider(id string, lat, lng float64) models.Provider {
	return models.Provider{
		ID: id,
		Profile: models.Profile{
			ProviderName: "Provider " + id,
			Status:       models.ProviderStatusActive,
			LocationGeo:  models.NewGeoPoint(lat, lng),
		},
		SubCategoryIDs: []string{"cleaning"},
		Availability: models.Availability{
			WeeklySchedule: []models.DaySchedule{
				{Day: "Monday", Active: true, Slots: []models.TimeSlot{{Start: "09:00", End: "17:00"}}},
				{Day: "Tuesday", Active: false, Slots: []models.TimeSlot{{Start: "09:00", End: "17:00"}}},
			},
		},
	}
}

type testEnv struct {
	engine    *DefaultSchedulingEngine
	providers *memProviders
	bookings  *memBookings
	catalog   *memCatalog
	cache     *memSlotCache
	notifier  *recordingNotifier
}

func newTestEnv(t *testing.T, providers ...models.Provider) *testEnv {
	t.Helper()
	env := &testEnv{
		providers: newMemProviders(providers...),
		bookings:  &memBookings{},
		catalog:   testCatalog(),
		cache:     newMemSlotCache(),
		notifier:  &recordingNotifier{},
	}
	env.engine = NewSchedulingEngine(env.providers, env.bookings, env.catalog, env.cache, env.notifier,
		zaptest.NewLogger(t), time.UTC, 31)
	env.engine.Now = func() time.Time { return testNow }
	return env
}

func (env *testEnv) seedBooking(b models.Booking) {
	if b.Status == "" {
		b.Status = models.BookingConfirmed
	}
	env.bookings.bookings = append(env.bookings.bookings, b)
}

func slotHours(t *testing.T, slots []models.AvailableSlot) []int {
	t.Helper()
	hours := make([]int, 0, len(slots))
	for _, s := range slots {
		require.Zero(t, s.Start.Minute())
		hours = append(hours, s.Start.Hour())
	}
	return hours
}
