package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	bookingRepo "marketplace/database/repository/booking"
	providerRepo "marketplace/database/repository/provider"
	"marketplace/models"
	"marketplace/services/scheduling"
	"marketplace/utils"
)

type memProviders struct {
	mu        sync.Mutex
	providers map[string]models.Provider
	purged    string
}

func newMemProviders(ps ...models.Provider) *memProviders {
	m := &memProviders{providers: map[string]models.Provider{}}
	for _, p := range ps {
		m.providers[p.ID] = p
	}
	return m
}

func (m *memProviders) GetByID(_ context.Context, id string) (*models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", id, providerRepo.ErrProviderNotFound)
	}
	return &p, nil
}

func (m *memProviders) GetByIDs(_ context.Context, ids []string) ([]models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Provider
	for _, id := range ids {
		if p, ok := m.providers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProviders) FindNearby(_ context.Context, c providerRepo.SearchCriteria) ([]models.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range c.ProviderIDs {
		wanted[id] = true
	}
	var out []models.Provider
	for _, p := range m.providers {
		if p.Profile.Status != models.ProviderStatusActive {
			continue
		}
		if len(wanted) > 0 && !wanted[p.ID] {
			continue
		}
		if c.SubCategoryID != "" && !contains(p.SubCategoryIDs, c.SubCategoryID) {
			continue
		}
		if c.RadiusKm > 0 {
			lat, lng, ok := p.Profile.LocationGeo.LatLng()
			if !ok || scheduling.HaversineKm(c.Lat, c.Lng, lat, lng) > c.RadiusKm {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProviders) UpdateAvailability(_ context.Context, id string, av models.Availability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return providerRepo.ErrProviderNotFound
	}
	p.Availability = av
	m.providers[id] = p
	return nil
}

func (m *memProviders) PurgeStaleAvailability(_ context.Context, cutoff string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged = cutoff
	var n int64
	for id, p := range m.providers {
		changed := false
		var overrides []models.DateOverride
		for _, o := range p.Availability.DateOverrides {
			if o.Date < cutoff {
				changed = true
				continue
			}
			overrides = append(overrides, o)
		}
		var leaves []models.LeavePeriod
		for _, lp := range p.Availability.LeavePeriods {
			if lp.To < cutoff {
				changed = true
				continue
			}
			leaves = append(leaves, lp)
		}
		if changed {
			p.Availability.DateOverrides = overrides
			p.Availability.LeavePeriods = leaves
			m.providers[id] = p
			n++
		}
	}
	return n, nil
}

func (m *memProviders) EnsureIndexes(context.Context) error { return nil }

// memBookings serializes Reserve with a mutex, which gives the same
// guarantee as the transactional guard document in the Mongo repository.
type memBookings struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (m *memBookings) ListForProviders(_ context.Context, ids []string, from, to string, statuses []models.BookingStatus) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if !contains(ids, b.ProviderID) || b.ScheduledDate < from || b.ScheduledDate > to {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, b.Status) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memBookings) GetByPaymentIntent(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.PaymentIntentID != "" && b.PaymentIntentID == id {
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (m *memBookings) Reserve(_ context.Context, booking *models.Booking, check bookingRepo.ReserveCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dates := []string{booking.ScheduledDate}
	if d, err := time.Parse(scheduling.DateLayout, booking.ScheduledDate); err == nil {
		dates = append(dates, d.AddDate(0, 0, -1).Format(scheduling.DateLayout))
	}
	var nearby []models.Booking
	for _, b := range m.bookings {
		if b.ProviderID == booking.ProviderID && contains(dates, b.ScheduledDate) {
			nearby = append(nearby, b)
		}
	}
	if err := check(nearby); err != nil {
		return err
	}
	for _, b := range m.bookings {
		if booking.PaymentIntentID != "" && b.PaymentIntentID == booking.PaymentIntentID {
			return bookingRepo.ErrPaymentAlreadyUsed
		}
	}
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.ID == id {
			if b.Status != from {
				return fmt.Errorf("booking %s: status changed", id)
			}
			m.bookings[i].Status = to
			return nil
		}
	}
	return ErrBookingNotFound
}

func (m *memBookings) EnsureIndexes(context.Context) error { return nil }

func (m *memBookings) all() []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Booking(nil), m.bookings...)
}

type memCatalog struct {
	services map[string]models.Service
	lookups  int
	mu       sync.Mutex
}

func (m *memCatalog) GetByID(_ context.Context, id string) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	s, ok := m.services[id]
	if !ok {
		return nil, fmt.Errorf("service %s: %w", id, ErrServiceNotFound)
	}
	return &s, nil
}

type memSlotCache struct {
	mu          sync.Mutex
	entries     map[string][]models.AvailableSlot
	invalidated []string
}

func newMemSlotCache() *memSlotCache {
	return &memSlotCache{entries: map[string][]models.AvailableSlot{}}
}

func (c *memSlotCache) Get(_ context.Context, key SlotCacheKey) ([]models.AvailableSlot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key.String()]
	return s, ok, nil
}

func (c *memSlotCache) Set(_ context.Context, key SlotCacheKey, slots []models.AvailableSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = slots
	return nil
}

func (c *memSlotCache) InvalidateProvider(_ context.Context, providerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, providerID)
	prefix := utils.SlotCachePrefix + providerID + ":"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []models.Booking
	updated []string
}

func (r *recordingNotifier) SendProviderPushNotification(context.Context, models.Provider, string, string, map[string]string) error {
	return nil
}

func (r *recordingNotifier) NotifyBookingCreated(_ context.Context, _ models.Provider, b models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, b)
	return nil
}

func (r *recordingNotifier) NotifyAvailabilityUpdated(_ context.Context, p models.Provider, _ models.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, p.ID)
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsStatus(list []models.BookingStatus, v models.BookingStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
