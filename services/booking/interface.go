package booking

import (
	"context"
	"time"

	bookingRepo "marketplace/database/repository/booking"
	catalogRepo "marketplace/database/repository/catalog"
	providerRepo "marketplace/database/repository/provider"
	"marketplace/models"
	"marketplace/services/notification"

	"go.uber.org/zap"
)

// SchedulingService is the provider availability and slot booking core.
type SchedulingService interface {
	ListAvailableSlots(ctx context.Context, search models.SlotSearch) ([]models.ProviderSlots, error)
	CheckSlotForProviders(ctx context.Context, check models.SlotCheck) ([]string, error)
	ReserveBooking(ctx context.Context, req models.ReservationRequest) (*models.Booking, error)
	// BookingForPayment returns the booking a payment intent confirmed.
	BookingForPayment(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	// UpdateBookingStatus fails with ErrNotBookingParty unless actor is the
	// booking's customer or provider.
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus, actor models.Actor) (*models.Booking, error)
	UpdateAvailability(ctx context.Context, providerID string, availability models.Availability) (*models.Availability, error)
	PurgeStaleAvailability(ctx context.Context) (int64, error)
}

// DefaultSchedulingEngine implements SchedulingService over the repositories.
// Cache and Notifier are optional.
type DefaultSchedulingEngine struct {
	Providers providerRepo.ProviderRepository
	Bookings  bookingRepo.BookingRepository
	Catalog   catalogRepo.ServiceRepository
	Cache     SlotCache
	Notifier  notification.NotificationService
	Logger    *zap.Logger

	// Location interprets every naive date and time string.
	Location *time.Location
	// MaxRangeDays bounds a listing's day span; zero disables the bound.
	MaxRangeDays int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// NewSchedulingEngine builds an engine with the given collaborators.
func NewSchedulingEngine(
	providers providerRepo.ProviderRepository,
	bookings bookingRepo.BookingRepository,
	catalog catalogRepo.ServiceRepository,
	cache SlotCache,
	notifier notification.NotificationService,
	logger *zap.Logger,
	loc *time.Location,
	maxRangeDays int,
) *DefaultSchedulingEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &DefaultSchedulingEngine{
		Providers:    providers,
		Bookings:     bookings,
		Catalog:      catalog,
		Cache:        cache,
		Notifier:     notifier,
		Logger:       logger,
		Location:     loc,
		MaxRangeDays: maxRangeDays,
	}
}

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now().In(se.loc())
	}
	return time.Now().In(se.loc())
}

func (se *DefaultSchedulingEngine) loc() *time.Location {
	if se.Location == nil {
		return time.Local
	}
	return se.Location
}

func (se *DefaultSchedulingEngine) logger() *zap.Logger {
	if se.Logger == nil {
		return zap.NewNop()
	}
	return se.Logger
}
