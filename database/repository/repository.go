package repository

import (
	"context"
	"fmt"

	bookingRepo "marketplace/database/repository/booking"
	catalogRepo "marketplace/database/repository/catalog"
	providerRepo "marketplace/database/repository/provider"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the ProviderRepository interface and constructor.
type ProviderRepository = providerRepo.ProviderRepository

type ProviderSearchCriteria = providerRepo.SearchCriteria

var NewMongoProviderRepo = providerRepo.NewMongoProviderRepo

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

// Re-export the ServiceRepository interface and constructor.
type ServiceRepository = catalogRepo.ServiceRepository

var NewMongoServiceRepo = catalogRepo.NewMongoServiceRepo

// Repositories bundles every store the scheduling services need.
type Repositories struct {
	Providers ProviderRepository
	Bookings  BookingRepository
	Services  ServiceRepository
}

// NewRepositories wires the Mongo implementations against db.
func NewRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Providers: NewMongoProviderRepo(db),
		Bookings:  NewMongoBookingRepo(db),
		Services:  NewMongoServiceRepo(db),
	}
}

// EnsureIndexes creates the indexes every repository relies on.
func (r Repositories) EnsureIndexes(ctx context.Context) error {
	if err := r.Providers.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("provider indexes: %w", err)
	}
	if err := r.Bookings.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("booking indexes: %w", err)
	}
	return nil
}
