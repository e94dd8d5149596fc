package providerRepo

import (
	"context"
	"errors"

	"marketplace/models"
)

// ErrProviderNotFound is returned when no provider document matches.
var ErrProviderNotFound = errors.New("provider not found")

// SearchCriteria narrows the provider set for slot listing. Zero values
// disable the corresponding filter; RadiusKm > 0 enables the geo filter.
type SearchCriteria struct {
	ProviderIDs   []string
	SubCategoryID string
	Lat           float64
	Lng           float64
	RadiusKm      float64
}

// ProviderRepository defines provider data access needed by scheduling.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetByIDs retrieves every provider whose ID is listed. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Provider, error)
	// FindNearby returns active providers matching criteria, using the 2dsphere index.
	FindNearby(ctx context.Context, criteria SearchCriteria) ([]models.Provider, error)
	// UpdateAvailability replaces the availability sub-document.
	UpdateAvailability(ctx context.Context, id string, availability models.Availability) error
	// PurgeStaleAvailability pulls overrides and leave periods that ended before cutoff.
	PurgeStaleAvailability(ctx context.Context, cutoff string) (int64, error)
	// EnsureIndexes creates the indexes the queries above rely on.
	EnsureIndexes(ctx context.Context) error
}
