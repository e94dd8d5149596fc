package catalogRepo

import (
	"context"
	"errors"

	"marketplace/models"
)

// ErrServiceNotFound is returned when no catalog entry matches.
var ErrServiceNotFound = errors.New("service not found")

// ServiceRepository resolves catalog services.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
}
