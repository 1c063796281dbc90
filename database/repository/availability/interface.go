package availabilityRepo

import (
	"context"
	"errors"

	"carelink/models"
)

// ErrNotFound is returned when a provider has no stored weekly template.
var ErrNotFound = errors.New("availability template not found")

type AvailabilityRepository interface {
	EnsureIndexes() error
	Get(ctx context.Context, providerID string) (*models.WeeklyAvailability, error)
	Set(ctx context.Context, availability *models.WeeklyAvailability) error
}
