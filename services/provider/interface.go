package provider

import (
	"context"

	"carelink/models"
)

// ProviderService manages a provider's recurring weekly availability.
type ProviderService interface {
	GetWeeklyAvailability(ctx context.Context, providerID string) (*models.WeeklyAvailability, error)
	SetWeeklyAvailability(ctx context.Context, availability *models.WeeklyAvailability) error
}
