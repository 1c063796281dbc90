package provider

import (
	"context"
	"errors"
	"fmt"

	availabilityRepo "carelink/database/repository/availability"
	"carelink/models"
	"carelink/services/scheduling"

	"go.uber.org/zap"
)

// DefaultProviderService implements ProviderService on the availability
// repository.
type DefaultProviderService struct {
	Availability availabilityRepo.AvailabilityRepository
	Logger       *zap.Logger
}

func (s *DefaultProviderService) GetWeeklyAvailability(ctx context.Context, providerID string) (*models.WeeklyAvailability, error) {
	availability, err := s.Availability.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, &scheduling.NotFoundError{Resource: "provider availability", ID: providerID}
		}
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return availability, nil
}

// SetWeeklyAvailability validates and stores the provider's template.
// Slots within a day must not overlap.
func (s *DefaultProviderService) SetWeeklyAvailability(ctx context.Context, availability *models.WeeklyAvailability) error {
	if availability.ProviderID == "" {
		return &scheduling.ValidationError{Field: "providerId", Message: "provider is required"}
	}
	if err := availability.Validate(); err != nil {
		return &scheduling.ValidationError{Field: "days", Message: err.Error()}
	}
	if err := s.Availability.Set(ctx, availability); err != nil {
		return fmt.Errorf("failed to store availability: %w", err)
	}
	s.Logger.Info("weekly availability updated", zap.String("provider", availability.ProviderID))
	return nil
}
