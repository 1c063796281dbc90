package provider

import (
	"context"
	"sync"
	"testing"
	"time"

	availabilityRepo "carelink/database/repository/availability"
	"carelink/models"
	"carelink/services/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memAvailabilityRepo struct {
	mu        sync.Mutex
	templates map[string]models.WeeklyAvailability
}

func newMemAvailabilityRepo() *memAvailabilityRepo {
	return &memAvailabilityRepo{templates: make(map[string]models.WeeklyAvailability)}
}

func (r *memAvailabilityRepo) EnsureIndexes() error { return nil }

func (r *memAvailabilityRepo) Get(ctx context.Context, providerID string) (*models.WeeklyAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[providerID]
	if !ok {
		return nil, availabilityRepo.ErrNotFound
	}
	return &template, nil
}

func (r *memAvailabilityRepo) Set(ctx context.Context, availability *models.WeeklyAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[availability.ProviderID] = *availability
	return nil
}

func TestSetAndGetWeeklyAvailability(t *testing.T) {
	svc := &DefaultProviderService{Availability: newMemAvailabilityRepo(), Logger: zap.NewNop()}
	ctx := context.Background()

	availability := &models.WeeklyAvailability{
		ProviderID: "prov-1",
		Days: map[time.Weekday][]models.TimeSlotTemplate{
			time.Monday: {{Start: 600, End: 630, MeetingTypes: []models.MeetingType{models.MeetingVideo}}},
		},
	}
	require.NoError(t, svc.SetWeeklyAvailability(ctx, availability))

	got, err := svc.GetWeeklyAvailability(ctx, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, availability.Days, got.Days)
}

func TestSetWeeklyAvailabilityValidation(t *testing.T) {
	svc := &DefaultProviderService{Availability: newMemAvailabilityRepo(), Logger: zap.NewNop()}
	ctx := context.Background()

	var ve *scheduling.ValidationError

	err := svc.SetWeeklyAvailability(ctx, &models.WeeklyAvailability{})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "providerId", ve.Field)

	err = svc.SetWeeklyAvailability(ctx, &models.WeeklyAvailability{
		ProviderID: "prov-1",
		Days: map[time.Weekday][]models.TimeSlotTemplate{
			time.Monday: {
				{Start: 600, End: 660, MeetingTypes: []models.MeetingType{models.MeetingVideo}},
				{Start: 630, End: 690, MeetingTypes: []models.MeetingType{models.MeetingVideo}},
			},
		},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "days", ve.Field)
}

func TestGetWeeklyAvailabilityNotFound(t *testing.T) {
	svc := &DefaultProviderService{Availability: newMemAvailabilityRepo(), Logger: zap.NewNop()}

	_, err := svc.GetWeeklyAvailability(context.Background(), "nobody")

	var nf *scheduling.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody", nf.ID)
}
