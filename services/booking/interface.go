package booking

import (
	"context"
	"time"

	"carelink/models"
	"carelink/services/scheduling"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SlotExpander produces the bookable slot horizon for a provider.
type SlotExpander interface {
	Expand(ctx context.Context, providerID string, horizonWeeks int, today time.Time) ([]models.DaySlots, error)
}

// SlotReserver persists a finalized draft as a pending appointment.
type SlotReserver interface {
	Reserve(ctx context.Context, in scheduling.ReserveInput) (*models.Appointment, error)
}

// DetailsInput carries the fields collected on the details step.
type DetailsInput struct {
	MeetingType models.MeetingType `json:"meetingType"`
	Location    string             `json:"location"`
	Notes       string             `json:"notes"`
}

// BookingWorkflowService walks one client through date → time → details →
// confirmation and finally reserves the slot. Sessions live in the booking
// cache between steps; an abandoned session simply expires.
type BookingWorkflowService interface {
	StartSession(ctx context.Context, clientID, providerID string) (*models.BookingSessionResponse, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSessionResponse, error)
	SelectTime(ctx context.Context, sessionID string, start int) (*models.BookingSessionResponse, error)
	EnterDetails(ctx context.Context, sessionID string, in DetailsInput) (*models.BookingSessionResponse, error)
	Back(ctx context.Context, sessionID string) (*models.BookingSessionResponse, error)
	Confirm(ctx context.Context, sessionID string) (*models.BookingSessionResponse, error)
	Abandon(ctx context.Context, sessionID string) error
}

// DefaultBookingWorkflow implements BookingWorkflowService.
type DefaultBookingWorkflow struct {
	Expander SlotExpander
	Store    SlotReserver
	Cache    *redis.Client
	Logger   *zap.Logger

	HorizonWeeks int
	SessionTTL   time.Duration

	Now func() time.Time
}
