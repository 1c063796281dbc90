package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appointmentRepo "carelink/database/repository/appointment"
	"carelink/models"
	"carelink/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReserveInput is a finalized booking draft ready to be persisted.
type ReserveInput struct {
	ProviderID  string
	ClientID    string
	Datetime    time.Time
	Duration    int
	MeetingType models.MeetingType
	Location    string
	Notes       string
}

// SchedulingStore owns appointment creation and the exclusive-booking
// guarantee. All writes go through the repository's transactional reserve;
// losing a race for a slot yields ConflictError, never a duplicate booking.
type SchedulingStore struct {
	Repo     appointmentRepo.AppointmentRepository
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

func (s *SchedulingStore) validate(in ReserveInput) error {
	if in.ProviderID == "" {
		return &ValidationError{Field: "providerId", Message: "provider is required"}
	}
	if in.ClientID == "" {
		return &ValidationError{Field: "clientId", Message: "client is required"}
	}
	if in.Datetime.IsZero() {
		return &ValidationError{Field: "datetime", Message: "datetime is required"}
	}
	if in.Duration <= 0 {
		return &ValidationError{Field: "duration", Message: "duration must be positive"}
	}
	if !models.ValidMeetingType(in.MeetingType) {
		return &ValidationError{Field: "meetingType", Message: fmt.Sprintf("unknown meeting type %q", in.MeetingType)}
	}
	if in.MeetingType == models.MeetingInPerson && strings.TrimSpace(in.Location) == "" {
		return &ValidationError{Field: "location", Message: "location is required for in-person meetings"}
	}
	return nil
}

// Reserve creates a pending appointment for the slot, or returns
// ConflictError when another active appointment already holds it. On any
// failure no partial state is persisted.
func (s *SchedulingStore) Reserve(ctx context.Context, in ReserveInput) (*models.Appointment, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	appt := &models.Appointment{
		ID:          uuid.New().String(),
		ProviderID:  in.ProviderID,
		ClientID:    in.ClientID,
		Datetime:    in.Datetime.UTC(),
		Duration:    in.Duration,
		MeetingType: in.MeetingType,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// Location is meaningful only for in-person meetings.
	if in.MeetingType == models.MeetingInPerson {
		appt.Location = strings.TrimSpace(in.Location)
	}

	if err := s.Repo.Reserve(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, &ConflictError{Reason: "slot no longer available"}
		}
		return nil, fmt.Errorf("reserve failed: %w", err)
	}

	s.Logger.Info("appointment reserved",
		zap.String("id", appt.ID),
		zap.String("provider", appt.ProviderID),
		zap.Time("datetime", appt.Datetime))

	if s.Notifier != nil {
		payload := models.NotificationPayload{
			Target:        "provider",
			ID:            appt.ProviderID,
			AppointmentID: appt.ID,
			Title:         "New appointment request",
			Body:          fmt.Sprintf("Requested for %s", appt.Datetime.Format(time.RFC3339)),
		}
		if err := s.Notifier.NotifyStatusChange(ctx, payload); err != nil {
			s.Logger.Warn("failed to enqueue reservation notification", zap.Error(err))
		}
	}

	return appt, nil
}
