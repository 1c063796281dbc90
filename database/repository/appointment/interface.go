package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"carelink/models"
)

// ErrSlotTaken is returned by Reserve when another active appointment
// already occupies the requested (provider, datetime) slot.
var ErrSlotTaken = errors.New("slot no longer available")

// ErrNotFound is returned when no appointment matches the given ID.
var ErrNotFound = errors.New("appointment not found")

// ErrStatusChanged is returned by TransitionStatus when the appointment
// exists but its status no longer matches the expected one.
var ErrStatusChanged = errors.New("appointment status changed")

// StatusUpdate carries the optional fields written alongside a transition.
type StatusUpdate struct {
	CancellationReason string
	MeetingLink        string
}

type AppointmentRepository interface {
	EnsureIndexes() error

	// Reserve inserts the appointment if and only if no active appointment
	// exists for the same (provider, datetime). The check and insert run in
	// one mongo transaction; a lost race yields ErrSlotTaken.
	Reserve(ctx context.Context, appt *models.Appointment) error

	GetByID(ctx context.Context, id string) (*models.Appointment, error)

	// TransitionStatus atomically moves the appointment from the expected
	// status to the new one. It fails with ErrStatusChanged if a concurrent
	// transition won, leaving the document untouched.
	TransitionStatus(ctx context.Context, id string, from, to models.AppointmentStatus, update StatusUpdate) (*models.Appointment, error)

	// ActiveSlotTimes returns the datetimes of active (pending or confirmed)
	// appointments for the provider within [from, to).
	ActiveSlotTimes(ctx context.Context, providerID string, from, to time.Time) (map[int64]bool, error)

	// List returns one page of the actor's appointments matching the filter
	// along with the total match count.
	List(ctx context.Context, actorID string, role models.ActorRole, f models.AppointmentFilter, now time.Time) ([]models.Appointment, int, error)
}
