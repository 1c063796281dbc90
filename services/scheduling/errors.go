package scheduling

import (
	"fmt"
	"time"

	"carelink/models"
)

// ValidationError reports a malformed or incomplete reservation request.
// The caller stays on its current step and may retry with corrected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// ConflictError means the slot was taken between read and reserve. The
// caller decides whether to re-fetch availability and retry.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// InvalidTransitionError reports a lifecycle operation attempted from a
// state that forbids it. Observed is the status the appointment actually had
// when the operation ran.
type InvalidTransitionError struct {
	Observed models.AppointmentStatus
	Target   models.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %s to %s", e.Observed, e.Target)
}

// CancellationWindowError means a cancel arrived inside the minimum-notice
// window of a confirmed appointment.
type CancellationWindowError struct {
	Datetime time.Time
	Cutoff   time.Duration
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("appointment at %s can no longer be cancelled: less than %s notice",
		e.Datetime.Format(time.RFC3339), e.Cutoff)
}

// NotFoundError reports an unknown appointment or provider id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
