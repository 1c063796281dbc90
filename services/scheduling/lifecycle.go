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

// CancellationCutoff is the minimum notice required to cancel a confirmed
// appointment. Evaluated at the instant of the cancel request.
const CancellationCutoff = 24 * time.Hour

// AppointmentLifecycle drives status transitions on stored appointments.
// Every transition is a compare-and-set against the expected current status;
// concurrent operations on the same appointment serialize in the store and
// the loser observes the already-mutated status.
type AppointmentLifecycle struct {
	Repo     appointmentRepo.AppointmentRepository
	Notifier notification.NotificationService
	Logger   *zap.Logger

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func (l *AppointmentLifecycle) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *AppointmentLifecycle) fetchOwned(ctx context.Context, id, actorID string, role models.ActorRole) (*models.Appointment, error) {
	appt, err := l.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "appointment", ID: id}
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	// An appointment outside the actor's scope is reported as not found.
	switch role {
	case models.RoleProvider:
		if appt.ProviderID != actorID {
			return nil, &NotFoundError{Resource: "appointment", ID: id}
		}
	case models.RoleClient:
		if appt.ClientID != actorID {
			return nil, &NotFoundError{Resource: "appointment", ID: id}
		}
	default:
		return nil, &ValidationError{Field: "actorRole", Message: fmt.Sprintf("unknown role %q", role)}
	}
	return appt, nil
}

func (l *AppointmentLifecycle) transition(
	ctx context.Context,
	appt *models.Appointment,
	to models.AppointmentStatus,
	update appointmentRepo.StatusUpdate,
) (*models.Appointment, error) {
	updated, err := l.Repo.TransitionStatus(ctx, appt.ID, appt.Status, to, update)
	if err == nil {
		l.Logger.Info("appointment transitioned",
			zap.String("id", appt.ID),
			zap.String("from", string(appt.Status)),
			zap.String("to", string(to)))
		return updated, nil
	}
	if errors.Is(err, appointmentRepo.ErrStatusChanged) {
		// Lost a race: report the status the winner left behind.
		current, ferr := l.Repo.GetByID(ctx, appt.ID)
		if ferr != nil {
			return nil, fmt.Errorf("failed to re-read appointment after race: %w", ferr)
		}
		return nil, &InvalidTransitionError{Observed: current.Status, Target: to}
	}
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		return nil, &NotFoundError{Resource: "appointment", ID: appt.ID}
	}
	return nil, fmt.Errorf("transition failed: %w", err)
}

// Confirm moves a pending appointment to confirmed. Provider-initiated only.
// Video appointments get a placeholder meeting link; a reminder is scheduled
// for 24 hours before the start.
func (l *AppointmentLifecycle) Confirm(ctx context.Context, providerID, apptID string) (*models.Appointment, error) {
	appt, err := l.fetchOwned(ctx, apptID, providerID, models.RoleProvider)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusPending {
		return nil, &InvalidTransitionError{Observed: appt.Status, Target: models.StatusConfirmed}
	}

	update := appointmentRepo.StatusUpdate{}
	if appt.MeetingType == models.MeetingVideo {
		update.MeetingLink = "https://meet.carelink.app/" + uuid.New().String()
	}

	updated, err := l.transition(ctx, appt, models.StatusConfirmed, update)
	if err != nil {
		return nil, err
	}

	l.notifyClient(ctx, updated, "Appointment confirmed",
		fmt.Sprintf("Your appointment on %s is confirmed", updated.Datetime.Format(time.RFC3339)))
	l.scheduleReminder(ctx, updated)

	return updated, nil
}

// Reject moves a pending appointment to rejected. Provider-initiated only.
func (l *AppointmentLifecycle) Reject(ctx context.Context, providerID, apptID string) (*models.Appointment, error) {
	appt, err := l.fetchOwned(ctx, apptID, providerID, models.RoleProvider)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusPending {
		return nil, &InvalidTransitionError{Observed: appt.Status, Target: models.StatusRejected}
	}

	updated, err := l.transition(ctx, appt, models.StatusRejected, appointmentRepo.StatusUpdate{})
	if err != nil {
		return nil, err
	}

	l.notifyClient(ctx, updated, "Appointment declined",
		"The provider is unable to take this appointment")
	return updated, nil
}

// Cancel cancels an appointment with a mandatory reason.
//
// Confirmed appointments can be cancelled by either party, but only with at
// least CancellationCutoff of notice. A still-pending request may be
// withdrawn by the client at any time; providers decline pending requests
// through Reject instead.
func (l *AppointmentLifecycle) Cancel(ctx context.Context, actorID string, role models.ActorRole, apptID, reason string) (*models.Appointment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "cancellation reason is required"}
	}

	appt, err := l.fetchOwned(ctx, apptID, actorID, role)
	if err != nil {
		return nil, err
	}

	switch appt.Status {
	case models.StatusConfirmed:
		if appt.Datetime.Sub(l.now()) < CancellationCutoff {
			return nil, &CancellationWindowError{Datetime: appt.Datetime, Cutoff: CancellationCutoff}
		}
	case models.StatusPending:
		if role != models.RoleClient {
			return nil, &InvalidTransitionError{Observed: appt.Status, Target: models.StatusCancelled}
		}
	default:
		return nil, &InvalidTransitionError{Observed: appt.Status, Target: models.StatusCancelled}
	}

	updated, err := l.transition(ctx, appt, models.StatusCancelled, appointmentRepo.StatusUpdate{CancellationReason: reason})
	if err != nil {
		return nil, err
	}

	// Tell the party that did not initiate the cancellation.
	if role == models.RoleClient {
		l.notifyProvider(ctx, updated, "Appointment cancelled",
			fmt.Sprintf("The client cancelled: %s", reason))
	} else {
		l.notifyClient(ctx, updated, "Appointment cancelled",
			fmt.Sprintf("The provider cancelled: %s", reason))
	}
	return updated, nil
}

func (l *AppointmentLifecycle) notifyClient(ctx context.Context, appt *models.Appointment, title, body string) {
	l.notify(ctx, appt, "client", appt.ClientID, title, body)
}

func (l *AppointmentLifecycle) notifyProvider(ctx context.Context, appt *models.Appointment, title, body string) {
	l.notify(ctx, appt, "provider", appt.ProviderID, title, body)
}

func (l *AppointmentLifecycle) notify(ctx context.Context, appt *models.Appointment, target, id, title, body string) {
	if l.Notifier == nil {
		return
	}
	payload := models.NotificationPayload{
		Target:        target,
		ID:            id,
		AppointmentID: appt.ID,
		Title:         title,
		Body:          body,
	}
	if err := l.Notifier.NotifyStatusChange(ctx, payload); err != nil {
		l.Logger.Warn("failed to enqueue status notification",
			zap.String("appointment", appt.ID), zap.Error(err))
	}
}

func (l *AppointmentLifecycle) scheduleReminder(ctx context.Context, appt *models.Appointment) {
	if l.Notifier == nil {
		return
	}
	fireAt := appt.Datetime.Add(-CancellationCutoff)
	if fireAt.Before(l.now()) {
		return
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		Target:        "client",
		ID:            appt.ClientID,
		FireDate:      fireAt.Format(time.RFC3339),
		Title:         "Upcoming appointment",
		Body:          fmt.Sprintf("You have an appointment on %s", appt.Datetime.Format(time.RFC3339)),
	}
	if err := l.Notifier.ScheduleReminder(ctx, payload, fireAt); err != nil {
		l.Logger.Warn("failed to schedule reminder",
			zap.String("appointment", appt.ID), zap.Error(err))
	}
}
