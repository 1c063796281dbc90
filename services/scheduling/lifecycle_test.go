package scheduling

import (
	"context"
	"strings"
	"testing"
	"time"

	appointmentRepo "carelink/database/repository/appointment"
	"carelink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testClock = time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

func newLifecycle(repo appointmentRepo.AppointmentRepository, notifier *recordingNotifier) *AppointmentLifecycle {
	return &AppointmentLifecycle{
		Repo:     repo,
		Notifier: notifier,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return testClock },
	}
}

func seedAppointment(t *testing.T, repo *memAppointmentRepo, status models.AppointmentStatus, startsIn time.Duration) *models.Appointment {
	t.Helper()
	appt := &models.Appointment{
		ID:          "appt-" + string(status) + "-" + startsIn.String(),
		ProviderID:  "prov-1",
		ClientID:    "client-1",
		Datetime:    testClock.Add(startsIn),
		Duration:    30,
		MeetingType: models.MeetingVideo,
		Status:      status,
	}
	repo.mu.Lock()
	repo.appts[appt.ID] = *appt
	repo.mu.Unlock()
	return appt
}

func TestConfirmPendingVideoAppointment(t *testing.T) {
	repo := newMemAppointmentRepo()
	notifier := &recordingNotifier{}
	lifecycle := newLifecycle(repo, notifier)
	appt := seedAppointment(t, repo, models.StatusPending, 48*time.Hour)

	updated, err := lifecycle.Confirm(context.Background(), "prov-1", appt.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.True(t, strings.HasPrefix(updated.MeetingLink, "https://meet.carelink.app/"))

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "client", notifier.notifications[0].Target)
	assert.Equal(t, "client-1", notifier.notifications[0].ID)

	require.Len(t, notifier.reminderTimes, 1)
	assert.True(t, notifier.reminderTimes[0].Equal(appt.Datetime.Add(-24*time.Hour)))
}

func TestConfirmInPersonAppointmentHasNoLink(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})
	appt := seedAppointment(t, repo, models.StatusPending, 48*time.Hour)
	appt.MeetingType = models.MeetingInPerson
	repo.appts[appt.ID] = *appt

	updated, err := lifecycle.Confirm(context.Background(), "prov-1", appt.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.MeetingLink)
}

func TestConfirmSkipsReminderForImminentAppointment(t *testing.T) {
	repo := newMemAppointmentRepo()
	notifier := &recordingNotifier{}
	lifecycle := newLifecycle(repo, notifier)
	appt := seedAppointment(t, repo, models.StatusPending, 2*time.Hour)

	_, err := lifecycle.Confirm(context.Background(), "prov-1", appt.ID)
	require.NoError(t, err)
	assert.Empty(t, notifier.reminders)
}

func TestConfirmRequiresOwnership(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})
	appt := seedAppointment(t, repo, models.StatusPending, 48*time.Hour)

	_, err := lifecycle.Confirm(context.Background(), "prov-2", appt.ID)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestConfirmNonPendingFails(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})

	for _, status := range []models.AppointmentStatus{models.StatusConfirmed, models.StatusRejected, models.StatusCancelled} {
		appt := seedAppointment(t, repo, status, 48*time.Hour)

		_, err := lifecycle.Confirm(context.Background(), "prov-1", appt.ID)

		var it *InvalidTransitionError
		require.ErrorAs(t, err, &it)
		assert.Equal(t, status, it.Observed)
	}
}

func TestRejectPendingAppointment(t *testing.T) {
	repo := newMemAppointmentRepo()
	notifier := &recordingNotifier{}
	lifecycle := newLifecycle(repo, notifier)
	appt := seedAppointment(t, repo, models.StatusPending, 48*time.Hour)

	updated, err := lifecycle.Reject(context.Background(), "prov-1", appt.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, updated.Status)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "client", notifier.notifications[0].Target)
}

func TestCancelConfirmedOutsideCutoff(t *testing.T) {
	repo := newMemAppointmentRepo()
	notifier := &recordingNotifier{}
	lifecycle := newLifecycle(repo, notifier)
	// Exactly at the cutoff boundary; still allowed.
	appt := seedAppointment(t, repo, models.StatusConfirmed, CancellationCutoff)

	updated, err := lifecycle.Cancel(context.Background(), "client-1", models.RoleClient, appt.ID, "schedule conflict")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, "schedule conflict", updated.CancellationReason)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "provider", notifier.notifications[0].Target)
}

func TestCancelConfirmedInsideCutoff(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})
	appt := seedAppointment(t, repo, models.StatusConfirmed, CancellationCutoff-time.Second)

	_, err := lifecycle.Cancel(context.Background(), "client-1", models.RoleClient, appt.ID, "too late")

	var cw *CancellationWindowError
	require.ErrorAs(t, err, &cw)
	assert.Equal(t, CancellationCutoff, cw.Cutoff)

	stored, err := repo.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestCancelByProviderNotifiesClient(t *testing.T) {
	repo := newMemAppointmentRepo()
	notifier := &recordingNotifier{}
	lifecycle := newLifecycle(repo, notifier)
	appt := seedAppointment(t, repo, models.StatusConfirmed, 72*time.Hour)

	_, err := lifecycle.Cancel(context.Background(), "prov-1", models.RoleProvider, appt.ID, "emergency")
	require.NoError(t, err)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, "client", notifier.notifications[0].Target)
}

func TestClientWithdrawsPendingRequest(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})
	// Inside the cutoff window; withdrawal of a pending request ignores it.
	appt := seedAppointment(t, repo, models.StatusPending, time.Hour)

	updated, err := lifecycle.Cancel(context.Background(), "client-1", models.RoleClient, appt.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
}

func TestProviderCannotCancelPending(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})
	appt := seedAppointment(t, repo, models.StatusPending, 72*time.Hour)

	_, err := lifecycle.Cancel(context.Background(), "prov-1", models.RoleProvider, appt.ID, "busy")

	var it *InvalidTransitionError
	require.ErrorAs(t, err, &it)
	assert.Equal(t, models.StatusPending, it.Observed)
}

func TestCancelTerminalFails(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})

	for _, status := range []models.AppointmentStatus{models.StatusRejected, models.StatusCancelled} {
		appt := seedAppointment(t, repo, status, 72*time.Hour)

		_, err := lifecycle.Cancel(context.Background(), "client-1", models.RoleClient, appt.ID, "reason")

		var it *InvalidTransitionError
		require.ErrorAs(t, err, &it)
		assert.Equal(t, status, it.Observed)
	}
}

func TestCancelRequiresReason(t *testing.T) {
	repo := newMemAppointmentRepo()
	lifecycle := newLifecycle(repo, &recordingNotifier{})
	appt := seedAppointment(t, repo, models.StatusConfirmed, 72*time.Hour)

	_, err := lifecycle.Cancel(context.Background(), "client-1", models.RoleClient, appt.ID, "   ")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reason", ve.Field)
}

// racingRepo mutates the appointment out from under the caller on the first
// transition, simulating a concurrent operation winning the compare-and-set.
type racingRepo struct {
	*memAppointmentRepo
	raced bool
}

func (r *racingRepo) TransitionStatus(ctx context.Context, id string, from, to models.AppointmentStatus, update appointmentRepo.StatusUpdate) (*models.Appointment, error) {
	if !r.raced {
		r.raced = true
		if _, err := r.memAppointmentRepo.TransitionStatus(ctx, id, from, models.StatusRejected, appointmentRepo.StatusUpdate{}); err != nil {
			return nil, err
		}
	}
	return r.memAppointmentRepo.TransitionStatus(ctx, id, from, to, update)
}

func TestConfirmLosesRaceToReject(t *testing.T) {
	mem := newMemAppointmentRepo()
	repo := &racingRepo{memAppointmentRepo: mem}
	lifecycle := newLifecycle(mem, &recordingNotifier{})
	lifecycle.Repo = repo
	appt := seedAppointment(t, mem, models.StatusPending, 48*time.Hour)

	_, err := lifecycle.Confirm(context.Background(), "prov-1", appt.ID)

	var it *InvalidTransitionError
	require.ErrorAs(t, err, &it)
	assert.Equal(t, models.StatusRejected, it.Observed)
	assert.Equal(t, models.StatusConfirmed, it.Target)
}

func TestLifecycleUnknownAppointment(t *testing.T) {
	lifecycle := newLifecycle(newMemAppointmentRepo(), &recordingNotifier{})

	_, err := lifecycle.Confirm(context.Background(), "prov-1", "missing")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}
