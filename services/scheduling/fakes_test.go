package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	appointmentRepo "carelink/database/repository/appointment"
	availabilityRepo "carelink/database/repository/availability"
	"carelink/models"
)

// memAppointmentRepo is an in-memory AppointmentRepository. A single mutex
// serializes check-and-insert the way the mongo transaction does, so it
// honors the same exclusive-booking contract.
type memAppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appts: make(map[string]models.Appointment)}
}

func (r *memAppointmentRepo) EnsureIndexes() error { return nil }

func (r *memAppointmentRepo) Reserve(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appts {
		if existing.ProviderID == appt.ProviderID &&
			existing.Datetime.Equal(appt.Datetime) &&
			!existing.Status.Terminal() {
			return appointmentRepo.ErrSlotTaken
		}
	}
	r.appts[appt.ID] = *appt
	return nil
}

func (r *memAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &appt, nil
}

func (r *memAppointmentRepo) TransitionStatus(ctx context.Context, id string, from, to models.AppointmentStatus, update appointmentRepo.StatusUpdate) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if appt.Status != from {
		return nil, appointmentRepo.ErrStatusChanged
	}
	appt.Status = to
	appt.UpdatedAt = time.Now().UTC()
	if update.CancellationReason != "" {
		appt.CancellationReason = update.CancellationReason
	}
	if update.MeetingLink != "" {
		appt.MeetingLink = update.MeetingLink
	}
	r.appts[id] = appt
	return &appt, nil
}

func (r *memAppointmentRepo) ActiveSlotTimes(ctx context.Context, providerID string, from, to time.Time) (map[int64]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken := make(map[int64]bool)
	for _, appt := range r.appts {
		if appt.ProviderID != providerID || appt.Status.Terminal() {
			continue
		}
		if appt.Datetime.Before(from) || !appt.Datetime.Before(to) {
			continue
		}
		taken[appt.Datetime.Unix()] = true
	}
	return taken, nil
}

func (r *memAppointmentRepo) List(ctx context.Context, actorID string, role models.ActorRole, f models.AppointmentFilter, now time.Time) ([]models.Appointment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Appointment
	for _, appt := range r.appts {
		if role == models.RoleProvider && appt.ProviderID != actorID {
			continue
		}
		if role == models.RoleClient && appt.ClientID != actorID {
			continue
		}
		if f.Status != "" && f.Status != "all" && appt.Status != f.Status {
			continue
		}
		if f.Timeframe == models.TimeframeUpcoming && appt.Datetime.Before(now) {
			continue
		}
		if f.Timeframe == models.TimeframePast && !appt.Datetime.Before(now) {
			continue
		}
		if !f.StartDate.IsZero() && appt.Datetime.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && appt.Datetime.After(f.EndDate) {
			continue
		}
		matched = append(matched, appt)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Datetime.Equal(matched[j].Datetime) {
			return matched[i].Datetime.Before(matched[j].Datetime)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	offset := (f.Page - 1) * f.Limit
	if offset >= total {
		return []models.Appointment{}, total, nil
	}
	end := offset + f.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// memAvailabilityRepo is an in-memory AvailabilityRepository.
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

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []models.NotificationPayload
	reminders     []models.ReminderPayload
	reminderTimes []time.Time
}

func (n *recordingNotifier) NotifyStatusChange(ctx context.Context, payload models.NotificationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, payload)
	return nil
}

func (n *recordingNotifier) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, payload)
	n.reminderTimes = append(n.reminderTimes, fireAt)
	return nil
}
