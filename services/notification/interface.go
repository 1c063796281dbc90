package notification

import (
	"context"
	"time"

	"carelink/models"
)

// NotificationService delivers status-change notices and schedules
// appointment reminders. Delivery to the actual device channel is handled
// outside this system; implementations only have to hand the payload off.
type NotificationService interface {
	NotifyStatusChange(ctx context.Context, payload models.NotificationPayload) error
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}
