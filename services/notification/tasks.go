package notification

import (
	"encoding/json"
	"time"

	"carelink/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder       = "reminder:send"
	TypeNotifyStatusChange = "notify:status"
)

// NewReminderTask builds an asynq task that fires at the given instant.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// NewStatusChangeTask builds an asynq task for immediate delivery.
func NewStatusChangeTask(payload models.NotificationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotifyStatusChange, b), nil
}
