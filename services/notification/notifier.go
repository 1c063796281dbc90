package notification

import (
	"context"
	"fmt"
	"time"

	"carelink/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqNotificationService enqueues notification work onto the redis-backed
// task queue; the cron worker picks it up.
type AsynqNotificationService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqNotificationService(redisOpts asynq.RedisClientOpt, logger *zap.Logger) *AsynqNotificationService {
	return &AsynqNotificationService{
		Client: asynq.NewClient(redisOpts),
		Logger: logger,
	}
}

func (s *AsynqNotificationService) NotifyStatusChange(ctx context.Context, payload models.NotificationPayload) error {
	task, err := NewStatusChangeTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build status-change task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue status-change task: %w", err)
	}
	s.Logger.Debug("status-change task enqueued",
		zap.String("taskId", info.ID),
		zap.String("appointment", payload.AppointmentID))
	return nil
}

func (s *AsynqNotificationService) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	s.Logger.Debug("reminder scheduled",
		zap.String("taskId", info.ID),
		zap.String("appointment", payload.AppointmentID),
		zap.Time("fireAt", fireAt))
	return nil
}
