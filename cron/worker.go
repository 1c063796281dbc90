package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"carelink/config"
	appointmentRepo "carelink/database/repository/appointment"
	"carelink/models"
	"carelink/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the async worker in background. It delivers
// status-change notices and fires scheduled reminders.
func InitNotificationWorker(repo appointmentRepo.AppointmentRepository, logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeSendReminder, handleReminderTask(repo, logger))
	mux.HandleFunc(notification.TypeNotifyStatusChange, handleStatusChangeTask(logger))

	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask fires an appointment reminder. The appointment status
// is re-read at fire time: a reminder for an appointment that was cancelled
// or rejected after scheduling is a no-op.
func handleReminderTask(repo appointmentRepo.AppointmentRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		appt, err := repo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				logger.Warn("reminder for unknown appointment", zap.String("appointment", p.AppointmentID))
				return nil
			}
			return err
		}
		if appt.Status != models.StatusConfirmed {
			logger.Debug("skipping reminder, appointment no longer confirmed",
				zap.String("appointment", p.AppointmentID),
				zap.String("status", string(appt.Status)))
			return nil
		}

		// Delivery to the device channel happens outside this system; hand
		// the payload to the log sink the external relay tails.
		logger.Info("reminder fired",
			zap.String("target", p.Target),
			zap.String("recipient", p.ID),
			zap.String("appointment", p.AppointmentID),
			zap.String("title", p.Title),
			zap.String("body", p.Body))
		return nil
	}
}

func handleStatusChangeTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			return err
		}

		logger.Info("status notification delivered",
			zap.String("target", p.Target),
			zap.String("recipient", p.ID),
			zap.String("appointment", p.AppointmentID),
			zap.String("title", p.Title),
			zap.String("body", p.Body))
		return nil
	}
}
