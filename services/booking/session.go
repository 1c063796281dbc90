package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"carelink/models"
	"carelink/services/scheduling"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "booking:session:"

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (w *DefaultBookingWorkflow) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := w.Cache.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &scheduling.NotFoundError{Resource: "booking session", ID: sessionID}
		}
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (w *DefaultBookingWorkflow) saveSession(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := w.Cache.Set(ctx, sessionKey(session.SessionID), data, w.SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (w *DefaultBookingWorkflow) deleteSession(ctx context.Context, sessionID string) error {
	if err := w.Cache.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}

func response(session *models.BookingSession) *models.BookingSessionResponse {
	return &models.BookingSessionResponse{
		SessionID:    session.SessionID,
		Step:         session.Step,
		Days:         session.Days,
		Candidates:   session.Candidates,
		Draft:        session.Draft,
		ErrorMessage: session.Error,
	}
}
