package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carelink/models"
	"carelink/services/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (w *DefaultBookingWorkflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// StartSession expands the provider's availability and opens a new session
// on the date-selection step.
func (w *DefaultBookingWorkflow) StartSession(ctx context.Context, clientID, providerID string) (*models.BookingSessionResponse, error) {
	days, err := w.Expander.Expand(ctx, providerID, w.HorizonWeeks, w.now())
	if err != nil {
		return nil, err
	}

	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		ClientID:  clientID,
		Step:      models.StepSelectingDate,
		Draft:     models.BookingDraft{ProviderID: providerID},
		Days:      days,
	}
	if err := w.saveSession(ctx, session); err != nil {
		return nil, err
	}

	w.Logger.Debug("booking session started",
		zap.String("session", session.SessionID),
		zap.String("provider", providerID))
	return response(session), nil
}

// SelectDate moves selecting_date → selecting_time. The chosen date must be
// one of the offered days and have at least one open slot; otherwise the
// session stays on the date step with a validation error.
func (w *DefaultBookingWorkflow) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSessionResponse, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepSelectingDate {
		return nil, &scheduling.ValidationError{Field: "step", Message: fmt.Sprintf("cannot select a date while on %s", session.Step)}
	}

	var day *models.DaySlots
	for i := range session.Days {
		if session.Days[i].Date == date {
			day = &session.Days[i]
			break
		}
	}
	if day == nil || !day.HasOpenSlot() {
		session.Error = fmt.Sprintf("date %s is not available", date)
		if err := w.saveSession(ctx, session); err != nil {
			return nil, err
		}
		return response(session), &scheduling.ValidationError{Field: "date", Message: session.Error}
	}

	session.Draft.SelectedDate = date
	session.Candidates = day.Slots
	session.Step = models.StepSelectingTime
	session.Error = ""
	if err := w.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return response(session), nil
}

// SelectTime moves selecting_time → entering_details. The chosen slot must
// be an unbooked candidate; the draft's meeting type defaults to the slot's
// first available type.
func (w *DefaultBookingWorkflow) SelectTime(ctx context.Context, sessionID string, start int) (*models.BookingSessionResponse, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepSelectingTime {
		return nil, &scheduling.ValidationError{Field: "step", Message: fmt.Sprintf("cannot select a time while on %s", session.Step)}
	}

	var slot *models.BookableSlot
	for i := range session.Candidates {
		if session.Candidates[i].Start == start {
			slot = &session.Candidates[i]
			break
		}
	}
	if slot == nil || slot.Booked || len(slot.MeetingTypes) == 0 {
		session.Error = "the selected time is not available"
		if err := w.saveSession(ctx, session); err != nil {
			return nil, err
		}
		return response(session), &scheduling.ValidationError{Field: "start", Message: session.Error}
	}

	chosen := *slot
	session.Draft.SelectedSlot = &chosen
	session.Draft.MeetingType = chosen.MeetingTypes[0]
	session.Step = models.StepEnteringDetails
	session.Error = ""
	if err := w.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return response(session), nil
}

// EnterDetails moves entering_details → confirming. An in-person meeting
// needs a non-empty location; a failed check keeps the session on the
// details step and surfaces the validation error.
func (w *DefaultBookingWorkflow) EnterDetails(ctx context.Context, sessionID string, in DetailsInput) (*models.BookingSessionResponse, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepEnteringDetails {
		return nil, &scheduling.ValidationError{Field: "step", Message: fmt.Sprintf("cannot enter details while on %s", session.Step)}
	}

	if verr := w.validateDetails(session, in); verr != nil {
		session.Error = verr.Message
		if err := w.saveSession(ctx, session); err != nil {
			return nil, err
		}
		return response(session), verr
	}

	session.Draft.MeetingType = in.MeetingType
	if in.MeetingType == models.MeetingInPerson {
		session.Draft.Location = strings.TrimSpace(in.Location)
	} else {
		session.Draft.Location = ""
	}
	session.Draft.Notes = strings.TrimSpace(in.Notes)
	session.Step = models.StepConfirming
	session.Error = ""
	if err := w.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return response(session), nil
}

func (w *DefaultBookingWorkflow) validateDetails(session *models.BookingSession, in DetailsInput) *scheduling.ValidationError {
	if !models.ValidMeetingType(in.MeetingType) {
		return &scheduling.ValidationError{Field: "meetingType", Message: fmt.Sprintf("unknown meeting type %q", in.MeetingType)}
	}
	offered := false
	if session.Draft.SelectedSlot != nil {
		for _, mt := range session.Draft.SelectedSlot.MeetingTypes {
			if mt == in.MeetingType {
				offered = true
				break
			}
		}
	}
	if !offered {
		return &scheduling.ValidationError{Field: "meetingType", Message: fmt.Sprintf("meeting type %q is not offered for this slot", in.MeetingType)}
	}
	if in.MeetingType == models.MeetingInPerson && strings.TrimSpace(in.Location) == "" {
		return &scheduling.ValidationError{Field: "location", Message: "location is required for in-person meetings"}
	}
	return nil
}

// Back steps one state backward, discarding only the data collected in the
// step being left. It has no side effects.
func (w *DefaultBookingWorkflow) Back(ctx context.Context, sessionID string) (*models.BookingSessionResponse, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepSelectingTime:
		session.Draft.SelectedDate = ""
		session.Candidates = nil
		session.Step = models.StepSelectingDate
	case models.StepEnteringDetails:
		session.Draft.SelectedSlot = nil
		session.Draft.MeetingType = ""
		session.Step = models.StepSelectingTime
	case models.StepConfirming:
		session.Draft.MeetingType = ""
		session.Draft.Location = ""
		session.Draft.Notes = ""
		if session.Draft.SelectedSlot != nil && len(session.Draft.SelectedSlot.MeetingTypes) > 0 {
			session.Draft.MeetingType = session.Draft.SelectedSlot.MeetingTypes[0]
		}
		session.Step = models.StepEnteringDetails
	default:
		return nil, &scheduling.ValidationError{Field: "step", Message: fmt.Sprintf("cannot go back from %s", session.Step)}
	}

	session.Error = ""
	if err := w.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return response(session), nil
}

// Confirm submits the draft. Success finalizes the session; a slot conflict
// sends the workflow back to the time step with a refreshed slot list so the
// client can pick again.
func (w *DefaultBookingWorkflow) Confirm(ctx context.Context, sessionID string) (*models.BookingSessionResponse, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepConfirming {
		return nil, &scheduling.ValidationError{Field: "step", Message: fmt.Sprintf("cannot confirm while on %s", session.Step)}
	}
	if session.Draft.SelectedSlot == nil {
		return nil, &scheduling.ValidationError{Field: "slot", Message: "no slot selected"}
	}

	slot := *session.Draft.SelectedSlot
	datetime, err := slot.Datetime()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slot datetime: %w", err)
	}

	appt, rerr := w.Store.Reserve(ctx, scheduling.ReserveInput{
		ProviderID:  session.Draft.ProviderID,
		ClientID:    session.ClientID,
		Datetime:    datetime,
		Duration:    slot.Duration(),
		MeetingType: session.Draft.MeetingType,
		Location:    session.Draft.Location,
		Notes:       session.Draft.Notes,
	})
	if rerr == nil {
		if err := w.deleteSession(ctx, sessionID); err != nil {
			w.Logger.Warn("failed to clear submitted session", zap.String("session", sessionID), zap.Error(err))
		}
		resp := response(session)
		resp.Step = models.StepSubmitted
		resp.Appointment = appt
		return resp, nil
	}

	var conflict *scheduling.ConflictError
	if errors.As(rerr, &conflict) {
		// The slot raced away. Refresh availability and put the client back
		// on the time step.
		if ferr := w.refreshAfterConflict(ctx, session); ferr != nil {
			w.Logger.Warn("failed to refresh slots after conflict", zap.String("session", sessionID), zap.Error(ferr))
		}
		session.Step = models.StepSelectingTime
		session.Draft.SelectedSlot = nil
		session.Draft.MeetingType = ""
		session.Error = conflict.Reason
		if err := w.saveSession(ctx, session); err != nil {
			return nil, err
		}
		return response(session), conflict
	}

	var validation *scheduling.ValidationError
	if errors.As(rerr, &validation) {
		return nil, validation
	}

	// Storage-layer failure: the workflow cannot proceed.
	session.Step = models.StepFailed
	session.Error = "booking could not be submitted"
	if err := w.saveSession(ctx, session); err != nil {
		w.Logger.Warn("failed to persist failed session", zap.String("session", sessionID), zap.Error(err))
	}
	return nil, fmt.Errorf("booking submission failed: %w", rerr)
}

func (w *DefaultBookingWorkflow) refreshAfterConflict(ctx context.Context, session *models.BookingSession) error {
	days, err := w.Expander.Expand(ctx, session.Draft.ProviderID, w.HorizonWeeks, w.now())
	if err != nil {
		return err
	}
	session.Days = days
	session.Candidates = nil
	for i := range days {
		if days[i].Date == session.Draft.SelectedDate {
			session.Candidates = days[i].Slots
			break
		}
	}
	return nil
}

// Abandon discards the session. No partial state survives.
func (w *DefaultBookingWorkflow) Abandon(ctx context.Context, sessionID string) error {
	return w.deleteSession(ctx, sessionID)
}
