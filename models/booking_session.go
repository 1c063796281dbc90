package models

// BookingStep identifies the workflow step a session is currently on. Each
// step owns the fields collected on it; Back discards only those.
type BookingStep string

const (
	StepSelectingDate   BookingStep = "selecting_date"
	StepSelectingTime   BookingStep = "selecting_time"
	StepEnteringDetails BookingStep = "entering_details"
	StepConfirming      BookingStep = "confirming"
	StepSubmitted       BookingStep = "submitted"
	StepFailed          BookingStep = "failed"
)

// BookingDraft is the in-progress reservation being assembled by one
// workflow session. It lives only inside the session and is destroyed with
// it; nothing is persisted until the confirm step reserves the slot.
type BookingDraft struct {
	ProviderID   string        `json:"providerId"`
	SelectedDate string        `json:"selectedDate,omitempty"`
	SelectedSlot *BookableSlot `json:"selectedSlot,omitempty"`
	MeetingType  MeetingType   `json:"meetingType,omitempty"`
	Location     string        `json:"location,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// BookingSession holds one client's guided booking flow between steps. It is
// cached as a JSON document keyed by SessionID and expires if abandoned.
type BookingSession struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`

	Step  BookingStep  `json:"step"`
	Draft BookingDraft `json:"draft"`

	// Days is the expansion snapshot offered on the date step; Candidates
	// are the chosen day's slots offered on the time step.
	Days       []DaySlots     `json:"days,omitempty"`
	Candidates []BookableSlot `json:"candidates,omitempty"`

	// Error carries the last step-local validation message, if any.
	Error string `json:"error,omitempty"`
}

// BookingSessionResponse is the handler-facing view of a session after a
// step transition.
type BookingSessionResponse struct {
	SessionID    string         `json:"sessionId"`
	Step         BookingStep    `json:"step"`
	Days         []DaySlots     `json:"days,omitempty"`
	Candidates   []BookableSlot `json:"candidates,omitempty"`
	Draft        BookingDraft   `json:"draft"`
	Appointment  *Appointment   `json:"appointment,omitempty"`
	ErrorMessage string         `json:"error,omitempty"`
}
