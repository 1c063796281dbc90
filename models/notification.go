package models

// NotificationPayload describes a status-change notification for one actor.
type NotificationPayload struct {
	Target        string `json:"target"` // "client" or "provider"
	ID            string `json:"id"`
	AppointmentID string `json:"appointmentId"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}

// ReminderPayload describes a scheduled appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	Target        string `json:"target"`
	ID            string `json:"id"`
	FireDate      string `json:"fireDate"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}
