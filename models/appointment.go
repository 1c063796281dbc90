package models

import "time"

// AppointmentStatus enumerates the lifecycle states of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ActiveStatuses are the statuses that keep a slot occupied. Rejected and
// cancelled appointments release their slot.
var ActiveStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

// Terminal reports whether no further transition is allowed out of s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// MeetingType is how the appointment takes place.
type MeetingType string

const (
	MeetingVideo    MeetingType = "video"
	MeetingPhone    MeetingType = "phone"
	MeetingInPerson MeetingType = "inPerson"
)

// ValidMeetingType reports whether t is one of the known meeting types.
func ValidMeetingType(t MeetingType) bool {
	switch t {
	case MeetingVideo, MeetingPhone, MeetingInPerson:
		return true
	}
	return false
}

// Appointment is the persistent system-of-record entity for a reservation.
// Datetime is stored as an absolute UTC instant; Duration is minutes.
type Appointment struct {
	ID                 string            `bson:"id" json:"id"`
	ProviderID         string            `bson:"provider_id" json:"providerId"`
	ClientID           string            `bson:"client_id" json:"clientId"`
	Datetime           time.Time         `bson:"datetime" json:"datetime"`
	Duration           int               `bson:"duration" json:"duration"`
	MeetingType        MeetingType       `bson:"meeting_type" json:"meetingType"`
	Location           string            `bson:"location,omitempty" json:"location,omitempty"`
	Notes              string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Status             AppointmentStatus `bson:"status" json:"status"`
	CancellationReason string            `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	MeetingLink        string            `bson:"meeting_link,omitempty" json:"meetingLink,omitempty"`
	CreatedAt          time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time         `bson:"updated_at" json:"updatedAt"`
}

// End returns the instant the appointment finishes.
func (a Appointment) End() time.Time {
	return a.Datetime.Add(time.Duration(a.Duration) * time.Minute)
}

// Past reports whether the appointment has already finished. Display-only;
// never persisted.
func (a Appointment) Past(now time.Time) bool {
	return now.After(a.End())
}

// JoinWindow is how long before the start a video/phone meeting opens.
const JoinWindow = 15 * time.Minute

// Joinable reports whether the meeting can be joined right now: from 15
// minutes before the start until the scheduled end. Computed live at query
// time, never stored.
func (a Appointment) Joinable(now time.Time) bool {
	if a.Status != StatusConfirmed {
		return false
	}
	return !now.Before(a.Datetime.Add(-JoinWindow)) && !now.After(a.End())
}
