package models

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// BookableSlot is one concrete, dated window a client can reserve. It is
// derived from the weekly template on every query and never persisted; once
// reserved it is realized as the Datetime on an Appointment.
type BookableSlot struct {
	Date         string        `json:"date"` // "2006-01-02"
	Start        int           `json:"start"`
	End          int           `json:"end"`
	MeetingTypes []MeetingType `json:"meetingTypes"`
	Booked       bool          `json:"booked"`
}

// Datetime combines the slot's date and start minute into a UTC instant.
func (s BookableSlot) Datetime() (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s.Date, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(s.Start) * time.Minute), nil
}

// Duration is the slot length in minutes.
func (s BookableSlot) Duration() int {
	return s.End - s.Start
}

// DaySlots groups the bookable slots of one calendar date.
type DaySlots struct {
	Date  string         `json:"date"`
	Slots []BookableSlot `json:"slots"`
}

// HasOpenSlot reports whether at least one slot on the day is unbooked.
func (d DaySlots) HasOpenSlot() bool {
	for _, s := range d.Slots {
		if !s.Booked {
			return true
		}
	}
	return false
}
