package models

import "time"

// ActorRole is the role the external auth layer resolved for the caller.
type ActorRole string

const (
	RoleClient   ActorRole = "client"
	RoleProvider ActorRole = "provider"
)

// Timeframe selects appointments relative to the current instant.
type Timeframe string

const (
	TimeframeAll      Timeframe = "all"
	TimeframeUpcoming Timeframe = "upcoming"
	TimeframePast     Timeframe = "past"
)

// AppointmentFilter narrows an appointment listing. StartDate and EndDate
// bound Datetime inclusively when non-zero. Status "all" (or empty) matches
// every lifecycle state.
type AppointmentFilter struct {
	Timeframe Timeframe
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
	Page      int
	Limit     int
}

// Pagination describes an offset-paginated result set. Page is 1-indexed.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// AppointmentPage is one page of a filtered appointment listing.
type AppointmentPage struct {
	Appointments []Appointment `json:"appointments"`
	Pagination   Pagination    `json:"pagination"`
}
