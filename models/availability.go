package models

import (
	"fmt"
	"sort"
	"time"
)

// TimeSlotTemplate is one recurring window inside a weekday's schedule.
// Start and End are minutes from midnight (e.g., 600 for 10:00 AM).
type TimeSlotTemplate struct {
	Start        int           `bson:"start" json:"start"`
	End          int           `bson:"end" json:"end"`
	MeetingTypes []MeetingType `bson:"meeting_types" json:"meetingTypes"`
}

// WeeklyAvailability is a provider's recurring weekly schedule: weekday →
// ordered, non-overlapping slot templates. It carries no booking state.
type WeeklyAvailability struct {
	ProviderID string                              `bson:"provider_id" json:"providerId"`
	Days       map[time.Weekday][]TimeSlotTemplate `bson:"days" json:"days"`
	UpdatedAt  time.Time                           `bson:"updated_at" json:"updatedAt"`
}

// Validate checks slot templates for well-formed bounds, known meeting types,
// and the no-overlap invariant within each day.
func (w WeeklyAvailability) Validate() error {
	for day, slots := range w.Days {
		sorted := make([]TimeSlotTemplate, len(slots))
		copy(sorted, slots)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

		for i, ts := range sorted {
			if ts.Start < 0 || ts.End > 24*60 || ts.Start >= ts.End {
				return fmt.Errorf("invalid slot bounds [%d, %d] on %s", ts.Start, ts.End, day)
			}
			if len(ts.MeetingTypes) == 0 {
				return fmt.Errorf("slot [%d, %d] on %s has no meeting types", ts.Start, ts.End, day)
			}
			for _, mt := range ts.MeetingTypes {
				if !ValidMeetingType(mt) {
					return fmt.Errorf("unknown meeting type %q on %s", mt, day)
				}
			}
			if i > 0 && ts.Start < sorted[i-1].End {
				return fmt.Errorf("overlapping slots [%d, %d] and [%d, %d] on %s",
					sorted[i-1].Start, sorted[i-1].End, ts.Start, ts.End, day)
			}
		}
	}
	return nil
}
