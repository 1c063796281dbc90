package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	appointmentRepo "carelink/database/repository/appointment"
	availabilityRepo "carelink/database/repository/availability"
	"carelink/models"
)

// SlotExpansionEngine turns a provider's recurring weekly template into a
// bounded horizon of concrete, dated slots. Expansion is a pure computation
// over the template plus a read of current slot occupancy; it has no side
// effects and is safe to call repeatedly.
type SlotExpansionEngine struct {
	Availability availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
}

// ExpandTemplate emits, for every weekday present in the template, its next
// horizonWeeks dated occurrences on or after today (date part only). Days
// are ordered by date, slots within a day by start minute. Booked flags are
// left false; Expand annotates them.
func ExpandTemplate(template *models.WeeklyAvailability, today time.Time, horizonWeeks int) []models.DaySlots {
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var days []models.DaySlots
	for weekday, templates := range template.Days {
		if len(templates) == 0 {
			continue
		}

		// First occurrence of this weekday on or after today.
		offset := (int(weekday) - int(todayDate.Weekday()) + 7) % 7
		first := todayDate.AddDate(0, 0, offset)

		sorted := make([]models.TimeSlotTemplate, len(templates))
		copy(sorted, templates)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

		for week := 0; week < horizonWeeks; week++ {
			date := first.AddDate(0, 0, 7*week)
			day := models.DaySlots{Date: date.Format(models.DateLayout)}
			for _, ts := range sorted {
				day.Slots = append(day.Slots, models.BookableSlot{
					Date:         day.Date,
					Start:        ts.Start,
					End:          ts.End,
					MeetingTypes: ts.MeetingTypes,
				})
			}
			days = append(days, day)
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// Expand loads the provider's template, expands it over the horizon, and
// marks every slot whose exact (provider, datetime) is held by an active
// appointment as booked.
func (e *SlotExpansionEngine) Expand(ctx context.Context, providerID string, horizonWeeks int, today time.Time) ([]models.DaySlots, error) {
	template, err := e.Availability.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "provider availability", ID: providerID}
		}
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	days := ExpandTemplate(template, today, horizonWeeks)
	if len(days) == 0 {
		return days, nil
	}

	from, err := time.ParseInLocation(models.DateLayout, days[0].Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expansion start date: %w", err)
	}
	last, err := time.ParseInLocation(models.DateLayout, days[len(days)-1].Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expansion end date: %w", err)
	}
	to := last.AddDate(0, 0, 1)

	taken, err := e.Appointments.ActiveSlotTimes(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot occupancy: %w", err)
	}

	for di := range days {
		for si := range days[di].Slots {
			dt, err := days[di].Slots[si].Datetime()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve slot datetime: %w", err)
			}
			days[di].Slots[si].Booked = taken[dt.Unix()]
		}
	}
	return days, nil
}
