package scheduling

import (
	"context"
	"testing"
	"time"

	"carelink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayTemplate(providerID string) *models.WeeklyAvailability {
	return &models.WeeklyAvailability{
		ProviderID: providerID,
		Days: map[time.Weekday][]models.TimeSlotTemplate{
			time.Monday: {
				{Start: 600, End: 630, MeetingTypes: []models.MeetingType{models.MeetingVideo}},
				{Start: 630, End: 660, MeetingTypes: []models.MeetingType{models.MeetingVideo, models.MeetingPhone}},
			},
		},
	}
}

func TestExpandTemplateNextFourMondays(t *testing.T) {
	// 2025-03-04 is a Tuesday, so the first Monday occurrence is the 10th.
	today := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)

	days := ExpandTemplate(mondayTemplate("prov-1"), today, 4)

	require.Len(t, days, 4)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, "2025-03-17", days[1].Date)
	assert.Equal(t, "2025-03-24", days[2].Date)
	assert.Equal(t, "2025-03-31", days[3].Date)

	for _, day := range days {
		require.Len(t, day.Slots, 2)
		assert.Equal(t, 600, day.Slots[0].Start)
		assert.Equal(t, 630, day.Slots[1].Start)
		for _, slot := range day.Slots {
			assert.Equal(t, day.Date, slot.Date)
			assert.False(t, slot.Booked)
		}
	}
}

func TestExpandTemplateIncludesTodayWhenWeekdayMatches(t *testing.T) {
	// 2025-03-03 is a Monday.
	today := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)

	days := ExpandTemplate(mondayTemplate("prov-1"), today, 2)

	require.Len(t, days, 2)
	assert.Equal(t, "2025-03-03", days[0].Date)
	assert.Equal(t, "2025-03-10", days[1].Date)
}

func TestExpandTemplateOrdersDaysAndSlots(t *testing.T) {
	template := &models.WeeklyAvailability{
		ProviderID: "prov-1",
		Days: map[time.Weekday][]models.TimeSlotTemplate{
			time.Friday: {
				{Start: 840, End: 870, MeetingTypes: []models.MeetingType{models.MeetingPhone}},
				{Start: 540, End: 570, MeetingTypes: []models.MeetingType{models.MeetingPhone}},
			},
			time.Wednesday: {
				{Start: 600, End: 660, MeetingTypes: []models.MeetingType{models.MeetingVideo}},
			},
		},
	}
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday

	days := ExpandTemplate(template, today, 2)

	require.Len(t, days, 4)
	var prev string
	for _, day := range days {
		assert.Greater(t, day.Date, prev)
		prev = day.Date

		for i := 1; i < len(day.Slots); i++ {
			assert.Less(t, day.Slots[i-1].Start, day.Slots[i].Start)
		}
	}
	assert.Equal(t, "2025-03-05", days[0].Date)
	assert.Equal(t, "2025-03-07", days[1].Date)
}

func TestExpandTemplateSkipsEmptyWeekdays(t *testing.T) {
	template := &models.WeeklyAvailability{
		ProviderID: "prov-1",
		Days: map[time.Weekday][]models.TimeSlotTemplate{
			time.Monday:  {},
			time.Tuesday: {{Start: 600, End: 630, MeetingTypes: []models.MeetingType{models.MeetingVideo}}},
		},
	}
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	days := ExpandTemplate(template, today, 3)

	require.Len(t, days, 3)
	for _, day := range days {
		date, err := time.ParseInLocation(models.DateLayout, day.Date, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Tuesday, date.Weekday())
	}
}

func TestExpandMarksReservedSlotsBooked(t *testing.T) {
	ctx := context.Background()
	availRepo := newMemAvailabilityRepo()
	apptRepo := newMemAppointmentRepo()
	require.NoError(t, availRepo.Set(ctx, mondayTemplate("prov-1")))

	// Occupy the 10:00 slot on the first Monday.
	taken := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, apptRepo.Reserve(ctx, &models.Appointment{
		ID:         "appt-1",
		ProviderID: "prov-1",
		ClientID:   "client-1",
		Datetime:   taken,
		Duration:   30,
		Status:     models.StatusPending,
	}))

	engine := &SlotExpansionEngine{Availability: availRepo, Appointments: apptRepo}
	today := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	days, err := engine.Expand(ctx, "prov-1", 2, today)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.True(t, days[0].Slots[0].Booked)
	assert.False(t, days[0].Slots[1].Booked)
	assert.False(t, days[1].Slots[0].Booked)
	assert.False(t, days[1].Slots[1].Booked)
}

func TestExpandIgnoresReleasedSlots(t *testing.T) {
	ctx := context.Background()
	availRepo := newMemAvailabilityRepo()
	apptRepo := newMemAppointmentRepo()
	require.NoError(t, availRepo.Set(ctx, mondayTemplate("prov-1")))

	require.NoError(t, apptRepo.Reserve(ctx, &models.Appointment{
		ID:         "appt-1",
		ProviderID: "prov-1",
		ClientID:   "client-1",
		Datetime:   time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		Duration:   30,
		Status:     models.StatusCancelled,
	}))

	engine := &SlotExpansionEngine{Availability: availRepo, Appointments: apptRepo}
	today := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	days, err := engine.Expand(ctx, "prov-1", 1, today)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.False(t, days[0].Slots[0].Booked)
}

func TestExpandUnknownProvider(t *testing.T) {
	engine := &SlotExpansionEngine{
		Availability: newMemAvailabilityRepo(),
		Appointments: newMemAppointmentRepo(),
	}

	_, err := engine.Expand(context.Background(), "nobody", 4, time.Now())

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody", nf.ID)
}
