package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/models"
)

func mondayNineToFive() models.Availability {
	return models.Availability{
		WeeklySchedule: []models.DaySchedule{
			{Day: "Monday", Active: true, Slots: []models.TimeSlot{{Start: "09:00", End: "17:00"}}},
			{Day: "Tuesday", Active: false, Slots: []models.TimeSlot{{Start: "09:00", End: "17:00"}}},
		},
	}
}

// 2024-01-01 is a Monday.
const monday = "2024-01-01"

func TestEvaluateOpenDay(t *testing.T) {
	got, err := Evaluate(mondayNineToFive(), monday, "Monday")
	require.NoError(t, err)
	assert.Equal(t, []Window{{Start: 540, End: 1020}}, got.Open)
	assert.Empty(t, got.Busy)
}

func TestEvaluateClosedDates(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.Availability)
		date    string
		weekday string
	}{
		{
			name: "leave covers date",
			mutate: func(av *models.Availability) {
				av.LeavePeriods = []models.LeavePeriod{{From: monday, To: monday}}
			},
			date: monday, weekday: "Monday",
		},
		{
			name: "leave spans date",
			mutate: func(av *models.Availability) {
				av.LeavePeriods = []models.LeavePeriod{{From: "2023-12-20", To: "2024-01-05"}}
			},
			date: monday, weekday: "Monday",
		},
		{
			name: "unavailable override",
			mutate: func(av *models.Availability) {
				av.DateOverrides = []models.DateOverride{{Date: monday, IsUnavailable: true}}
			},
			date: monday, weekday: "Monday",
		},
		{
			name:   "inactive weekday",
			mutate: func(*models.Availability) {},
			date:   "2024-01-02", weekday: "Tuesday",
		},
		{
			name:   "missing weekday",
			mutate: func(*models.Availability) {},
			date:   "2024-01-03", weekday: "Wednesday",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			av := mondayNineToFive()
			tc.mutate(&av)
			got, err := Evaluate(av, tc.date, tc.weekday)
			require.NoError(t, err)
			assert.True(t, got.Closed())

			day, err := ParseDate(tc.date, time.UTC)
			require.NoError(t, err)
			assert.Empty(t, FreeSlotsForDay(day, got, 60, nil, time.Time{}))
		})
	}
}

func TestEvaluateLeaveBoundsInclusive(t *testing.T) {
	av := mondayNineToFive()
	av.LeavePeriods = []models.LeavePeriod{{From: "2024-01-02", To: "2024-01-08"}}

	got, err := Evaluate(av, monday, "Monday")
	require.NoError(t, err)
	assert.False(t, got.Closed())

	got, err = Evaluate(av, "2024-01-08", "Monday")
	require.NoError(t, err)
	assert.True(t, got.Closed())
}

func TestEvaluateOverrideBusySlots(t *testing.T) {
	av := mondayNineToFive()
	av.DateOverrides = []models.DateOverride{
		{Date: "2024-01-08", IsUnavailable: true},
		{Date: monday, BusySlots: []models.TimeSlot{{Start: "12:00", End: "13:00"}}},
	}

	got, err := Evaluate(av, monday, "Monday")
	require.NoError(t, err)
	assert.Equal(t, []Window{{Start: 540, End: 1020}}, got.Open)
	assert.Equal(t, []Window{{Start: 720, End: 780}}, got.Busy)
}

func TestEvaluateSortsWindowsAndMatchesDayCaseInsensitively(t *testing.T) {
	av := models.Availability{
		WeeklySchedule: []models.DaySchedule{{
			Day:    "monday",
			Active: true,
			Slots: []models.TimeSlot{
				{Start: "14:00", End: "18:00"},
				{Start: "08:00", End: "12:00"},
			},
		}},
	}
	got, err := EvaluateDate(av, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []Window{{Start: 480, End: 720}, {Start: 840, End: 1080}}, got.Open)
}

func TestEvaluateRejectsMalformedSlots(t *testing.T) {
	av := mondayNineToFive()
	av.WeeklySchedule[0].Slots = []models.TimeSlot{{Start: "nine", End: "17:00"}}
	_, err := Evaluate(av, monday, "Monday")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}
