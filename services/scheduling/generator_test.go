package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDaySlotsHourly(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	slots := GenerateDaySlots(day, []Window{{Start: 540, End: 1020}}, 60)

	require.Len(t, slots, 8)
	for i, s := range slots {
		assert.Equal(t, 9+i, s.Start.Hour())
		assert.Equal(t, 0, s.Start.Minute())
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
	}
	assert.Equal(t, 16, slots[len(slots)-1].Start.Hour())
}

func TestGenerateDaySlotsLongServiceStillStepsHourly(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	slots := GenerateDaySlots(day, []Window{{Start: 540, End: 720}}, 90)

	require.Len(t, slots, 2)
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 10, slots[1].Start.Hour())
	assert.Equal(t, time.Date(2024, 1, 1, 11, 30, 0, 0, time.UTC), slots[1].End)
}

func TestGenerateDaySlotsStaysInsideWindows(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	open := []Window{{Start: 480, End: 610}, {Start: 780, End: 1000}, {Start: 1200, End: 1230}}

	for _, duration := range []int{30, 45, 60, 90, 120} {
		for _, s := range GenerateDaySlots(day, open, duration) {
			assert.Equal(t, time.Duration(duration)*time.Minute, s.End.Sub(s.Start))
			assert.True(t, WithinOpen(s, open), "slot %v-%v for %d minutes", s.Start, s.End, duration)
		}
	}
}

func TestGenerateDaySlotsNoFit(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, GenerateDaySlots(day, []Window{{Start: 540, End: 570}}, 60))
	assert.Empty(t, GenerateDaySlots(day, []Window{{Start: 540, End: 1020}}, 0))
	assert.Empty(t, GenerateDaySlots(day, nil, 60))
}

func TestDateRange(t *testing.T) {
	days, err := DateRange("2024-02-27", "2024-03-01", 31, time.UTC)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, "2024-02-29", days[2].Format(DateLayout))

	days, err = DateRange("2024-01-01", "2024-01-01", 31, time.UTC)
	require.NoError(t, err)
	assert.Len(t, days, 1)

	_, err = DateRange("2024-01-02", "2024-01-01", 31, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = DateRange("2024-01-01", "2024-03-01", 31, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = DateRange("01-01-2024", "2024-03-01", 31, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
