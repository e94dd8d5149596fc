package scheduling

import (
	"time"

	"go.uber.org/zap"

	"marketplace/models"
)

// DurationFunc yields the duration in minutes to assume for an existing
// booking, typically its persisted duration or its service's duration.
type DurationFunc func(models.Booking) int

// PersistedOr returns a DurationFunc that uses the booking's own duration
// and falls back to fallback minutes when none was persisted.
func PersistedOr(fallback int) DurationFunc {
	return func(b models.Booking) int {
		if b.Duration > 0 {
			return b.Duration
		}
		return fallback
	}
}

// BookingIntervals converts the blocking bookings among bookings into
// intervals. Bookings in a terminal status are skipped, and so are bookings
// whose date or time cannot be parsed (logged).
func BookingIntervals(bookings []models.Booking, duration DurationFunc, loc *time.Location) []Interval {
	out := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.Status.Blocking() {
			continue
		}
		iv, err := SlotBounds(b.ScheduledDate, b.ScheduledTime, duration(b), loc)
		if err != nil {
			zap.L().Warn("skipping booking with unparseable schedule",
				zap.String("bookingID", b.ID),
				zap.String("date", b.ScheduledDate),
				zap.String("time", b.ScheduledTime),
				zap.Error(err))
			continue
		}
		out = append(out, iv)
	}
	return out
}

// BusyIntervals places override busy windows on day.
func BusyIntervals(day time.Time, busy []Window) []Interval {
	out := make([]Interval, 0, len(busy))
	for _, w := range busy {
		out = append(out, Interval{Start: atMinutes(day, w.Start), End: atMinutes(day, w.End)})
	}
	return out
}

// IsSlotFree reports whether slot overlaps none of the blocked intervals.
func IsSlotFree(slot Interval, blocked ...[]Interval) bool {
	for _, set := range blocked {
		for _, b := range set {
			if slot.Overlaps(b) {
				return false
			}
		}
	}
	return true
}

// FilterSlots keeps the candidates that overlap neither a booking nor an
// override busy window.
func FilterSlots(candidates, booked, busy []Interval) []Interval {
	free := make([]Interval, 0, len(candidates))
	for _, c := range candidates {
		if IsSlotFree(c, booked, busy) {
			free = append(free, c)
		}
	}
	return free
}

// WithinOpen reports whether slot lies entirely inside one open window of its day.
func WithinOpen(slot Interval, open []Window) bool {
	for _, w := range open {
		ws := atMinutes(slot.Start, w.Start)
		we := atMinutes(slot.Start, w.End)
		if !slot.Start.Before(ws) && !slot.End.After(we) {
			return true
		}
	}
	return false
}

// FreeSlotsForDay runs the generator and the conflict filter for one day.
// Slots starting before notBefore are dropped; a zero notBefore keeps all.
func FreeSlotsForDay(day time.Time, avail DayAvailability, durationMinutes int, booked []Interval, notBefore time.Time) []Interval {
	if avail.Closed() {
		return nil
	}
	candidates := GenerateDaySlots(day, avail.Open, durationMinutes)
	free := FilterSlots(candidates, booked, BusyIntervals(day, avail.Busy))
	if notBefore.IsZero() {
		return free
	}
	upcoming := free[:0]
	for _, s := range free {
		if !s.Start.Before(notBefore) {
			upcoming = append(upcoming, s)
		}
	}
	return upcoming
}
