package scheduling

import (
	"fmt"
	"time"
)

// SlotStep is the distance between consecutive candidate starts. It does not
// scale with the service duration, so a 90 minute service still gets a
// candidate every hour.
const SlotStep = 60

// GenerateDaySlots walks each open window of day in SlotStep increments and
// emits every [cursor, cursor+duration) that ends within the window.
func GenerateDaySlots(day time.Time, open []Window, durationMinutes int) []Interval {
	if durationMinutes <= 0 {
		return nil
	}
	var slots []Interval
	for _, w := range open {
		for cursor := w.Start; cursor+durationMinutes <= w.End; cursor += SlotStep {
			slots = append(slots, Interval{
				Start: atMinutes(day, cursor),
				End:   atMinutes(day, cursor+durationMinutes),
			})
		}
	}
	return slots
}

// DateRange resolves an inclusive [from, to] pair of YYYY-MM-DD strings to
// the list of calendar days it covers. maxDays bounds the span; zero means
// unbounded.
func DateRange(from, to string, maxDays int, loc *time.Location) ([]time.Time, error) {
	start, err := ParseDate(from, loc)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to, loc)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, from, to)
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if maxDays > 0 && len(days) >= maxDays {
			return nil, fmt.Errorf("%w: more than %d days", ErrInvalidDateRange, maxDays)
		}
		days = append(days, d)
	}
	return days, nil
}
