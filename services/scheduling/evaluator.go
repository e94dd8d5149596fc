package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"marketplace/models"
)

// Window is a [Start, End) span in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// DayAvailability is the evaluation result for one date. Busy windows come
// from a non-blocking date override and are reconciled by the conflict filter.
type DayAvailability struct {
	Open []Window
	Busy []Window
}

// Closed reports whether the provider has no open time on the date.
func (d DayAvailability) Closed() bool {
	return len(d.Open) == 0
}

// OnLeave reports whether date (YYYY-MM-DD) falls within any leave period.
// Bounds are inclusive and compared as fixed-width strings.
func OnLeave(av models.Availability, date string) bool {
	for _, lp := range av.LeavePeriods {
		if lp.From <= date && date <= lp.To {
			return true
		}
	}
	return false
}

// FindOverride returns the override for the literal date string, if any.
func FindOverride(av models.Availability, date string) (models.DateOverride, bool) {
	for _, o := range av.DateOverrides {
		if o.Date == date {
			return o, true
		}
	}
	return models.DateOverride{}, false
}

// FindDay returns the weekly entry for weekday, matched case-insensitively.
func FindDay(av models.Availability, weekday string) (models.DaySchedule, bool) {
	for _, d := range av.WeeklySchedule {
		if strings.EqualFold(strings.TrimSpace(d.Day), weekday) {
			return d, true
		}
	}
	return models.DaySchedule{}, false
}

// Evaluate computes the open and busy windows of one provider for date.
// Leave periods win over overrides, overrides over the weekly schedule.
// A weekday with no entry is closed, not an error.
func Evaluate(av models.Availability, date, weekday string) (DayAvailability, error) {
	if OnLeave(av, date) {
		return DayAvailability{}, nil
	}

	override, hasOverride := FindOverride(av, date)
	if hasOverride && override.IsUnavailable {
		return DayAvailability{}, nil
	}

	day, ok := FindDay(av, weekday)
	if !ok || !day.Active {
		return DayAvailability{}, nil
	}

	open, err := ToWindows(day.Slots)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("weekly schedule for %s: %w", weekday, err)
	}
	result := DayAvailability{Open: open}

	if hasOverride {
		busy, err := ToWindows(override.BusySlots)
		if err != nil {
			return DayAvailability{}, fmt.Errorf("override busy slots for %s: %w", date, err)
		}
		result.Busy = busy
	}
	return result, nil
}

// EvaluateDate is Evaluate with the weekday derived from day.
func EvaluateDate(av models.Availability, day time.Time) (DayAvailability, error) {
	return Evaluate(av, day.Format(DateLayout), day.Weekday().String())
}

// ToWindows converts time slots to minute windows sorted by start.
// Empty or inverted slots are dropped.
func ToWindows(slots []models.TimeSlot) ([]Window, error) {
	windows := make([]Window, 0, len(slots))
	for _, s := range slots {
		start, err := ToMinutes(s.Start)
		if err != nil {
			return nil, err
		}
		end, err := ToMinutes(s.End)
		if err != nil {
			return nil, err
		}
		if end <= start {
			continue
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows, nil
}
