package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DateLayout is the fixed-width date format used by bookings and availability.
const DateLayout = "2006-01-02"

// DefaultDurationMinutes is used when a service duration descriptor is missing
// or cannot be parsed.
const DefaultDurationMinutes = 60

const minutesPerDay = 24 * 60

// Interval is a half-open [Start, End) span of time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether i and other share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Overlaps is the half-open interval test: aStart < bEnd && aEnd > bStart.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ToMinutes parses "HH:MM" (24h, "24:00" allowed as end of day) or
// "hh:mm AM/PM" into minutes since midnight.
func ToMinutes(value string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	meridiem := ""
	if strings.HasSuffix(s, "AM") || strings.HasSuffix(s, "PM") {
		meridiem = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digitsOnly(hh) || !digitsOnly(mm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	if minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}

	switch meridiem {
	case "":
		if hour > 24 || (hour == 24 && minute != 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
		}
	default:
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
		}
		hour %= 12
		if meridiem == "PM" {
			hour += 12
		}
	}
	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var durationToken = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-z]*)`)

// ParseDuration converts a descriptor such as "60 mins", "2 hours" or
// "1 hr 30 min" into minutes. A bare number is read as minutes.
func ParseDuration(descriptor string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(descriptor))
	if s == "" {
		return 0, fmt.Errorf("empty duration descriptor")
	}
	matches := durationToken.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no quantity in duration descriptor %q", descriptor)
	}

	total := 0.0
	for _, m := range matches {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("bad quantity in duration descriptor %q: %w", descriptor, err)
		}
		switch m[2] {
		case "", "m", "min", "mins", "minute", "minutes":
			total += qty
		case "h", "hr", "hrs", "hour", "hours":
			total += qty * 60
		case "d", "day", "days":
			total += qty * minutesPerDay
		default:
			return 0, fmt.Errorf("unknown unit %q in duration descriptor %q", m[2], descriptor)
		}
	}

	minutes := int(total + 0.5)
	if minutes <= 0 {
		return 0, fmt.Errorf("non-positive duration descriptor %q", descriptor)
	}
	return minutes, nil
}

// DurationToMinutes is ParseDuration with the DefaultDurationMinutes fallback.
// Falling back is logged as a warning.
func DurationToMinutes(descriptor string) int {
	minutes, err := ParseDuration(descriptor)
	if err != nil {
		zap.L().Warn("unparseable service duration, using default",
			zap.String("descriptor", descriptor),
			zap.Int("defaultMinutes", DefaultDurationMinutes),
			zap.Error(err))
		return DefaultDurationMinutes
	}
	return minutes
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date)
	}
	return d, nil
}

// atMinutes returns the wall-clock instant minutes after midnight of day.
func atMinutes(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location())
}

// SlotBounds combines a local date and time with a duration. No timezone
// conversion happens: both strings are read in loc.
func SlotBounds(date, clock string, durationMinutes int, loc *time.Location) (Interval, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return Interval{}, err
	}
	minutes, err := ToMinutes(clock)
	if err != nil {
		return Interval{}, err
	}
	return Interval{
		Start: atMinutes(day, minutes),
		End:   atMinutes(day, minutes+durationMinutes),
	}, nil
}
