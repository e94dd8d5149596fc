package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"marketplace/models"
	"marketplace/services/scheduling"

	"go.uber.org/zap"
)

var weekdayNames = func() map[string]string {
	names := map[string]string{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		names[strings.ToLower(d.String())] = d.String()
	}
	return names
}()

// UpdateAvailability validates and stores a provider's availability. Date
// checks compare against today at update time only; stored entries are not
// re-validated when read.
func (se *DefaultSchedulingEngine) UpdateAvailability(ctx context.Context, providerID string, availability models.Availability) (*models.Availability, error) {
	today := se.now().Format(scheduling.DateLayout)
	normalized, err := NormalizeAvailability(availability, today)
	if err != nil {
		return nil, err
	}

	provider, err := se.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if err := se.Providers.UpdateAvailability(ctx, providerID, normalized); err != nil {
		return nil, err
	}
	se.invalidateSlots(ctx, providerID)

	if se.Notifier != nil {
		if err := se.Notifier.NotifyAvailabilityUpdated(ctx, *provider, normalized); err != nil {
			se.logger().Warn("availability notification failed", zap.String("providerID", providerID), zap.Error(err))
		}
	}
	return &normalized, nil
}

// PurgeStaleAvailability removes overrides and leave periods that ended
// before yesterday.
func (se *DefaultSchedulingEngine) PurgeStaleAvailability(ctx context.Context) (int64, error) {
	cutoff := se.now().AddDate(0, 0, -1).Format(scheduling.DateLayout)
	n, err := se.Providers.PurgeStaleAvailability(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	se.logger().Info("stale availability purged", zap.String("cutoff", cutoff), zap.Int64("providers", n))
	return n, nil
}

// NormalizeAvailability checks availability against today (YYYY-MM-DD) and
// returns a copy with canonical day names and slots sorted by start.
func NormalizeAvailability(av models.Availability, today string) (models.Availability, error) {
	out := models.Availability{
		WeeklySchedule: make([]models.DaySchedule, 0, len(av.WeeklySchedule)),
		DateOverrides:  make([]models.DateOverride, 0, len(av.DateOverrides)),
		LeavePeriods:   make([]models.LeavePeriod, 0, len(av.LeavePeriods)),
	}

	seenDays := map[string]bool{}
	for _, d := range av.WeeklySchedule {
		name, ok := weekdayNames[strings.ToLower(strings.TrimSpace(d.Day))]
		if !ok {
			return models.Availability{}, invalid("unknown weekday %q", d.Day)
		}
		if seenDays[name] {
			return models.Availability{}, invalid("duplicate weekday %s", name)
		}
		seenDays[name] = true

		slots, err := normalizeSlots(d.Slots)
		if err != nil {
			return models.Availability{}, invalid("%s: %v", name, err)
		}
		out.WeeklySchedule = append(out.WeeklySchedule, models.DaySchedule{Day: name, Active: d.Active, Slots: slots})
	}

	seenDates := map[string]bool{}
	for _, o := range av.DateOverrides {
		if err := checkDate(o.Date, today); err != nil {
			return models.Availability{}, invalid("override: %v", err)
		}
		if seenDates[o.Date] {
			return models.Availability{}, invalid("duplicate override for %s", o.Date)
		}
		seenDates[o.Date] = true

		busy, err := normalizeSlots(o.BusySlots)
		if err != nil {
			return models.Availability{}, invalid("override %s: %v", o.Date, err)
		}
		o.BusySlots = busy
		out.DateOverrides = append(out.DateOverrides, o)
	}

	for _, lp := range av.LeavePeriods {
		if err := checkDate(lp.From, today); err != nil {
			return models.Availability{}, invalid("leave period: %v", err)
		}
		if _, err := time.Parse(scheduling.DateLayout, lp.To); err != nil {
			return models.Availability{}, invalid("leave period: bad date %q", lp.To)
		}
		if lp.From > lp.To {
			return models.Availability{}, invalid("leave period %s to %s ends before it starts", lp.From, lp.To)
		}
		out.LeavePeriods = append(out.LeavePeriods, lp)
	}

	sort.Slice(out.DateOverrides, func(i, j int) bool { return out.DateOverrides[i].Date < out.DateOverrides[j].Date })
	sort.Slice(out.LeavePeriods, func(i, j int) bool { return out.LeavePeriods[i].From < out.LeavePeriods[j].From })
	return out, nil
}

// normalizeSlots requires "HH:MM" bounds with start < end and no overlap
// once sorted. Touching slots are allowed.
func normalizeSlots(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	type span struct {
		slot       models.TimeSlot
		start, end int
	}
	spans := make([]span, 0, len(slots))
	for _, s := range slots {
		start, err := scheduling.ToMinutes(s.Start)
		if err != nil {
			return nil, err
		}
		end, err := scheduling.ToMinutes(s.End)
		if err != nil {
			return nil, err
		}
		if start >= end {
			return nil, fmt.Errorf("slot %s-%s must start before it ends", s.Start, s.End)
		}
		spans = append(spans, span{
			slot:  models.TimeSlot{Start: scheduling.FormatMinutes(start), End: scheduling.FormatMinutes(end)},
			start: start,
			end:   end,
		})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	out := make([]models.TimeSlot, 0, len(spans))
	for i, s := range spans {
		if i > 0 && s.start < spans[i-1].end {
			return nil, fmt.Errorf("slots %s-%s and %s-%s overlap",
				spans[i-1].slot.Start, spans[i-1].slot.End, s.slot.Start, s.slot.End)
		}
		out = append(out, s.slot)
	}
	return out, nil
}

func checkDate(date, today string) error {
	if _, err := time.Parse(scheduling.DateLayout, date); err != nil {
		return fmt.Errorf("bad date %q", date)
	}
	if date < today {
		return fmt.Errorf("date %s is in the past", date)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAvailability, fmt.Sprintf(format, args...))
}
