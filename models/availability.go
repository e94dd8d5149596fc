package models

// TimeSlot is a local wall-clock window ("HH:MM", 24h) within one day.
type TimeSlot struct {
	Start string `bson:"start" json:"start" binding:"required"`
	End   string `bson:"end" json:"end" binding:"required"`
}

// DaySchedule is the recurring schedule for one weekday name ("Monday", ...).
type DaySchedule struct {
	Day    string     `bson:"day" json:"day" binding:"required"`
	Active bool       `bson:"active" json:"active"`
	Slots  []TimeSlot `bson:"slots" json:"slots"`
}

// DateOverride is a per-date exception to the weekly schedule.
// IsUnavailable closes the whole date; otherwise BusySlots are extra
// unavailability windows layered on top of the weekly schedule.
type DateOverride struct {
	Date          string     `bson:"date" json:"date" binding:"required"` // YYYY-MM-DD
	IsUnavailable bool       `bson:"isUnavailable" json:"isUnavailable"`
	BusySlots     []TimeSlot `bson:"busySlots,omitempty" json:"busySlots,omitempty"`
	Reason        string     `bson:"reason,omitempty" json:"reason,omitempty"`
}

// LeavePeriod is an inclusive date range during which the provider is fully unavailable.
type LeavePeriod struct {
	From   string `bson:"from" json:"from" binding:"required"` // YYYY-MM-DD
	To     string `bson:"to" json:"to" binding:"required"`     // YYYY-MM-DD
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Availability is the provider-owned availability sub-document.
type Availability struct {
	WeeklySchedule []DaySchedule  `bson:"weeklySchedule" json:"weeklySchedule"`
	DateOverrides  []DateOverride `bson:"dateOverrides" json:"dateOverrides"`
	LeavePeriods   []LeavePeriod  `bson:"leavePeriods" json:"leavePeriods"`
}
