package models

import "time"

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingPending    BookingStatus = "Pending"
	BookingConfirmed  BookingStatus = "Confirmed"
	BookingInProgress BookingStatus = "In-Progress"
	BookingCompleted  BookingStatus = "Completed"
	BookingCancelled  BookingStatus = "Cancelled"
	BookingExpired    BookingStatus = "Expired"
)

// AllBookingStatuses lists every status; Blocking must classify each of them.
var AllBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
	BookingExpired,
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress,
		BookingCompleted, BookingCancelled, BookingExpired:
		return true
	}
	return false
}

// Blocking reports whether a booking in this status still holds its time slot.
// Unknown statuses block, so a new status never silently frees slots.
func (s BookingStatus) Blocking() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress:
		return true
	case BookingCompleted, BookingCancelled, BookingExpired:
		return false
	default:
		return true
	}
}

// BlockingStatuses returns the statuses that reserve a slot, for store queries.
func BlockingStatuses() []BookingStatus {
	var out []BookingStatus
	for _, s := range AllBookingStatuses {
		if s.Blocking() {
			out = append(out, s)
		}
	}
	return out
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled, BookingExpired},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a reservation of one provider for one service at a date and time.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	ProviderID      string        `bson:"providerId" json:"providerId"`
	ServiceID       string        `bson:"serviceId" json:"serviceId"`
	CustomerID      string        `bson:"customerId" json:"customerId"`
	CustomerName    string        `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerPhone   string        `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	AddressID       string        `bson:"addressId,omitempty" json:"addressId,omitempty"`
	Instructions    string        `bson:"instructions,omitempty" json:"instructions,omitempty"`
	ScheduledDate   string        `bson:"scheduledDate" json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime   string        `bson:"scheduledTime" json:"scheduledTime"` // "HH:MM" or "hh:mm AM/PM"
	Duration        int           `bson:"duration" json:"duration"`           // minutes; 0 when not yet persisted
	Status          BookingStatus `bson:"status" json:"status"`
	PaymentIntentID string        `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Actor is the authenticated caller acting on a booking.
type Actor struct {
	UserID     string
	ProviderID string
}

// IsPartyTo reports whether the actor is the booking's customer or provider.
func (a Actor) IsPartyTo(b Booking) bool {
	return (a.UserID != "" && a.UserID == b.CustomerID) ||
		(a.ProviderID != "" && a.ProviderID == b.ProviderID)
}
