package models

// CustomerInfo identifies the customer making a reservation.
type CustomerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ReservationRequest is the input of the booking write path.
type ReservationRequest struct {
	ProviderID    string       `json:"providerId" binding:"required"`
	ServiceID     string       `json:"serviceId" binding:"required"`
	Customer      CustomerInfo `json:"customer"`
	AddressID     string       `json:"addressId,omitempty"`
	Instructions  string       `json:"instructions,omitempty"`
	ScheduledDate string       `json:"scheduledDate"`
	ScheduledTime string       `json:"scheduledTime"`

	// PaymentIntentID is set by checkout; a paid reservation starts Confirmed.
	PaymentIntentID string `json:"-"`
}

// CheckoutRequest couples a reservation with an already-authorized payment.
type CheckoutRequest struct {
	PaymentIntentID string             `json:"paymentIntentId" binding:"required"`
	Reservation     ReservationRequest `json:"reservation" binding:"required"`
}

// PaymentOrder is what the gateway returns when an order is created.
type PaymentOrder struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
	// Metadata echoes what the order was opened for.
	Metadata map[string]string `json:"metadata,omitempty"`
}
