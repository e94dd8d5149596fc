package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Slot endpoints
	ListSlotsHandler gin.HandlerFunc
	CheckSlotHandler gin.HandlerFunc

	// Booking endpoints
	ReserveBookingHandler gin.HandlerFunc
	CheckoutHandler       gin.HandlerFunc
	CreateOrderHandler    gin.HandlerFunc
	UpdateStatusHandler   gin.HandlerFunc

	// Provider endpoints
	UpdateAvailabilityHandler gin.HandlerFunc

	// AI endpoints
	AIChatHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires handlers from the services they front.
func NewHandlerBundle(bh *BookingHandler, ph *ProviderHandler, ah *AIHandler) *HandlerBundle {
	hb := &HandlerBundle{
		ListSlotsHandler:          bh.ListSlotsHandler,
		CheckSlotHandler:          bh.CheckSlotHandler,
		ReserveBookingHandler:     bh.ReserveBookingHandler,
		CheckoutHandler:           bh.CheckoutHandler,
		CreateOrderHandler:        bh.CreateOrderHandler,
		UpdateStatusHandler:       bh.UpdateStatusHandler,
		UpdateAvailabilityHandler: ph.UpdateAvailabilityHandler,
		HealthHandler:             HealthHandler,
	}
	if ah != nil {
		hb.AIChatHandler = ah.ChatHandler
	}
	return hb
}
