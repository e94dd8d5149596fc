package handlers

import (
	"net/http"
	"strings"

	"marketplace/middleware"
	"marketplace/models"
	"marketplace/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service  booking.SchedulingService
	Checkout *booking.CheckoutService
}

func NewBookingHandler(service booking.SchedulingService, checkout *booking.CheckoutService) *BookingHandler {
	return &BookingHandler{Service: service, Checkout: checkout}
}

// splitIDs accepts repeated and comma separated query values.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ListSlotsHandler handles GET /api/slots.
func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	var search models.SlotSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		badRequest(c, err)
		return
	}
	search.ProviderIDs = splitIDs(search.ProviderIDs)

	providers, err := h.Service.ListAvailableSlots(c.Request.Context(), search)
	if err != nil {
		respondError(c, err)
		return
	}
	if providers == nil {
		providers = []models.ProviderSlots{}
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// CheckSlotHandler handles POST /api/slots/check.
func (h *BookingHandler) CheckSlotHandler(c *gin.Context) {
	var check models.SlotCheck
	if err := c.ShouldBindJSON(&check); err != nil {
		badRequest(c, err)
		return
	}

	free, err := h.Service.CheckSlotForProviders(c.Request.Context(), check)
	if err != nil {
		respondError(c, err)
		return
	}
	if free == nil {
		free = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"availableProviders": free})
}

// bindReservation binds the body and stamps the authenticated customer on it.
func bindReservation(c *gin.Context, req *models.ReservationRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	req.Customer.ID = c.GetString(middleware.CtxUserID)
	return true
}

// ReserveBookingHandler handles POST /api/bookings.
func (h *BookingHandler) ReserveBookingHandler(c *gin.Context) {
	var req models.ReservationRequest
	if !bindReservation(c, &req) {
		return
	}

	b, err := h.Service.ReserveBooking(c.Request.Context(), req)
	if err != nil {
		getLogger(c).Info("reservation rejected", zap.String("providerID", req.ProviderID), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created", "booking": b})
}

// CreateOrderHandler handles POST /api/bookings/order.
func (h *BookingHandler) CreateOrderHandler(c *gin.Context) {
	var req models.ReservationRequest
	if !bindReservation(c, &req) {
		return
	}

	order, err := h.Checkout.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// CheckoutHandler handles POST /api/bookings/checkout.
func (h *BookingHandler) CheckoutHandler(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Reservation.Customer.ID = c.GetString(middleware.CtxUserID)

	b, err := h.Checkout.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking confirmed", "booking": b})
}

// UpdateStatusHandler handles PATCH /api/bookings/:id/status. Only the
// booking's customer or provider may change it.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var body struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	actor := models.Actor{
		UserID:     c.GetString(middleware.CtxUserID),
		ProviderID: c.GetString(middleware.CtxProviderID),
	}
	b, err := h.Service.UpdateBookingStatus(c.Request.Context(), c.Param("id"), body.Status, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
