package handlers

import (
	"errors"
	"net/http"

	bookingRepo "marketplace/database/repository/booking"
	"marketplace/services/booking"
	"marketplace/services/scheduling"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps core errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var conflict *booking.SlotConflictError
	if errors.As(err, &conflict) {
		utils.JSONError(c, http.StatusConflict, conflict.Message(), "")
		return
	}

	switch {
	case errors.Is(err, booking.ErrServiceNotFound),
		errors.Is(err, booking.ErrProviderNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, booking.ErrNotBookingParty):
		utils.JSONError(c, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, booking.ErrSlotConflict),
		errors.Is(err, booking.ErrInvalidStatusTransition),
		errors.Is(err, booking.ErrProviderInactive),
		errors.Is(err, booking.ErrPaymentMismatch),
		errors.Is(err, booking.ErrPaymentAlreadyUsed),
		errors.Is(err, bookingRepo.ErrStatusChanged):
		utils.JSONError(c, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, booking.ErrPaymentNotCompleted):
		utils.JSONError(c, http.StatusPaymentRequired, "Payment not completed", err.Error())
	case errors.Is(err, booking.ErrMissingScheduleFields),
		errors.Is(err, booking.ErrSlotInPast),
		errors.Is(err, booking.ErrOutsideAvailability),
		errors.Is(err, booking.ErrInvalidAvailability),
		errors.Is(err, scheduling.ErrInvalidDateFormat),
		errors.Is(err, scheduling.ErrInvalidTimeFormat),
		errors.Is(err, scheduling.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
}
