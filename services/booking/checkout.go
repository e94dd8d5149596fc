package booking

import (
	"context"
	"errors"
	"fmt"

	catalogRepo "marketplace/database/repository/catalog"
	"marketplace/models"
	"marketplace/services/scheduling"

	"go.uber.org/zap"
)

var ErrPaymentNotCompleted = errors.New("payment has not been completed")

// PaymentGateway is the opaque order/verify/refund capability.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string, metadata map[string]string) (*models.PaymentOrder, error)
	// VerifyPayment returns ErrPaymentNotCompleted unless the payment is
	// captured or authorized for capture.
	VerifyPayment(ctx context.Context, paymentID string) (*models.PaymentOrder, error)
	Refund(ctx context.Context, paymentID, reason string) error
}

// CheckoutService couples payment with the reservation write path.
type CheckoutService struct {
	Engine  SchedulingService
	Catalog catalogRepo.ServiceRepository
	Gateway PaymentGateway
	Logger  *zap.Logger
}

func NewCheckoutService(engine SchedulingService, catalog catalogRepo.ServiceRepository, gateway PaymentGateway, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{Engine: engine, Catalog: catalog, Gateway: gateway, Logger: logger}
}

// orderMetadata is what an order records about the reservation it pays for.
func orderMetadata(req models.ReservationRequest) map[string]string {
	return map[string]string{
		"providerId":    req.ProviderID,
		"serviceId":     req.ServiceID,
		"customerId":    req.Customer.ID,
		"scheduledDate": req.ScheduledDate,
		"scheduledTime": req.ScheduledTime,
	}
}

// paysFor reports whether an order was opened for req.
func paysFor(order *models.PaymentOrder, req models.ReservationRequest) bool {
	for k, v := range orderMetadata(req) {
		if order.Metadata[k] != v {
			return false
		}
	}
	return true
}

// CreateOrder prices the reservation from the catalog and opens a payment.
func (c *CheckoutService) CreateOrder(ctx context.Context, req models.ReservationRequest) (*models.PaymentOrder, error) {
	svc, err := c.Catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	return c.Gateway.CreateOrder(ctx, svc.Price, svc.Currency, orderMetadata(req))
}

// Checkout verifies the payment, then reserves. A payment confirms at most
// one booking: replaying a finished checkout returns that booking, and the
// payment is never refunded while a booking holds it. When the reservation
// is rejected the payment is refunded, which is what the slot conflict
// message promises the customer. Storage failures are not refunded
// automatically because the booking may have committed.
func (c *CheckoutService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.Booking, error) {
	order, err := c.Gateway.VerifyPayment(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", req.PaymentIntentID, err)
	}
	if !paysFor(order, req.Reservation) {
		c.Logger.Warn("payment presented for a different reservation",
			zap.String("paymentID", req.PaymentIntentID),
			zap.String("providerID", req.Reservation.ProviderID),
			zap.String("date", req.Reservation.ScheduledDate),
			zap.String("time", req.Reservation.ScheduledTime))
		return nil, fmt.Errorf("payment %s: %w", req.PaymentIntentID, ErrPaymentMismatch)
	}

	existing, held, err := c.heldBy(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if held {
		c.Logger.Info("checkout replayed, returning existing booking",
			zap.String("paymentID", req.PaymentIntentID), zap.String("bookingID", existing.ID))
		return existing, nil
	}

	reservation := req.Reservation
	reservation.PaymentIntentID = req.PaymentIntentID
	booking, err := c.Engine.ReserveBooking(ctx, reservation)
	if err == nil {
		return booking, nil
	}

	// A concurrent checkout with the same payment may have won the slot.
	if existing, held, lerr := c.heldBy(ctx, req.PaymentIntentID); lerr == nil && held {
		c.Logger.Info("concurrent checkout already booked this payment",
			zap.String("paymentID", req.PaymentIntentID), zap.String("bookingID", existing.ID))
		return existing, nil
	}
	if !refundable(err) {
		c.Logger.Error("reservation failed after payment, manual reconciliation needed",
			zap.String("paymentID", req.PaymentIntentID), zap.Error(err))
		return nil, err
	}

	if rerr := c.Gateway.Refund(ctx, req.PaymentIntentID, "requested_by_customer"); rerr != nil {
		c.Logger.Error("refund after rejected reservation failed",
			zap.String("paymentID", req.PaymentIntentID), zap.Error(rerr))
		return nil, errors.Join(err, fmt.Errorf("refund failed: %w", rerr))
	}
	c.Logger.Info("payment refunded after rejected reservation",
		zap.String("paymentID", req.PaymentIntentID), zap.Error(err))
	return nil, err
}

// heldBy returns the booking a payment already confirmed, if any.
func (c *CheckoutService) heldBy(ctx context.Context, paymentID string) (*models.Booking, bool, error) {
	b, err := c.Engine.BookingForPayment(ctx, paymentID)
	if errors.Is(err, ErrBookingNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("look up booking for payment %s: %w", paymentID, err)
	}
	return b, true, nil
}

func refundable(err error) bool {
	for _, target := range []error{
		ErrSlotConflict,
		ErrSlotInPast,
		ErrOutsideAvailability,
		ErrMissingScheduleFields,
		ErrServiceNotFound,
		ErrProviderNotFound,
		ErrProviderInactive,
		scheduling.ErrInvalidDateFormat,
		scheduling.ErrInvalidTimeFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
