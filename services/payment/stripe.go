package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"marketplace/models"
	"marketplace/services/booking"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// Currencies charged in whole units rather than hundredths.
var zeroDecimal = map[string]bool{"jpy": true, "krw": true, "ugx": true, "rwf": true, "vnd": true, "xaf": true, "xof": true}

// StripeGateway implements booking.PaymentGateway with PaymentIntents.
type StripeGateway struct {
	intents paymentintent.Client
	refunds refund.Client
	logger  *zap.Logger
}

// NewStripeGateway uses backend, or the default API backend when nil.
func NewStripeGateway(key string, backend stripe.Backend, logger *zap.Logger) *StripeGateway {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeGateway{
		intents: paymentintent.Client{B: backend, Key: key},
		refunds: refund.Client{B: backend, Key: key},
		logger:  logger,
	}
}

func minorUnits(amount float64, currency string) int64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

func majorUnits(amount int64, currency string) float64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return float64(amount)
	}
	return float64(amount) / 100
}

func toOrder(pi *stripe.PaymentIntent) *models.PaymentOrder {
	return &models.PaymentOrder{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       majorUnits(pi.Amount, string(pi.Currency)),
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
}

func (g *StripeGateway) CreateOrder(ctx context.Context, amount float64, currency string, metadata map[string]string) (*models.PaymentOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid order amount %.2f", amount)
	}
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount, currency)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	g.logger.Info("payment order created", zap.String("paymentID", pi.ID), zap.Int64("amount", pi.Amount))
	return toOrder(pi), nil
}

// VerifyPayment accepts captured intents and intents authorized for capture.
func (g *StripeGateway) VerifyPayment(ctx context.Context, paymentID string) (*models.PaymentOrder, error) {
	pi, err := g.getIntent(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return toOrder(pi), nil
	default:
		return nil, fmt.Errorf("%w: intent %s is %s", booking.ErrPaymentNotCompleted, paymentID, pi.Status)
	}
}

// Refund releases an uncaptured authorization, or refunds a captured payment.
func (g *StripeGateway) Refund(ctx context.Context, paymentID, reason string) error {
	pi, err := g.getIntent(ctx, paymentID)
	if err != nil {
		return err
	}

	if pi.Status == stripe.PaymentIntentStatusRequiresCapture {
		params := &stripe.PaymentIntentCancelParams{CancellationReason: stripe.String("abandoned")}
		params.Context = ctx
		if _, err := g.intents.Cancel(paymentID, params); err != nil {
			return fmt.Errorf("cancel payment intent %s: %w", paymentID, err)
		}
		g.logger.Info("payment authorization released", zap.String("paymentID", paymentID))
		return nil
	}

	params := &stripe.RefundParams{PaymentIntent: stripe.String(paymentID)}
	if reason != "" {
		params.Reason = stripe.String(reason)
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + paymentID)
	r, err := g.refunds.New(params)
	if err != nil {
		return fmt.Errorf("refund payment intent %s: %w", paymentID, err)
	}
	g.logger.Info("payment refunded", zap.String("paymentID", paymentID), zap.String("refundID", r.ID))
	return nil
}

func (g *StripeGateway) getIntent(ctx context.Context, paymentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(paymentID, params)
	if err != nil {
		return nil, fmt.Errorf("fetch payment intent %s: %w", paymentID, err)
	}
	return pi, nil
}
