package notification

import (
	"context"
	"fmt"

	"marketplace/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService pushes through Firebase Cloud Messaging.
type FCMNotificationService struct {
	sender MessageSender
	logger *zap.Logger
}

func NewFCMNotificationService(sender MessageSender, logger *zap.Logger) (*FCMNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: sender is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMNotificationService{sender: sender, logger: logger}, nil
}

// SendProviderPushNotification sends a high priority push to the provider's
// device. Providers without a registered token are skipped.
func (s *FCMNotificationService) SendProviderPushNotification(
	ctx context.Context,
	provider models.Provider,
	title, body string,
	data map[string]string,
) error {
	if provider.FCMToken == "" {
		s.logger.Debug("provider has no FCM token, skipping push", zap.String("providerID", provider.ID))
		return nil
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "provider"
	}

	msg := &messaging.Message{
		Token: provider.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	if _, err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendProviderPushNotification: failed to send FCM message: %w", err)
	}
	return nil
}

func (s *FCMNotificationService) NotifyBookingCreated(ctx context.Context, provider models.Provider, booking models.Booking) error {
	title := "New booking"
	body := fmt.Sprintf("You have a new booking on %s at %s.", booking.ScheduledDate, booking.ScheduledTime)
	if booking.CustomerName != "" {
		body = fmt.Sprintf("%s booked you on %s at %s.", booking.CustomerName, booking.ScheduledDate, booking.ScheduledTime)
	}
	return s.SendProviderPushNotification(ctx, provider, title, body, map[string]string{
		"type":      "booking_created",
		"bookingId": booking.ID,
	})
}

func (s *FCMNotificationService) NotifyAvailabilityUpdated(ctx context.Context, provider models.Provider, availability models.Availability) error {
	active := 0
	for _, d := range availability.WeeklySchedule {
		if d.Active {
			active++
		}
	}
	body := fmt.Sprintf("Your availability now covers %d day%s a week", active, plural(active))
	if n := len(availability.LeavePeriods); n > 0 {
		body += fmt.Sprintf(" with %d leave period%s", n, plural(n))
	}
	return s.SendProviderPushNotification(ctx, provider, "Availability updated", body+".", map[string]string{
		"type": "schedule_update",
	})
}

// plural returns "s" if n is not 1, otherwise returns an empty string.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
