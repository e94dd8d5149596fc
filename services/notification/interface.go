package notification

import (
	"context"

	"marketplace/models"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines the pushes the scheduling core sends.
type NotificationService interface {
	SendProviderPushNotification(ctx context.Context, provider models.Provider, title, body string, data map[string]string) error
	NotifyBookingCreated(ctx context.Context, provider models.Provider, booking models.Booking) error
	NotifyAvailabilityUpdated(ctx context.Context, provider models.Provider, availability models.Availability) error
}

// MessageSender is the part of *messaging.Client the service uses.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}
