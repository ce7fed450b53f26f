package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// NotificationService manages pub/sub topics and subscriptions, and offers
// email/SMS convenience methods.
type NotificationService interface {
	CreateTopic(ctx context.Context, name string) (api.Topic, error)
	GetTopic(ctx context.Context, name string) (api.Topic, error)
	DeleteTopic(ctx context.Context, name string) error
	ListTopics(ctx context.Context) ([]api.Topic, error)

	Subscribe(ctx context.Context, topic, protocol, endpoint string) (api.Subscription, error)
	ConfirmSubscription(ctx context.Context, topic, subscriptionID, token string) error
	Unsubscribe(ctx context.Context, topic, subscriptionID string) error

	PublishToTopic(ctx context.Context, topic string, subject, message string, attributes map[string]string) (string, error)

	SendEmail(ctx context.Context, to, subject, body string) (string, error)
	SendSMS(ctx context.Context, to, body string) (string, error)
}
