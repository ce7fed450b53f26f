package runtime

import "context"

// NotificationClient publishes to an existing topic.
type NotificationClient interface {
	Publish(ctx context.Context, topic, subject, message string, attributes map[string]string) (string, error)
	PublishBatch(ctx context.Context, topic string, messages []string) ([]string, error)
}
