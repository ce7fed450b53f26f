package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type notificationClient struct{ w *world }

var _ runtime.NotificationClient = (*notificationClient)(nil)

func (c *notificationClient) Publish(ctx context.Context, topic, subject, message string, attributes map[string]string) (string, error) {
	c.w.injectLatency()
	return c.w.publishToTopic(topic, subject, message, attributes)
}

func (c *notificationClient) PublishBatch(ctx context.Context, topic string, messages []string) ([]string, error) {
	c.w.injectLatency()
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		id, err := c.w.publishToTopic(topic, "", m, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
