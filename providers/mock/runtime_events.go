package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type eventPublisher struct{ w *world }

var _ runtime.EventPublisher = (*eventPublisher)(nil)

func (c *eventPublisher) Publish(ctx context.Context, bus string, event api.Event) (string, error) {
	c.w.injectLatency()
	return c.w.publishEvent(bus, event)
}

func (c *eventPublisher) PublishBatch(ctx context.Context, bus string, events []api.Event) ([]string, error) {
	c.w.injectLatency()
	ids := make([]string, 0, len(events))
	for _, e := range events {
		id, err := c.w.publishEvent(bus, e)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
