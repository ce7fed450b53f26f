package runtime

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// EventPublisher publishes events against an existing event bus.
type EventPublisher interface {
	Publish(ctx context.Context, bus string, event api.Event) (string, error)
	PublishBatch(ctx context.Context, bus string, events []api.Event) ([]string, error)
}
