// Package runtime defines the 11 data-plane client contracts and the
// Facade that lazily constructs adapters for them. Unlike pkg/control, no
// client here may create or delete the underlying resource — only read or
// write data against a resource that control already provisioned.
package runtime

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// QueueClient sends, receives, and acknowledges messages on an existing
// queue.
type QueueClient interface {
	Send(ctx context.Context, queue string, msg api.Message) (string, error)
	Receive(ctx context.Context, queue string, maxMessages int) ([]api.Message, error)
	Acknowledge(ctx context.Context, queue string, receiptHandle string) error
}
