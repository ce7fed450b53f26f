package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

// queueClient adapts the same shared world the control-plane QueueService
// uses, since the data plane reads/writes a queue that control already
// provisioned.
type queueClient struct{ w *world }

var _ runtime.QueueClient = (*queueClient)(nil)

func (c *queueClient) Send(ctx context.Context, queue string, msg api.Message) (string, error) {
	c.w.injectLatency()
	return c.w.sendMessage(queue, msg)
}

func (c *queueClient) Receive(ctx context.Context, queue string, maxMessages int) ([]api.Message, error) {
	c.w.injectLatency()
	return c.w.receiveMessages(queue, maxMessages)
}

func (c *queueClient) Acknowledge(ctx context.Context, queue string, receiptHandle string) error {
	return c.w.deleteMessage(queue, receiptHandle)
}
