package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// QueueService manages message queues as infrastructure — creation,
// deletion, and listing. Runtime send/receive belongs to
// pkg/runtime.QueueClient.
type QueueService interface {
	CreateQueue(ctx context.Context, name string, opts api.QueueOptions) (api.Queue, error)
	GetQueue(ctx context.Context, name string) (api.Queue, error)
	DeleteQueue(ctx context.Context, name string) error
	ListQueues(ctx context.Context) ([]api.Queue, error)
	PurgeQueue(ctx context.Context, name string) error

	// SendMessage/ReceiveMessages/DeleteMessage are exposed here too
	// because QueueService is also a convenient single-resource harness
	// for control-side tooling; the canonical
	// runtime-facing path for application code is pkg/runtime.QueueClient.
	SendMessage(ctx context.Context, queue string, msg api.Message) (string, error)
	ReceiveMessages(ctx context.Context, queue string, maxMessages int, waitSeconds int) ([]api.Message, error)
	DeleteMessage(ctx context.Context, queue string, receiptHandle string) error
}
