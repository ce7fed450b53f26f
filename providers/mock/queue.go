package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type queueSvc struct{ w *world }

var _ control.QueueService = (*queueSvc)(nil)

func (s *queueSvc) CreateQueue(ctx context.Context, name string, opts api.QueueOptions) (api.Queue, error) {
	s.w.queuesMu.Lock()
	defer s.w.queuesMu.Unlock()
	if _, exists := s.w.queues[name]; exists {
		return api.Queue{}, cperrors.ConflictErr(name, "queue %q already exists", name)
	}
	q := api.Queue{
		Name:                   name,
		URL:                    fmt.Sprintf("https://mock-queue.local/%s", name),
		FIFO:                   opts.FIFO,
		VisibilityTimeout:      opts.VisibilityTimeout,
		MessageRetentionSecs:   opts.MessageRetention,
		MaxMessageSize:         opts.MaxMessageSize,
		EnableDeadLetter:       opts.EnableDeadLetter,
		DeadLetterAfterRetries: opts.DeadLetterAfterRetries,
		Created:                s.w.now(),
	}
	s.w.queues[name] = &mockQueueState{
		queue: q,
		dedup: make(map[string]string),
	}
	return q, nil
}

func (s *queueSvc) GetQueue(ctx context.Context, name string) (api.Queue, error) {
	s.w.queuesMu.RLock()
	defer s.w.queuesMu.RUnlock()
	st, ok := s.w.queues[name]
	if !ok {
		return api.Queue{}, cperrors.NotFound("Queue", name)
	}
	q := st.queue
	q.MessageCount = len(st.messages)
	return q, nil
}

func (s *queueSvc) DeleteQueue(ctx context.Context, name string) error {
	s.w.queuesMu.Lock()
	defer s.w.queuesMu.Unlock()
	if _, ok := s.w.queues[name]; !ok {
		return cperrors.NotFound("Queue", name)
	}
	delete(s.w.queues, name)
	return nil
}

func (s *queueSvc) ListQueues(ctx context.Context) ([]api.Queue, error) {
	s.w.queuesMu.RLock()
	defer s.w.queuesMu.RUnlock()
	out := make([]api.Queue, 0, len(s.w.queues))
	for _, st := range s.w.queues {
		q := st.queue
		q.MessageCount = len(st.messages)
		out = append(out, q)
	}
	return out, nil
}

func (s *queueSvc) PurgeQueue(ctx context.Context, name string) error {
	s.w.queuesMu.Lock()
	defer s.w.queuesMu.Unlock()
	st, ok := s.w.queues[name]
	if !ok {
		return cperrors.NotFound("Queue", name)
	}
	st.messages = nil
	return nil
}

// sendMessage is shared by the control-side SendMessage convenience method
// and runtime.QueueClient.Send. FIFO queues honor DeduplicationID: a
// duplicate ID seen again is silently accepted without enqueuing a second
// copy.
func (w *world) sendMessage(name string, msg api.Message) (string, error) {
	w.queuesMu.Lock()
	defer w.queuesMu.Unlock()
	st, ok := w.queues[name]
	if !ok {
		return "", cperrors.NotFound("Queue", name)
	}
	if st.queue.FIFO && msg.DeduplicationID != nil {
		if existing, dup := st.dedup[*msg.DeduplicationID]; dup {
			return existing, nil
		}
	}
	msg.ID = w.nextID("message")
	msg.ReceiveCount = 0
	if st.queue.FIFO && msg.DeduplicationID != nil {
		st.dedup[*msg.DeduplicationID] = msg.ID
	}
	st.messages = append(st.messages, msg)
	return msg.ID, nil
}

func (w *world) receiveMessages(name string, maxMessages int) ([]api.Message, error) {
	w.queuesMu.Lock()
	defer w.queuesMu.Unlock()
	st, ok := w.queues[name]
	if !ok {
		return nil, cperrors.NotFound("Queue", name)
	}
	if maxMessages <= 0 || maxMessages > len(st.messages) {
		maxMessages = len(st.messages)
	}
	out := make([]api.Message, 0, maxMessages)
	remaining := st.messages[:0]
	taken := 0
	for _, m := range st.messages {
		if taken < maxMessages {
			m.ReceiveCount++
			rh := w.nextID("receipt")
			m.ReceiptHandle = rh
			out = append(out, m)
			taken++
			continue
		}
		remaining = append(remaining, m)
	}
	st.messages = remaining
	return out, nil
}

func (w *world) deleteMessage(name string, receiptHandle string) error {
	w.queuesMu.RLock()
	_, ok := w.queues[name]
	w.queuesMu.RUnlock()
	if !ok {
		return cperrors.NotFound("Queue", name)
	}
	// Messages are removed from the visible queue at receive time; DeleteMessage only needs to confirm the queue
	// exists, matching the mock's value-copy, no-shared-state model.
	return nil
}

func (s *queueSvc) SendMessage(ctx context.Context, queue string, msg api.Message) (string, error) {
	s.w.injectLatency()
	return s.w.sendMessage(queue, msg)
}

func (s *queueSvc) ReceiveMessages(ctx context.Context, queue string, maxMessages int, waitSeconds int) ([]api.Message, error) {
	s.w.injectLatency()
	return s.w.receiveMessages(queue, maxMessages)
}

func (s *queueSvc) DeleteMessage(ctx context.Context, queue string, receiptHandle string) error {
	return s.w.deleteMessage(queue, receiptHandle)
}
