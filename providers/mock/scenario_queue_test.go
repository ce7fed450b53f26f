package mock

import (
	"context"
	"testing"

	"github.com/stainedhead/lc-platform/api"
)

// TestScenarioFIFOQueuePreservesOrder sends three messages sharing one
// groupId and expects them received back in send order.
func TestScenarioFIFOQueuePreservesOrder(t *testing.T) {
	ctx := context.Background()
	cf, rf := newTestFacades(t)

	queues, err := cf.Queue()
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if _, err := queues.CreateQueue(ctx, "orders.fifo", api.QueueOptions{FIFO: true}); err != nil {
		t.Fatalf("CreateQueue: %v", err)
	}

	group := "g1"
	client, err := rf.Queue()
	if err != nil {
		t.Fatalf("Queue client: %v", err)
	}
	for _, body := range []string{"A", "B", "C"} {
		if _, err := client.Send(ctx, "orders.fifo", api.Message{Body: body, GroupID: &group}); err != nil {
			t.Fatalf("Send(%s): %v", body, err)
		}
	}

	got, err := client.Receive(ctx, "orders.fifo", 3)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(messages) = %d, want 3", len(got))
	}
	want := []string{"A", "B", "C"}
	for i, m := range got {
		if m.Body != want[i] {
			t.Fatalf("message[%d] = %q, want %q (order = %v)", i, m.Body, want[i], got)
		}
	}
}

// TestScenarioStandardQueueIsSetEquality: on a standard queue the same
// three sends need only be received as a set, not an order.
func TestScenarioStandardQueueIsSetEquality(t *testing.T) {
	ctx := context.Background()
	cf, rf := newTestFacades(t)

	queues, _ := cf.Queue()
	if _, err := queues.CreateQueue(ctx, "orders.std", api.QueueOptions{}); err != nil {
		t.Fatalf("CreateQueue: %v", err)
	}

	client, _ := rf.Queue()
	for _, body := range []string{"A", "B", "C"} {
		if _, err := client.Send(ctx, "orders.std", api.Message{Body: body}); err != nil {
			t.Fatalf("Send(%s): %v", body, err)
		}
	}

	got, err := client.Receive(ctx, "orders.std", 3)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	seen := map[string]bool{}
	for _, m := range got {
		seen[m.Body] = true
	}
	for _, want := range []string{"A", "B", "C"} {
		if !seen[want] {
			t.Fatalf("expected %q among received messages, got %v", want, got)
		}
	}
}

// TestFIFODeduplicationIDSuppressesDuplicateEnqueue: resending the same
// DeduplicationID does not enqueue a second copy.
func TestFIFODeduplicationIDSuppressesDuplicateEnqueue(t *testing.T) {
	ctx := context.Background()
	cf, rf := newTestFacades(t)
	queues, _ := cf.Queue()
	if _, err := queues.CreateQueue(ctx, "dedup.fifo", api.QueueOptions{FIFO: true}); err != nil {
		t.Fatalf("CreateQueue: %v", err)
	}

	client, _ := rf.Queue()
	dedupID := "dup-1"
	if _, err := client.Send(ctx, "dedup.fifo", api.Message{Body: "first", DeduplicationID: &dedupID}); err != nil {
		t.Fatalf("Send 1: %v", err)
	}
	if _, err := client.Send(ctx, "dedup.fifo", api.Message{Body: "second", DeduplicationID: &dedupID}); err != nil {
		t.Fatalf("Send 2: %v", err)
	}

	got, err := client.Receive(ctx, "dedup.fifo", 10)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(messages) = %d, want 1 (duplicate send suppressed)", len(got))
	}
}
