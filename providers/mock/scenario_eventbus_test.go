package mock

import (
	"context"
	"testing"

	"github.com/stainedhead/lc-platform/api"
)

// TestScenarioEventRouting: an event is delivered once to each target of
// every matching rule and to nothing else.
func TestScenarioEventRouting(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)
	bus, err := cf.EventBus()
	if err != nil {
		t.Fatalf("EventBus: %v", err)
	}

	if _, err := bus.CreateBus(ctx, "app-events"); err != nil {
		t.Fatalf("CreateBus: %v", err)
	}
	pattern := api.EventPattern{Source: []string{"user-service"}, Type: []string{"user.created"}}
	if _, err := bus.CreateRule(ctx, "app-events", "user-created-rule", pattern, true); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if err := bus.AddTarget(ctx, "app-events", "user-created-rule", api.Target{ID: "T1", ARN: "arn:mock:t1"}); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}

	if _, err := bus.PublishEvent(ctx, "app-events", api.Event{
		Source: "user-service",
		Type:   "user.created",
		Data:   map[string]any{"userId": "123"},
	}); err != nil {
		t.Fatalf("PublishEvent (matching): %v", err)
	}

	impl := bus.(*eventBus)
	if got := impl.DeliveryCount("app-events", "user-created-rule", "T1"); got != 1 {
		t.Fatalf("delivery count after matching event = %d, want 1", got)
	}

	if _, err := bus.PublishEvent(ctx, "app-events", api.Event{
		Source: "billing",
		Type:   "user.created",
	}); err != nil {
		t.Fatalf("PublishEvent (non-matching source): %v", err)
	}
	if got := impl.DeliveryCount("app-events", "user-created-rule", "T1"); got != 1 {
		t.Fatalf("delivery count after non-matching event = %d, want still 1", got)
	}
}

func TestEventPatternDataIsTopLevelSubsetMatch(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)
	bus, _ := cf.EventBus()
	_, _ = bus.CreateBus(ctx, "bus")
	pattern := api.EventPattern{Data: map[string]any{"region": "us-east-1"}}
	_, _ = bus.CreateRule(ctx, "bus", "r1", pattern, true)
	_ = bus.AddTarget(ctx, "bus", "r1", api.Target{ID: "T1"})

	impl := bus.(*eventBus)
	_, _ = bus.PublishEvent(ctx, "bus", api.Event{Data: map[string]any{"region": "us-east-1", "extra": "anything"}})
	if got := impl.DeliveryCount("bus", "r1", "T1"); got != 1 {
		t.Fatalf("expected a superset of the pattern's data to match, got count %d", got)
	}

	_, _ = bus.PublishEvent(ctx, "bus", api.Event{Data: map[string]any{"region": "eu-west-1"}})
	if got := impl.DeliveryCount("bus", "r1", "T1"); got != 1 {
		t.Fatalf("expected a mismatched value to not match, count still %d", got)
	}
}
