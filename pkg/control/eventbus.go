package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// EventBusService manages event buses, rules, and targets, and publishes
// events for control-side tooling. Matching semantics: an event
// matches a rule iff pattern.source is empty or contains event.source, AND
// pattern.type is empty or contains event.type, AND pattern.data (if
// present) is a top-level subset match over event.data.
type EventBusService interface {
	CreateBus(ctx context.Context, name string) (api.EventBus, error)
	GetBus(ctx context.Context, name string) (api.EventBus, error)
	DeleteBus(ctx context.Context, name string) error

	CreateRule(ctx context.Context, bus, name string, pattern api.EventPattern, enabled bool) (api.Rule, error)
	UpdateRule(ctx context.Context, bus, name string, pattern api.EventPattern, enabled bool) (api.Rule, error)
	DeleteRule(ctx context.Context, bus, name string) error
	ListRules(ctx context.Context, bus string) ([]api.Rule, error)

	AddTarget(ctx context.Context, bus, rule string, target api.Target) error
	RemoveTarget(ctx context.Context, bus, rule, targetID string) error

	PublishEvent(ctx context.Context, bus string, event api.Event) (string, error)
}
