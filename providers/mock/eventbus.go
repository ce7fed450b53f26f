package mock

import (
	"context"
	"reflect"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type eventBus struct{ w *world }

var _ control.EventBusService = (*eventBus)(nil)

func (s *eventBus) CreateBus(ctx context.Context, name string) (api.EventBus, error) {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	if _, exists := s.w.buses[name]; exists {
		return api.EventBus{}, cperrors.ConflictErr(name, "event bus %q already exists", name)
	}
	b := &api.EventBus{Name: name, Created: s.w.now()}
	s.w.buses[name] = b
	return *b, nil
}

func (s *eventBus) GetBus(ctx context.Context, name string) (api.EventBus, error) {
	s.w.busesMu.RLock()
	defer s.w.busesMu.RUnlock()
	b, ok := s.w.buses[name]
	if !ok {
		return api.EventBus{}, cperrors.NotFound("EventBus", name)
	}
	return *b, nil
}

func (s *eventBus) DeleteBus(ctx context.Context, name string) error {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	if _, ok := s.w.buses[name]; !ok {
		return cperrors.NotFound("EventBus", name)
	}
	delete(s.w.buses, name)
	return nil
}

func (s *eventBus) CreateRule(ctx context.Context, bus, name string, pattern api.EventPattern, enabled bool) (api.Rule, error) {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	b, ok := s.w.buses[bus]
	if !ok {
		return api.Rule{}, cperrors.NotFound("EventBus", bus)
	}
	for _, r := range b.Rules {
		if r.Name == name {
			return api.Rule{}, cperrors.ConflictErr(name, "rule %q already exists on bus %q", name, bus)
		}
	}
	r := api.Rule{Name: name, Pattern: pattern, Enabled: enabled}
	b.Rules = append(b.Rules, r)
	return r, nil
}

func (s *eventBus) UpdateRule(ctx context.Context, bus, name string, pattern api.EventPattern, enabled bool) (api.Rule, error) {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	b, ok := s.w.buses[bus]
	if !ok {
		return api.Rule{}, cperrors.NotFound("EventBus", bus)
	}
	for i := range b.Rules {
		if b.Rules[i].Name == name {
			b.Rules[i].Pattern = pattern
			b.Rules[i].Enabled = enabled
			return b.Rules[i], nil
		}
	}
	return api.Rule{}, cperrors.NotFound("Rule", name)
}

func (s *eventBus) DeleteRule(ctx context.Context, bus, name string) error {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	b, ok := s.w.buses[bus]
	if !ok {
		return cperrors.NotFound("EventBus", bus)
	}
	for i, r := range b.Rules {
		if r.Name == name {
			b.Rules = append(b.Rules[:i], b.Rules[i+1:]...)
			return nil
		}
	}
	return cperrors.NotFound("Rule", name)
}

func (s *eventBus) ListRules(ctx context.Context, bus string) ([]api.Rule, error) {
	s.w.busesMu.RLock()
	defer s.w.busesMu.RUnlock()
	b, ok := s.w.buses[bus]
	if !ok {
		return nil, cperrors.NotFound("EventBus", bus)
	}
	out := make([]api.Rule, len(b.Rules))
	copy(out, b.Rules)
	return out, nil
}

func (s *eventBus) AddTarget(ctx context.Context, bus, rule string, target api.Target) error {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	b, ok := s.w.buses[bus]
	if !ok {
		return cperrors.NotFound("EventBus", bus)
	}
	for i := range b.Rules {
		if b.Rules[i].Name == rule {
			b.Rules[i].Targets = append(b.Rules[i].Targets, target)
			return nil
		}
	}
	return cperrors.NotFound("Rule", rule)
}

func (s *eventBus) RemoveTarget(ctx context.Context, bus, rule, targetID string) error {
	s.w.busesMu.Lock()
	defer s.w.busesMu.Unlock()
	b, ok := s.w.buses[bus]
	if !ok {
		return cperrors.NotFound("EventBus", bus)
	}
	for i := range b.Rules {
		if b.Rules[i].Name != rule {
			continue
		}
		targets := b.Rules[i].Targets
		for j, t := range targets {
			if t.ID == targetID {
				b.Rules[i].Targets = append(targets[:j], targets[j+1:]...)
				return nil
			}
		}
		return cperrors.NotFound("Target", targetID)
	}
	return cperrors.NotFound("Rule", rule)
}

// matchPattern: Source/Type
// match by membership when non-empty, and Data (when present) is a
// top-level subset match — every key in the pattern must be present in the
// event's data with an equal value; nested structures are compared with
// reflect.DeepEqual and so only match when identical, never deep-merged.
func matchPattern(p api.EventPattern, e api.Event) bool {
	if len(p.Source) > 0 && !containsStr(p.Source, e.Source) {
		return false
	}
	if len(p.Type) > 0 && !containsStr(p.Type, e.Type) {
		return false
	}
	for k, v := range p.Data {
		ev, ok := e.Data[k]
		if !ok || !reflect.DeepEqual(ev, v) {
			return false
		}
	}
	return true
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (w *world) publishEvent(bus string, event api.Event) (string, error) {
	w.busesMu.Lock()
	defer w.busesMu.Unlock()
	b, ok := w.buses[bus]
	if !ok {
		return "", cperrors.NotFound("EventBus", bus)
	}
	event.ID = w.nextID("event")
	if event.Time.IsZero() {
		event.Time = w.now()
	}
	w.deliveriesMu.Lock()
	for _, r := range b.Rules {
		if r.Enabled && matchPattern(r.Pattern, event) {
			// Mock delivery is matching-only: a matched rule's
			// targets are not actually invoked, since targets reference
			// other provider resources outside this world's scope. The
			// match is still recorded once per target so contract tests
			// can assert "exactly once per matching target".
			for _, t := range r.Targets {
				w.deliveries[bus+"/"+r.Name+"/"+t.ID]++
			}
		}
	}
	w.deliveriesMu.Unlock()
	return event.ID, nil
}

func (s *eventBus) PublishEvent(ctx context.Context, bus string, event api.Event) (string, error) {
	s.w.injectLatency()
	return s.w.publishEvent(bus, event)
}

// DeliveryCount reports how many times target has matched on rule within
// bus, used only by this package's own tests.
func (s *eventBus) DeliveryCount(bus, rule, targetID string) int {
	s.w.deliveriesMu.Lock()
	defer s.w.deliveriesMu.Unlock()
	return s.w.deliveries[bus+"/"+rule+"/"+targetID]
}
