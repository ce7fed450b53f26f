package aws

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const eventBusServiceName = "eventbridge"

// eventBus adapts control.EventBusService to Amazon EventBridge.
// Rule state (pattern/targets/enabled)
// is read back from EventBridge itself rather than cached locally, unlike
// the mock world's in-memory Rule slice, since EventBridge is already the
// durable store for it.
type eventBus struct {
	base
	client *eventbridge.Client
}

var _ control.EventBusService = (*eventBus)(nil)

func newEventBus(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := eventbridge.NewFromConfig(awsCfg, func(o *eventbridge.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &eventBus{base: newBase(cfg, shared), client: client}, nil
}

func (s *eventBus) CreateBus(ctx context.Context, name string) (api.EventBus, error) {
	return do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (api.EventBus, error) {
		_, err := s.client.CreateEventBus(ctx, &eventbridge.CreateEventBusInput{Name: aws.String(name)})
		if err != nil {
			return api.EventBus{}, err
		}
		return api.EventBus{Name: name}, nil
	})
}

func (s *eventBus) GetBus(ctx context.Context, name string) (api.EventBus, error) {
	return do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (api.EventBus, error) {
		if _, err := s.client.DescribeEventBus(ctx, &eventbridge.DescribeEventBusInput{Name: aws.String(name)}); err != nil {
			return api.EventBus{}, err
		}
		rules, err := s.listRules(ctx, name)
		if err != nil {
			return api.EventBus{}, err
		}
		return api.EventBus{Name: name, Rules: rules}, nil
	})
}

func (s *eventBus) DeleteBus(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteEventBus(ctx, &eventbridge.DeleteEventBusInput{Name: aws.String(name)})
		return struct{}{}, err
	})
	return err
}

func patternJSON(p api.EventPattern) (string, error) {
	doc := map[string]any{}
	if len(p.Source) > 0 {
		doc["source"] = p.Source
	}
	if len(p.Type) > 0 {
		doc["detail-type"] = p.Type
	}
	if len(p.Data) > 0 {
		detail := map[string]any{}
		for k, v := range p.Data {
			detail[k] = []any{v}
		}
		doc["detail"] = detail
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

func (s *eventBus) CreateRule(ctx context.Context, bus, name string, pattern api.EventPattern, enabled bool) (api.Rule, error) {
	return do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (api.Rule, error) {
		patternStr, err := patternJSON(pattern)
		if err != nil {
			return api.Rule{}, err
		}
		state := types.RuleStateDisabled
		if enabled {
			state = types.RuleStateEnabled
		}
		_, err = s.client.PutRule(ctx, &eventbridge.PutRuleInput{
			Name:         aws.String(name),
			EventBusName: aws.String(bus),
			EventPattern: aws.String(patternStr),
			State:        state,
		})
		if err != nil {
			return api.Rule{}, err
		}
		return api.Rule{Name: name, Pattern: pattern, Enabled: enabled}, nil
	})
}

func (s *eventBus) UpdateRule(ctx context.Context, bus, name string, pattern api.EventPattern, enabled bool) (api.Rule, error) {
	return s.CreateRule(ctx, bus, name, pattern, enabled)
}

func (s *eventBus) DeleteRule(ctx context.Context, bus, name string) error {
	_, err := do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteRule(ctx, &eventbridge.DeleteRuleInput{Name: aws.String(name), EventBusName: aws.String(bus)})
		return struct{}{}, err
	})
	return err
}

func (s *eventBus) listRules(ctx context.Context, bus string) ([]api.Rule, error) {
	out, err := s.client.ListRules(ctx, &eventbridge.ListRulesInput{EventBusName: aws.String(bus)})
	if err != nil {
		return nil, err
	}
	rules := make([]api.Rule, 0, len(out.Rules))
	for _, r := range out.Rules {
		targetsOut, err := s.client.ListTargetsByRule(ctx, &eventbridge.ListTargetsByRuleInput{Rule: r.Name, EventBusName: aws.String(bus)})
		if err != nil {
			return nil, err
		}
		targets := make([]api.Target, 0, len(targetsOut.Targets))
		for _, t := range targetsOut.Targets {
			targets = append(targets, api.Target{ID: aws.ToString(t.Id), ARN: aws.ToString(t.Arn)})
		}
		rules = append(rules, api.Rule{
			Name:    aws.ToString(r.Name),
			Enabled: r.State == types.RuleStateEnabled,
			Targets: targets,
		})
	}
	return rules, nil
}

func (s *eventBus) ListRules(ctx context.Context, bus string) ([]api.Rule, error) {
	return do(ctx, s.base, eventBusServiceName, func(ctx context.Context) ([]api.Rule, error) {
		return s.listRules(ctx, bus)
	})
}

func (s *eventBus) AddTarget(ctx context.Context, bus, rule string, target api.Target) error {
	_, err := do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.PutTargets(ctx, &eventbridge.PutTargetsInput{
			Rule:         aws.String(rule),
			EventBusName: aws.String(bus),
			Targets:      []types.Target{{Id: aws.String(target.ID), Arn: aws.String(target.ARN)}},
		})
		return struct{}{}, err
	})
	return err
}

func (s *eventBus) RemoveTarget(ctx context.Context, bus, rule, targetID string) error {
	_, err := do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
			Rule:         aws.String(rule),
			EventBusName: aws.String(bus),
			Ids:          []string{targetID},
		})
		return struct{}{}, err
	})
	return err
}

func (s *eventBus) publish(ctx context.Context, bus string, event api.Event) (string, error) {
	return do(ctx, s.base, eventBusServiceName, func(ctx context.Context) (string, error) {
		detail, err := json.Marshal(event.Data)
		if err != nil {
			return "", err
		}
		out, err := s.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: []types.PutEventsRequestEntry{{
				EventBusName: aws.String(bus),
				Source:       aws.String(event.Source),
				DetailType:   aws.String(event.Type),
				Detail:       aws.String(string(detail)),
			}},
		})
		if err != nil {
			return "", err
		}
		if len(out.Entries) > 0 {
			return aws.ToString(out.Entries[0].EventId), nil
		}
		return "", nil
	})
}

func (s *eventBus) PublishEvent(ctx context.Context, bus string, event api.Event) (string, error) {
	return s.publish(ctx, bus, event)
}

// eventPublisher adapts runtime.EventPublisher to the same EventBridge
// client.
type eventPublisher struct {
	svc *eventBus
}

var _ runtime.EventPublisher = (*eventPublisher)(nil)

func newEventPublisher(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newEventBus(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &eventPublisher{svc: s.(*eventBus)}, nil
}

func (c *eventPublisher) Publish(ctx context.Context, bus string, event api.Event) (string, error) {
	return c.svc.publish(ctx, bus, event)
}

func (c *eventPublisher) PublishBatch(ctx context.Context, bus string, events []api.Event) ([]string, error) {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		id, err := c.svc.publish(ctx, bus, e)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
