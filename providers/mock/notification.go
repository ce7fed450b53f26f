package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type notification struct{ w *world }

var _ control.NotificationService = (*notification)(nil)

func (s *notification) CreateTopic(ctx context.Context, name string) (api.Topic, error) {
	s.w.topicsMu.Lock()
	defer s.w.topicsMu.Unlock()
	if _, exists := s.w.topics[name]; exists {
		return api.Topic{}, cperrors.ConflictErr(name, "topic %q already exists", name)
	}
	t := &api.Topic{Name: name, ARN: fmt.Sprintf("arn:mock:sns:topic:%s", name), Created: s.w.now()}
	s.w.topics[name] = t
	return *t, nil
}

func (s *notification) GetTopic(ctx context.Context, name string) (api.Topic, error) {
	s.w.topicsMu.RLock()
	defer s.w.topicsMu.RUnlock()
	t, ok := s.w.topics[name]
	if !ok {
		return api.Topic{}, cperrors.NotFound("Topic", name)
	}
	return *t, nil
}

func (s *notification) DeleteTopic(ctx context.Context, name string) error {
	s.w.topicsMu.Lock()
	defer s.w.topicsMu.Unlock()
	if _, ok := s.w.topics[name]; !ok {
		return cperrors.NotFound("Topic", name)
	}
	delete(s.w.topics, name)
	return nil
}

func (s *notification) ListTopics(ctx context.Context) ([]api.Topic, error) {
	s.w.topicsMu.RLock()
	defer s.w.topicsMu.RUnlock()
	out := make([]api.Topic, 0, len(s.w.topics))
	for _, t := range s.w.topics {
		out = append(out, *t)
	}
	return out, nil
}

func (s *notification) Subscribe(ctx context.Context, topic, protocol, endpoint string) (api.Subscription, error) {
	s.w.topicsMu.Lock()
	defer s.w.topicsMu.Unlock()
	t, ok := s.w.topics[topic]
	if !ok {
		return api.Subscription{}, cperrors.NotFound("Topic", topic)
	}
	sub := api.Subscription{
		ID:       s.w.nextID("subscription"),
		Protocol: protocol,
		Endpoint: endpoint,
		Status:   api.SubscriptionPending,
	}
	// email/sms are simulated as auto-confirmed; everything else needs an
	// explicit ConfirmSubscription call, matching how SNS really behaves
	// for HTTP(S) endpoints.
	if protocol == "email" || protocol == "sms" {
		sub.Status = api.SubscriptionConfirmed
		sub.Confirmed = true
	}
	t.Subscriptions = append(t.Subscriptions, sub)
	return sub, nil
}

func (s *notification) ConfirmSubscription(ctx context.Context, topic, subscriptionID, token string) error {
	s.w.topicsMu.Lock()
	defer s.w.topicsMu.Unlock()
	t, ok := s.w.topics[topic]
	if !ok {
		return cperrors.NotFound("Topic", topic)
	}
	for i := range t.Subscriptions {
		if t.Subscriptions[i].ID == subscriptionID {
			t.Subscriptions[i].Status = api.SubscriptionConfirmed
			t.Subscriptions[i].Confirmed = true
			return nil
		}
	}
	return cperrors.NotFound("Subscription", subscriptionID)
}

func (s *notification) Unsubscribe(ctx context.Context, topic, subscriptionID string) error {
	s.w.topicsMu.Lock()
	defer s.w.topicsMu.Unlock()
	t, ok := s.w.topics[topic]
	if !ok {
		return cperrors.NotFound("Topic", topic)
	}
	for i := range t.Subscriptions {
		if t.Subscriptions[i].ID == subscriptionID {
			t.Subscriptions[i].Status = api.SubscriptionUnsubscribed
			return nil
		}
	}
	return cperrors.NotFound("Subscription", subscriptionID)
}

func (w *world) publishToTopic(topic string, subject, message string, attributes map[string]string) (string, error) {
	w.topicsMu.RLock()
	_, ok := w.topics[topic]
	w.topicsMu.RUnlock()
	if !ok {
		return "", cperrors.NotFound("Topic", topic)
	}
	return w.nextID("notification"), nil
}

func (s *notification) PublishToTopic(ctx context.Context, topic string, subject, message string, attributes map[string]string) (string, error) {
	s.w.injectLatency()
	return s.w.publishToTopic(topic, subject, message, attributes)
}

func (s *notification) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	s.w.injectLatency()
	return s.w.nextID("email"), nil
}

func (s *notification) SendSMS(ctx context.Context, to, body string) (string, error) {
	s.w.injectLatency()
	return s.w.nextID("sms"), nil
}
