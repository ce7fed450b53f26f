package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const notificationServiceName = "sns"

// notification adapts control.NotificationService to Amazon SNS.
// SendEmail/SendSMS are modeled as direct-to-endpoint SNS publishes, the
// way SNS itself supports SMS without a topic; email delivery in a real
// deployment would sit behind SES, out of scope for this thin adapter.
type notification struct {
	base
	client *sns.Client
	arns   map[string]string
}

var _ control.NotificationService = (*notification)(nil)

func newNotification(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &notification{base: newBase(cfg, shared), client: client, arns: make(map[string]string)}, nil
}

func (s *notification) arnFor(ctx context.Context, name string) (string, error) {
	if arn, ok := s.arns[name]; ok {
		return arn, nil
	}
	out, err := s.client.CreateTopic(ctx, &sns.CreateTopicInput{Name: aws.String(name)})
	if err != nil {
		return "", translate(notificationServiceName, err)
	}
	s.arns[name] = aws.ToString(out.TopicArn)
	return s.arns[name], nil
}

func (s *notification) CreateTopic(ctx context.Context, name string) (api.Topic, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) (api.Topic, error) {
		arn, err := s.arnFor(ctx, name)
		if err != nil {
			return api.Topic{}, err
		}
		return api.Topic{Name: name, ARN: arn}, nil
	})
}

func (s *notification) GetTopic(ctx context.Context, name string) (api.Topic, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) (api.Topic, error) {
		arn, err := s.arnFor(ctx, name)
		if err != nil {
			return api.Topic{}, err
		}
		out, err := s.client.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{TopicArn: aws.String(arn)})
		if err != nil {
			return api.Topic{}, err
		}
		subs := make([]api.Subscription, 0, len(out.Subscriptions))
		for _, sub := range out.Subscriptions {
			status := api.SubscriptionPending
			if aws.ToString(sub.SubscriptionArn) != "PendingConfirmation" {
				status = api.SubscriptionConfirmed
			}
			subs = append(subs, api.Subscription{
				ID:        aws.ToString(sub.SubscriptionArn),
				Protocol:  aws.ToString(sub.Protocol),
				Endpoint:  aws.ToString(sub.Endpoint),
				Status:    status,
				Confirmed: status == api.SubscriptionConfirmed,
			})
		}
		return api.Topic{Name: name, ARN: arn, Subscriptions: subs}, nil
	})
}

func (s *notification) DeleteTopic(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, notificationServiceName, func(ctx context.Context) (struct{}, error) {
		arn, err := s.arnFor(ctx, name)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.DeleteTopic(ctx, &sns.DeleteTopicInput{TopicArn: aws.String(arn)})
		delete(s.arns, name)
		return struct{}{}, err
	})
	return err
}

func (s *notification) ListTopics(ctx context.Context) ([]api.Topic, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) ([]api.Topic, error) {
		out, err := s.client.ListTopics(ctx, &sns.ListTopicsInput{})
		if err != nil {
			return nil, err
		}
		topics := make([]api.Topic, 0, len(out.Topics))
		for _, t := range out.Topics {
			topics = append(topics, api.Topic{ARN: aws.ToString(t.TopicArn)})
		}
		return topics, nil
	})
}

func (s *notification) Subscribe(ctx context.Context, topic, protocol, endpoint string) (api.Subscription, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) (api.Subscription, error) {
		arn, err := s.arnFor(ctx, topic)
		if err != nil {
			return api.Subscription{}, err
		}
		out, err := s.client.Subscribe(ctx, &sns.SubscribeInput{
			TopicArn: aws.String(arn),
			Protocol: aws.String(protocol),
			Endpoint: aws.String(endpoint),
		})
		if err != nil {
			return api.Subscription{}, err
		}
		id := aws.ToString(out.SubscriptionArn)
		confirmed := id != "pending confirmation"
		status := api.SubscriptionPending
		if confirmed {
			status = api.SubscriptionConfirmed
		}
		return api.Subscription{ID: id, Protocol: protocol, Endpoint: endpoint, Status: status, Confirmed: confirmed}, nil
	})
}

func (s *notification) ConfirmSubscription(ctx context.Context, topic, subscriptionID, token string) error {
	_, err := do(ctx, s.base, notificationServiceName, func(ctx context.Context) (struct{}, error) {
		arn, err := s.arnFor(ctx, topic)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.ConfirmSubscription(ctx, &sns.ConfirmSubscriptionInput{TopicArn: aws.String(arn), Token: aws.String(token)})
		return struct{}{}, err
	})
	return err
}

func (s *notification) Unsubscribe(ctx context.Context, topic, subscriptionID string) error {
	_, err := do(ctx, s.base, notificationServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.Unsubscribe(ctx, &sns.UnsubscribeInput{SubscriptionArn: aws.String(subscriptionID)})
		return struct{}{}, err
	})
	return err
}

func (s *notification) publish(ctx context.Context, topic string, subject, message string, attributes map[string]string) (string, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) (string, error) {
		arn, err := s.arnFor(ctx, topic)
		if err != nil {
			return "", err
		}
		in := &sns.PublishInput{TopicArn: aws.String(arn), Message: aws.String(message)}
		if subject != "" {
			in.Subject = aws.String(subject)
		}
		if len(attributes) > 0 {
			in.MessageAttributes = make(map[string]types.MessageAttributeValue, len(attributes))
			for k, v := range attributes {
				in.MessageAttributes[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
			}
		}
		out, err := s.client.Publish(ctx, in)
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	})
}

func (s *notification) PublishToTopic(ctx context.Context, topic string, subject, message string, attributes map[string]string) (string, error) {
	return s.publish(ctx, topic, subject, message, attributes)
}

// SendEmail/SendSMS model direct endpoint delivery via SNS's phone-number
// publish path; SendEmail is a thin stand-in.
func (s *notification) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) (string, error) {
		out, err := s.client.Publish(ctx, &sns.PublishInput{
			Message: aws.String(body),
			Subject: aws.String(subject),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"to": {DataType: aws.String("String"), StringValue: aws.String(to)},
			},
			TopicArn: nil,
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	})
}

func (s *notification) SendSMS(ctx context.Context, to, body string) (string, error) {
	return do(ctx, s.base, notificationServiceName, func(ctx context.Context) (string, error) {
		out, err := s.client.Publish(ctx, &sns.PublishInput{PhoneNumber: aws.String(to), Message: aws.String(body)})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	})
}

// notificationClient adapts runtime.NotificationClient to the same SNS
// client.
type notificationClient struct {
	svc *notification
}

var _ runtime.NotificationClient = (*notificationClient)(nil)

func newNotificationClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newNotification(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &notificationClient{svc: s.(*notification)}, nil
}

func (c *notificationClient) Publish(ctx context.Context, topic, subject, message string, attributes map[string]string) (string, error) {
	return c.svc.publish(ctx, topic, subject, message, attributes)
}

func (c *notificationClient) PublishBatch(ctx context.Context, topic string, messages []string) ([]string, error) {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		id, err := c.svc.publish(ctx, topic, "", m, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
