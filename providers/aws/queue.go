package aws

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const queueServiceName = "sqs"

// queueSvc adapts control.QueueService to Amazon SQS.
type queueSvc struct {
	base
	client *sqs.Client
	// urls caches queue name -> URL so data-plane calls don't need a
	// GetQueueUrl round trip on every Send/Receive (mirrors SQS's own
	// guidance to cache queue URLs client-side).
	urls map[string]string
}

var _ control.QueueService = (*queueSvc)(nil)

func newQueueSvc(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &queueSvc{base: newBase(cfg, shared), client: client, urls: make(map[string]string)}, nil
}

func (s *queueSvc) urlFor(ctx context.Context, name string) (string, error) {
	if u, ok := s.urls[name]; ok {
		return u, nil
	}
	out, err := s.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(name)})
	if err != nil {
		return "", translate(queueServiceName, err)
	}
	s.urls[name] = aws.ToString(out.QueueUrl)
	return s.urls[name], nil
}

func (s *queueSvc) CreateQueue(ctx context.Context, name string, opts api.QueueOptions) (api.Queue, error) {
	return do(ctx, s.base, queueServiceName, func(ctx context.Context) (api.Queue, error) {
		attrs := map[string]string{
			"VisibilityTimeout":      strconv.Itoa(opts.VisibilityTimeout),
			"MessageRetentionPeriod": strconv.Itoa(opts.MessageRetention),
		}
		if opts.MaxMessageSize > 0 {
			attrs["MaximumMessageSize"] = strconv.Itoa(opts.MaxMessageSize)
		}
		queueName := name
		if opts.FIFO {
			queueName += ".fifo"
			attrs["FifoQueue"] = "true"
		}
		out, err := s.client.CreateQueue(ctx, &sqs.CreateQueueInput{QueueName: aws.String(queueName), Attributes: attrs})
		if err != nil {
			return api.Queue{}, err
		}
		s.urls[name] = aws.ToString(out.QueueUrl)
		return api.Queue{
			Name:                   name,
			URL:                    aws.ToString(out.QueueUrl),
			FIFO:                   opts.FIFO,
			VisibilityTimeout:      opts.VisibilityTimeout,
			MessageRetentionSecs:   opts.MessageRetention,
			MaxMessageSize:         opts.MaxMessageSize,
			EnableDeadLetter:       opts.EnableDeadLetter,
			DeadLetterAfterRetries: opts.DeadLetterAfterRetries,
		}, nil
	})
}

func (s *queueSvc) GetQueue(ctx context.Context, name string) (api.Queue, error) {
	return do(ctx, s.base, queueServiceName, func(ctx context.Context) (api.Queue, error) {
		url, err := s.urlFor(ctx, name)
		if err != nil {
			return api.Queue{}, err
		}
		out, err := s.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
			QueueUrl:       aws.String(url),
			AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameAll},
		})
		if err != nil {
			return api.Queue{}, err
		}
		q := api.Queue{Name: name, URL: url}
		if v, err := strconv.Atoi(out.Attributes["ApproximateNumberOfMessages"]); err == nil {
			q.MessageCount = v
		}
		if v, err := strconv.Atoi(out.Attributes["VisibilityTimeout"]); err == nil {
			q.VisibilityTimeout = v
		}
		if v, err := strconv.Atoi(out.Attributes["MessageRetentionPeriod"]); err == nil {
			q.MessageRetentionSecs = v
		}
		q.FIFO = out.Attributes["FifoQueue"] == "true"
		return q, nil
	})
}

func (s *queueSvc) DeleteQueue(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, queueServiceName, func(ctx context.Context) (struct{}, error) {
		url, err := s.urlFor(ctx, name)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.DeleteQueue(ctx, &sqs.DeleteQueueInput{QueueUrl: aws.String(url)})
		delete(s.urls, name)
		return struct{}{}, err
	})
	return err
}

func (s *queueSvc) ListQueues(ctx context.Context) ([]api.Queue, error) {
	return do(ctx, s.base, queueServiceName, func(ctx context.Context) ([]api.Queue, error) {
		out, err := s.client.ListQueues(ctx, &sqs.ListQueuesInput{})
		if err != nil {
			return nil, err
		}
		queues := make([]api.Queue, 0, len(out.QueueUrls))
		for _, url := range out.QueueUrls {
			queues = append(queues, api.Queue{URL: url})
		}
		return queues, nil
	})
}

func (s *queueSvc) PurgeQueue(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, queueServiceName, func(ctx context.Context) (struct{}, error) {
		url, err := s.urlFor(ctx, name)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.PurgeQueue(ctx, &sqs.PurgeQueueInput{QueueUrl: aws.String(url)})
		return struct{}{}, err
	})
	return err
}

func (s *queueSvc) sendMessage(ctx context.Context, queue string, msg api.Message) (string, error) {
	return do(ctx, s.base, queueServiceName, func(ctx context.Context) (string, error) {
		url, err := s.urlFor(ctx, queue)
		if err != nil {
			return "", err
		}
		in := &sqs.SendMessageInput{QueueUrl: aws.String(url), MessageBody: aws.String(msg.Body)}
		if msg.GroupID != nil {
			in.MessageGroupId = msg.GroupID
		}
		if msg.DeduplicationID != nil {
			in.MessageDeduplicationId = msg.DeduplicationID
		}
		if len(msg.Attributes) > 0 {
			in.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.Attributes))
			for k, v := range msg.Attributes {
				in.MessageAttributes[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
			}
		}
		out, err := s.client.SendMessage(ctx, in)
		if err != nil {
			return "", err
		}
		return aws.ToString(out.MessageId), nil
	})
}

func (s *queueSvc) receiveMessages(ctx context.Context, queue string, maxMessages int) ([]api.Message, error) {
	return do(ctx, s.base, queueServiceName, func(ctx context.Context) ([]api.Message, error) {
		url, err := s.urlFor(ctx, queue)
		if err != nil {
			return nil, err
		}
		if maxMessages <= 0 || maxMessages > 10 {
			maxMessages = 10
		}
		out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(url),
			MaxNumberOfMessages:   int32(maxMessages),
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			return nil, err
		}
		msgs := make([]api.Message, 0, len(out.Messages))
		for _, m := range out.Messages {
			attrs := make(map[string]string, len(m.MessageAttributes))
			for k, v := range m.MessageAttributes {
				attrs[k] = aws.ToString(v.StringValue)
			}
			msgs = append(msgs, api.Message{
				ID:            aws.ToString(m.MessageId),
				Body:          aws.ToString(m.Body),
				Attributes:    attrs,
				ReceiptHandle: aws.ToString(m.ReceiptHandle),
			})
		}
		return msgs, nil
	})
}

func (s *queueSvc) deleteMessage(ctx context.Context, queue, receiptHandle string) error {
	_, err := do(ctx, s.base, queueServiceName, func(ctx context.Context) (struct{}, error) {
		url, err := s.urlFor(ctx, queue)
		if err != nil {
			return struct{}{}, err
		}
		_, err = s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{QueueUrl: aws.String(url), ReceiptHandle: aws.String(receiptHandle)})
		return struct{}{}, err
	})
	return err
}

func (s *queueSvc) SendMessage(ctx context.Context, queue string, msg api.Message) (string, error) {
	return s.sendMessage(ctx, queue, msg)
}

func (s *queueSvc) ReceiveMessages(ctx context.Context, queue string, maxMessages int, waitSeconds int) ([]api.Message, error) {
	return s.receiveMessages(ctx, queue, maxMessages)
}

func (s *queueSvc) DeleteMessage(ctx context.Context, queue string, receiptHandle string) error {
	return s.deleteMessage(ctx, queue, receiptHandle)
}

// queueClient adapts runtime.QueueClient to the same SQS client.
type queueClient struct {
	svc *queueSvc
}

var _ runtime.QueueClient = (*queueClient)(nil)

func newQueueClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newQueueSvc(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &queueClient{svc: s.(*queueSvc)}, nil
}

func (c *queueClient) Send(ctx context.Context, queue string, msg api.Message) (string, error) {
	return c.svc.sendMessage(ctx, queue, msg)
}

func (c *queueClient) Receive(ctx context.Context, queue string, maxMessages int) ([]api.Message, error) {
	return c.svc.receiveMessages(ctx, queue, maxMessages)
}

func (c *queueClient) Acknowledge(ctx context.Context, queue string, receiptHandle string) error {
	return c.svc.deleteMessage(ctx, queue, receiptHandle)
}
