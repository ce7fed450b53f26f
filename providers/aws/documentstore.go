package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const documentStoreServiceName = "dynamodb"

const documentKeyAttr = "pk"

// documentStore adapts control.DocumentStoreService to Amazon DynamoDB.
// Collections map one-to-one to tables; the
// document key is a single partition key attribute (documentKeyAttr) and
// ETag is tracked as an explicit "etag" item attribute, since DynamoDB's
// native item version is a ConditionExpression affair, not a field it
// returns unconditionally the way the mock's synthetic ETag is.
type documentStore struct {
	base
	client *dynamodb.Client
}

var _ control.DocumentStoreService = (*documentStore)(nil)

func newDocumentStore(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &documentStore{base: newBase(cfg, shared), client: client}, nil
}

func (s *documentStore) CreateCollection(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(name),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(documentKeyAttr), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(documentKeyAttr), KeyType: types.KeyTypeHash},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		return struct{}{}, err
	})
	return err
}

func (s *documentStore) DeleteCollection(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)})
		return struct{}{}, err
	})
	return err
}

func itemToDocument(collection, key string, item map[string]types.AttributeValue) (api.Document, error) {
	data := make(map[string]any, len(item))
	if err := attributevalue.UnmarshalMap(item, &data); err != nil {
		return api.Document{}, err
	}
	etag, _ := data["etag"].(string)
	delete(data, "etag")
	delete(data, documentKeyAttr)
	return api.Document{Collection: collection, Key: key, Data: data, ETag: etag}, nil
}

func (s *documentStore) GetDocument(ctx context.Context, collection, key string) (api.Document, error) {
	return do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) (api.Document, error) {
		out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(collection),
			Key:       map[string]types.AttributeValue{documentKeyAttr: &types.AttributeValueMemberS{Value: key}},
		})
		if err != nil {
			return api.Document{}, err
		}
		if out.Item == nil {
			return api.Document{}, cperrors.NotFound("Document", key)
		}
		return itemToDocument(collection, key, out.Item)
	})
}

func (s *documentStore) putWithETag(ctx context.Context, collection, key string, data map[string]any, etag string) (api.Document, error) {
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return api.Document{}, err
	}
	item[documentKeyAttr] = &types.AttributeValueMemberS{Value: key}
	item["etag"] = &types.AttributeValueMemberS{Value: etag}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(collection), Item: item})
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{Collection: collection, Key: key, Data: data, ETag: etag}, nil
}

func (s *documentStore) PutDocument(ctx context.Context, collection, key string, data map[string]any) (api.Document, error) {
	return do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) (api.Document, error) {
		return s.putWithETag(ctx, collection, key, data, s.nextETag())
	})
}

// nextETag generates a fresh opaque version token per write. DynamoDB items
// don't expose a stable content hash without reading them back, so the
// adapter mints a UUID instead.
func (s *documentStore) nextETag() string {
	return uuid.NewString()
}

func (s *documentStore) UpdateDocument(ctx context.Context, collection, key string, data map[string]any, expectedETag string) (api.Document, error) {
	return do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) (api.Document, error) {
		if expectedETag != "" {
			current, err := s.GetDocument(ctx, collection, key)
			if err != nil {
				return api.Document{}, err
			}
			if current.ETag != expectedETag {
				return api.Document{}, cperrors.ConflictErr(key, "document %q has ETag %q, expected %q", key, current.ETag, expectedETag)
			}
		}
		return s.putWithETag(ctx, collection, key, data, s.nextETag())
	})
}

func (s *documentStore) DeleteDocument(ctx context.Context, collection, key string) error {
	_, err := do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(collection),
			Key:       map[string]types.AttributeValue{documentKeyAttr: &types.AttributeValueMemberS{Value: key}},
		})
		return struct{}{}, err
	})
	return err
}

func (s *documentStore) Query(ctx context.Context, collection string, partial map[string]any) ([]api.Document, error) {
	return do(ctx, s.base, documentStoreServiceName, func(ctx context.Context) ([]api.Document, error) {
		var filter expression.ConditionBuilder
		first := true
		for k, v := range partial {
			cond := expression.Name(k).Equal(expression.Value(v))
			if first {
				filter = cond
				first = false
			} else {
				filter = filter.And(cond)
			}
		}
		input := &dynamodb.ScanInput{TableName: aws.String(collection)}
		if !first {
			expr, err := expression.NewBuilder().WithFilter(filter).Build()
			if err != nil {
				return nil, err
			}
			input.FilterExpression = expr.Filter()
			input.ExpressionAttributeNames = expr.Names()
			input.ExpressionAttributeValues = expr.Values()
		}
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		docs := make([]api.Document, 0, len(out.Items))
		for _, item := range out.Items {
			key, _ := item[documentKeyAttr].(*types.AttributeValueMemberS)
			k := ""
			if key != nil {
				k = key.Value
			}
			doc, err := itemToDocument(collection, k, item)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	})
}

// documentClient adapts runtime.DocumentClient to the same DynamoDB
// client.
type documentClient struct {
	svc *documentStore
}

var _ runtime.DocumentClient = (*documentClient)(nil)

func newDocumentClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newDocumentStore(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &documentClient{svc: s.(*documentStore)}, nil
}

func (c *documentClient) Get(ctx context.Context, collection, key string) (api.Document, error) {
	return c.svc.GetDocument(ctx, collection, key)
}

func (c *documentClient) Put(ctx context.Context, collection, key string, data map[string]any) (api.Document, error) {
	return c.svc.PutDocument(ctx, collection, key, data)
}

func (c *documentClient) Update(ctx context.Context, collection, key string, data map[string]any, expectedETag string) (api.Document, error) {
	return c.svc.UpdateDocument(ctx, collection, key, data, expectedETag)
}

func (c *documentClient) Delete(ctx context.Context, collection, key string) error {
	return c.svc.DeleteDocument(ctx, collection, key)
}

func (c *documentClient) Query(ctx context.Context, collection string, partial map[string]any) ([]api.Document, error) {
	return c.svc.Query(ctx, collection, partial)
}
