package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type documentClient struct{ w *world }

var _ runtime.DocumentClient = (*documentClient)(nil)

func (c *documentClient) Get(ctx context.Context, collection, key string) (api.Document, error) {
	c.w.injectLatency()
	return c.w.getDocument(collection, key)
}

func (c *documentClient) Put(ctx context.Context, collection, key string, data map[string]any) (api.Document, error) {
	c.w.injectLatency()
	return c.w.putDocument(collection, key, data)
}

func (c *documentClient) Update(ctx context.Context, collection, key string, data map[string]any, expectedETag string) (api.Document, error) {
	c.w.injectLatency()
	return c.w.updateDocument(collection, key, data, expectedETag)
}

func (c *documentClient) Delete(ctx context.Context, collection, key string) error {
	c.w.injectLatency()
	return c.w.deleteDocument(collection, key)
}

func (c *documentClient) Query(ctx context.Context, collection string, partial map[string]any) ([]api.Document, error) {
	c.w.injectLatency()
	return c.w.queryDocuments(collection, partial)
}
