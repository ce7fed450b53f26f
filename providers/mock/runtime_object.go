package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type objectClient struct{ w *world }

var _ runtime.ObjectClient = (*objectClient)(nil)

func (c *objectClient) Get(ctx context.Context, bucket, key string) (api.ObjectData, error) {
	c.w.injectLatency()
	return c.w.getObject(bucket, key)
}

func (c *objectClient) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (api.ObjectMetadata, error) {
	c.w.injectLatency()
	return c.w.putObject(bucket, key, data, contentType, nil)
}

func (c *objectClient) Delete(ctx context.Context, bucket, key string) error {
	c.w.injectLatency()
	return c.w.deleteObject(bucket, key)
}

func (c *objectClient) List(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error) {
	c.w.injectLatency()
	return c.w.listObjects(bucket, prefix)
}
