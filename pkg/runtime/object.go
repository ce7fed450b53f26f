package runtime

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// ObjectClient reads and writes objects in an existing bucket.
type ObjectClient interface {
	Get(ctx context.Context, bucket, key string) (api.ObjectData, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (api.ObjectMetadata, error)
	Delete(ctx context.Context, bucket, key string) error
	List(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error)
}
