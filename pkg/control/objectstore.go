package control

import (
	"context"
	"time"

	"github.com/stainedhead/lc-platform/api"
)

// ObjectStoreService manages buckets and objects. (bucket,key)
// uniquely identifies an object; ETag changes on content change.
type ObjectStoreService interface {
	CreateBucket(ctx context.Context, name string, opts api.BucketOptions) error
	DeleteBucket(ctx context.Context, name string) error

	PutObject(ctx context.Context, bucket, key string, data []byte, contentType string, metadata map[string]string) (api.ObjectMetadata, error)
	GetObject(ctx context.Context, bucket, key string) (api.ObjectData, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error)
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (api.ObjectMetadata, error)
	GeneratePresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
