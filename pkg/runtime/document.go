package runtime

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// DocumentClient is get/put/update/delete/query over an existing document
// collection.
type DocumentClient interface {
	Get(ctx context.Context, collection, key string) (api.Document, error)
	Put(ctx context.Context, collection, key string, data map[string]any) (api.Document, error)
	Update(ctx context.Context, collection, key string, data map[string]any, expectedETag string) (api.Document, error)
	Delete(ctx context.Context, collection, key string) error
	Query(ctx context.Context, collection string, partial map[string]any) ([]api.Document, error)
}
