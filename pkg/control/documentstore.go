package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// DocumentStoreService provides NoSQL document CRUD and partial-match
// query, with optimistic updates conditioned on ETag.
type DocumentStoreService interface {
	CreateCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error

	GetDocument(ctx context.Context, collection, key string) (api.Document, error)
	PutDocument(ctx context.Context, collection, key string, data map[string]any) (api.Document, error)
	// UpdateDocument fails with ConflictError if expectedETag is non-empty
	// and does not match the document's current ETag.
	UpdateDocument(ctx context.Context, collection, key string, data map[string]any, expectedETag string) (api.Document, error)
	DeleteDocument(ctx context.Context, collection, key string) error

	Query(ctx context.Context, collection string, partial map[string]any) ([]api.Document, error)
}
