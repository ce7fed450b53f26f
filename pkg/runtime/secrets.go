package runtime

import (
	"context"
)

// SecretsClient reads secret values with the LRU+TTL cache layered in
// front of the provider fetch: within a secret's TTL, Get does not call the
// provider again; cache misses populate on success only, never on error
// .
type SecretsClient interface {
	Get(ctx context.Context, name string) (string, error)
	GetJSON(ctx context.Context, name string) (map[string]any, error)
}
