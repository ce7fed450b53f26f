package runtime

import (
	"context"
	"time"
)

// CacheClient is the runtime data path over a distributed cache cluster
// : get/set/delete plus the increment/batch/expiry operations most
// cache backends expose beyond plain get/set.
type CacheClient interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string, by int64) (int64, error)
	MGet(ctx context.Context, keys []string) (map[string]string, error)
	MSet(ctx context.Context, values map[string]string, ttl time.Duration) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
