package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

// secretsClient layers the shared LRU+TTL cache in front of the
// world's secret store: a cache hit never calls the provider again within
// the TTL, and only successful fetches populate the cache.
type secretsClient struct{ w *world }

var _ runtime.SecretsClient = (*secretsClient)(nil)

func (c *secretsClient) Get(ctx context.Context, name string) (string, error) {
	if v, ok := c.w.shared.SecretsCache.Get(name); ok {
		s, ok := v.(string)
		if ok {
			return s, nil
		}
	}
	c.w.injectLatency()
	c.w.secretsMu.RLock()
	st, ok := c.w.secrets[name]
	c.w.secretsMu.RUnlock()
	if !ok || st.secret.PendingDeletion {
		return "", cperrors.NotFound("Secret", name)
	}
	var s string
	switch {
	case st.value.String != nil:
		s = *st.value.String
	case st.value.JSON != nil:
		s = fmt.Sprintf("%v", st.value.JSON)
	}
	c.w.shared.SecretsCache.Put(name, s)
	return s, nil
}

func (c *secretsClient) GetJSON(ctx context.Context, name string) (map[string]any, error) {
	cacheKey := "json:" + name
	if v, ok := c.w.shared.SecretsCache.Get(cacheKey); ok {
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	c.w.injectLatency()
	c.w.secretsMu.RLock()
	st, ok := c.w.secrets[name]
	c.w.secretsMu.RUnlock()
	if !ok || st.secret.PendingDeletion {
		return nil, cperrors.NotFound("Secret", name)
	}
	if st.value.JSON == nil {
		return nil, cperrors.ValidationError(name, "secret %q does not hold a JSON value", name)
	}
	c.w.shared.SecretsCache.Put(cacheKey, st.value.JSON)
	return st.value.JSON, nil
}
