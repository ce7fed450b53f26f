package mock

import (
	"context"
	"strconv"
	"time"

	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type cacheClient struct{ w *world }

var _ runtime.CacheClient = (*cacheClient)(nil)

func (c *cacheClient) Get(ctx context.Context, key string) (string, bool, error) {
	c.w.injectLatency()
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	e, ok := c.w.cacheData[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && c.w.now().After(e.expires) {
		delete(c.w.cacheData, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *cacheClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.w.injectLatency()
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = c.w.now().Add(ttl)
	}
	c.w.cacheData[key] = mockCacheEntry{value: value, expires: expires}
	return nil
}

func (c *cacheClient) Delete(ctx context.Context, key string) error {
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	delete(c.w.cacheData, key)
	return nil
}

func (c *cacheClient) Increment(ctx context.Context, key string, by int64) (int64, error) {
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	var n int64
	if e, ok := c.w.cacheData[key]; ok && (e.expires.IsZero() || !c.w.now().After(e.expires)) {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, cperrors.ValidationError(key, "value at key %q is not an integer", key)
		}
		n = parsed
	}
	n += by
	existing := c.w.cacheData[key]
	existing.value = strconv.FormatInt(n, 10)
	c.w.cacheData[key] = existing
	return n, nil
}

func (c *cacheClient) MGet(ctx context.Context, keys []string) (map[string]string, error) {
	c.w.injectLatency()
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		e, ok := c.w.cacheData[k]
		if !ok || (!e.expires.IsZero() && c.w.now().After(e.expires)) {
			continue
		}
		out[k] = e.value
	}
	return out, nil
}

func (c *cacheClient) MSet(ctx context.Context, values map[string]string, ttl time.Duration) error {
	c.w.injectLatency()
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = c.w.now().Add(ttl)
	}
	for k, v := range values {
		c.w.cacheData[k] = mockCacheEntry{value: v, expires: expires}
	}
	return nil
}

func (c *cacheClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	e, ok := c.w.cacheData[key]
	if !ok {
		return cperrors.NotFound("CacheKey", key)
	}
	e.expires = c.w.now().Add(ttl)
	c.w.cacheData[key] = e
	return nil
}

func (c *cacheClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.w.cacheDataMu.Lock()
	defer c.w.cacheDataMu.Unlock()
	e, ok := c.w.cacheData[key]
	if !ok {
		return 0, cperrors.NotFound("CacheKey", key)
	}
	if e.expires.IsZero() {
		return -1, nil
	}
	remaining := e.expires.Sub(c.w.now())
	if remaining < 0 {
		delete(c.w.cacheData, key)
		return 0, cperrors.NotFound("CacheKey", key)
	}
	return remaining, nil
}
