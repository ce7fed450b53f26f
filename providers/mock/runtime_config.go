package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type configClient struct{ w *world }

var _ runtime.ConfigClient = (*configClient)(nil)

func (c *configClient) latestDeployed(application, environment string) (map[string]any, error) {
	key := profileKey(application, environment)
	cacheKey := "cfg:" + key
	if v, ok := c.w.shared.ConfigCache.Get(cacheKey); ok {
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	c.w.injectLatency()
	c.w.configsMu.RLock()
	defer c.w.configsMu.RUnlock()
	profile, ok := c.w.profiles[key]
	if !ok {
		return nil, cperrors.NotFound("ConfigurationProfile", key)
	}
	for _, cfg := range c.w.versions[key] {
		if cfg.Version == profile.DeployedVersion {
			data := copyAnyMap(cfg.Data)
			c.w.shared.ConfigCache.Put(cacheKey, data)
			return data, nil
		}
	}
	return nil, cperrors.NotFound("Configuration", key)
}

func (c *configClient) GetAll(ctx context.Context, application, environment string) (map[string]any, error) {
	return c.latestDeployed(application, environment)
}

func (c *configClient) GetString(ctx context.Context, application, environment, key string) (string, error) {
	data, err := c.latestDeployed(application, environment)
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", cperrors.NotFound("ConfigurationKey", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", cperrors.ValidationError(key, "configuration key %q is not a string", key)
	}
	return s, nil
}

func (c *configClient) GetInt(ctx context.Context, application, environment, key string) (int, error) {
	data, err := c.latestDeployed(application, environment)
	if err != nil {
		return 0, err
	}
	v, ok := data[key]
	if !ok {
		return 0, cperrors.NotFound("ConfigurationKey", key)
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, cperrors.ValidationError(key, "configuration key %q is not a number", key)
	}
}

func (c *configClient) GetBool(ctx context.Context, application, environment, key string) (bool, error) {
	data, err := c.latestDeployed(application, environment)
	if err != nil {
		return false, err
	}
	v, ok := data[key]
	if !ok {
		return false, cperrors.NotFound("ConfigurationKey", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, cperrors.ValidationError(key, "configuration key %q is not a bool", key)
	}
	return b, nil
}
