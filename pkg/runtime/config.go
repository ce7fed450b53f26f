package runtime

import "context"

// ConfigClient reads deployed configuration values, cached the same way
// SecretsClient caches secret values.
type ConfigClient interface {
	GetString(ctx context.Context, application, environment, key string) (string, error)
	GetInt(ctx context.Context, application, environment, key string) (int, error)
	GetBool(ctx context.Context, application, environment, key string) (bool, error)
	GetAll(ctx context.Context, application, environment string) (map[string]any, error)
}
