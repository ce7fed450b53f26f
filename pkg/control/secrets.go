package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// SecretsService manages secret lifecycle. Runtime reads go through
// pkg/runtime.SecretsClient, which layers the read cache on top of
// GetSecretValue.
type SecretsService interface {
	CreateSecret(ctx context.Context, name string, value api.SecretValue, tags map[string]string) (api.Secret, error)
	GetSecretValue(ctx context.Context, name string) (api.SecretValue, error)
	UpdateSecret(ctx context.Context, name string, value api.SecretValue) (api.Secret, error)
	DeleteSecret(ctx context.Context, name string, force bool) error
	ListSecrets(ctx context.Context) ([]api.Secret, error)
	RotateSecret(ctx context.Context, name string, cfg api.RotationConfig) (api.Secret, error)
	TagSecret(ctx context.Context, name string, tags map[string]string) error
}
