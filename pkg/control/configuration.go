package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/validate"
)

// DeployConfigParams is deployConfiguration's input.
type DeployConfigParams struct {
	Application string
	Environment string
	Version     int
}

// ConfigurationService manages application configuration profiles and
// versions. Versions are monotonically numbered per profile.
type ConfigurationService interface {
	CreateProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error)
	GetProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error)
	AddVersion(ctx context.Context, application, environment string, data map[string]any, description *string) (api.Configuration, error)
	GetVersion(ctx context.Context, application, environment string, version int) (api.Configuration, error)
	DeployConfiguration(ctx context.Context, params DeployConfigParams) (string, error)

	// ValidateConfiguration delegates to pkg/validate; schema is
	// a struct pointer describing the expected shape of content.
	ValidateConfiguration(ctx context.Context, content map[string]any, schema any) (validate.Result, error)
}
