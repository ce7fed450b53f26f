// Package control defines the control-plane service contracts and the
// ControlFacade that lazily constructs adapters for them through a
// pkg/provider.Factory. Accessors construct on first use and cache per
// facade; provider packages never appear in any contract signature.
package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// DeployParams is deployApplication's input.
type DeployParams struct {
	Name         string
	Image        string
	Port         int
	Environment  map[string]string
	CPU          int
	Memory       int
	MinInstances int
	MaxInstances int
	Tags         map[string]string
}

// UpdateParams is updateApplication's input; zero-value fields leave the
// current setting unchanged.
type UpdateParams struct {
	Image       *string
	Environment map[string]string
}

// ScaleParams is scaleApplication's input.
type ScaleParams struct {
	MinInstances int
	MaxInstances int
}

// WebHostingService manages long-running web applications.
type WebHostingService interface {
	DeployApplication(ctx context.Context, params DeployParams) (api.Deployment, error)
	GetDeployment(ctx context.Context, id string) (api.Deployment, error)
	UpdateApplication(ctx context.Context, id string, params UpdateParams) (api.Deployment, error)
	DeleteApplication(ctx context.Context, id string) error
	GetApplicationURL(ctx context.Context, id string) (string, error)
	ScaleApplication(ctx context.Context, id string, params ScaleParams) error
}
