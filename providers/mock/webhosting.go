package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type webHosting struct{ w *world }

var _ control.WebHostingService = (*webHosting)(nil)

func (s *webHosting) DeployApplication(ctx context.Context, p control.DeployParams) (api.Deployment, error) {
	s.w.injectLatency()
	if p.MinInstances > p.MaxInstances {
		return api.Deployment{}, cperrors.ValidationError("deployment", "minInstances (%d) must be <= maxInstances (%d)", p.MinInstances, p.MaxInstances)
	}
	id := s.w.nextID("deployment")
	now := s.w.now()
	d := &api.Deployment{
		ID:               id,
		Name:             p.Name,
		URL:              fmt.Sprintf("https://%s.mock.lc-platform.local", p.Name),
		Status:           api.DeploymentRunning,
		Image:            p.Image,
		CPU:              p.CPU,
		Memory:           p.Memory,
		MinInstances:     p.MinInstances,
		MaxInstances:     p.MaxInstances,
		CurrentInstances: p.MinInstances,
		Environment:      copyStrMap(p.Environment),
		Created:          now,
		LastUpdated:      now,
	}
	s.w.deploymentsMu.Lock()
	s.w.deployments[id] = d
	s.w.deploymentsMu.Unlock()
	cp := *d
	return cp, nil
}

func (s *webHosting) GetDeployment(ctx context.Context, id string) (api.Deployment, error) {
	s.w.injectLatency()
	s.w.deploymentsMu.RLock()
	defer s.w.deploymentsMu.RUnlock()
	d, ok := s.w.deployments[id]
	if !ok {
		return api.Deployment{}, cperrors.NotFound("Deployment", id)
	}
	return *d, nil
}

func (s *webHosting) UpdateApplication(ctx context.Context, id string, p control.UpdateParams) (api.Deployment, error) {
	s.w.injectLatency()
	s.w.deploymentsMu.Lock()
	defer s.w.deploymentsMu.Unlock()
	d, ok := s.w.deployments[id]
	if !ok {
		return api.Deployment{}, cperrors.NotFound("Deployment", id)
	}
	d.Status = api.DeploymentUpdating
	if p.Image != nil {
		d.Image = *p.Image
	}
	if p.Environment != nil {
		d.Environment = copyStrMap(p.Environment)
	}
	d.Status = api.DeploymentRunning
	d.LastUpdated = s.w.now()
	cp := *d
	return cp, nil
}

func (s *webHosting) DeleteApplication(ctx context.Context, id string) error {
	s.w.injectLatency()
	s.w.deploymentsMu.Lock()
	defer s.w.deploymentsMu.Unlock()
	if _, ok := s.w.deployments[id]; !ok {
		return cperrors.NotFound("Deployment", id)
	}
	delete(s.w.deployments, id)
	return nil
}

func (s *webHosting) GetApplicationURL(ctx context.Context, id string) (string, error) {
	d, err := s.GetDeployment(ctx, id)
	if err != nil {
		return "", err
	}
	return d.URL, nil
}

func (s *webHosting) ScaleApplication(ctx context.Context, id string, p control.ScaleParams) error {
	s.w.injectLatency()
	if p.MinInstances > p.MaxInstances {
		return cperrors.ValidationError("deployment", "minInstances (%d) must be <= maxInstances (%d)", p.MinInstances, p.MaxInstances)
	}
	s.w.deploymentsMu.Lock()
	defer s.w.deploymentsMu.Unlock()
	d, ok := s.w.deployments[id]
	if !ok {
		return cperrors.NotFound("Deployment", id)
	}
	d.MinInstances = p.MinInstances
	d.MaxInstances = p.MaxInstances
	if d.CurrentInstances < p.MinInstances {
		d.CurrentInstances = p.MinInstances
	}
	if d.CurrentInstances > p.MaxInstances {
		d.CurrentInstances = p.MaxInstances
	}
	d.LastUpdated = s.w.now()
	return nil
}

func copyStrMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
