package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type containerRepo struct{ w *world }

var _ control.ContainerRepoService = (*containerRepo)(nil)

func (s *containerRepo) CreateRepository(ctx context.Context, name string) (control.Repository, error) {
	s.w.reposMu.Lock()
	defer s.w.reposMu.Unlock()
	if _, exists := s.w.repos[name]; exists {
		return control.Repository{}, cperrors.ConflictErr(name, "repository %q already exists", name)
	}
	rec := repoRecord{
		Name:    name,
		URI:     fmt.Sprintf("mock-registry.local/%s", name),
		Created: s.w.now().Format("2006-01-02T15:04:05Z07:00"),
	}
	s.w.repos[name] = &mockRepoState{repo: rec}
	return control.Repository{Name: rec.Name, URI: rec.URI, Created: rec.Created}, nil
}

func (s *containerRepo) GetRepository(ctx context.Context, name string) (control.Repository, error) {
	s.w.reposMu.RLock()
	defer s.w.reposMu.RUnlock()
	st, ok := s.w.repos[name]
	if !ok {
		return control.Repository{}, cperrors.NotFound("Repository", name)
	}
	return control.Repository{Name: st.repo.Name, URI: st.repo.URI, ScanOnPush: st.scan, Created: st.repo.Created}, nil
}

func (s *containerRepo) DeleteRepository(ctx context.Context, name string) error {
	s.w.reposMu.Lock()
	defer s.w.reposMu.Unlock()
	if _, ok := s.w.repos[name]; !ok {
		return cperrors.NotFound("Repository", name)
	}
	delete(s.w.repos, name)
	return nil
}

func (s *containerRepo) ListRepositories(ctx context.Context) ([]control.Repository, error) {
	s.w.reposMu.RLock()
	defer s.w.reposMu.RUnlock()
	out := make([]control.Repository, 0, len(s.w.repos))
	for _, st := range s.w.repos {
		out = append(out, control.Repository{Name: st.repo.Name, URI: st.repo.URI, ScanOnPush: st.scan, Created: st.repo.Created})
	}
	return out, nil
}

func (s *containerRepo) SetLifecyclePolicy(ctx context.Context, name string, policy control.LifecyclePolicy) error {
	s.w.reposMu.Lock()
	defer s.w.reposMu.Unlock()
	st, ok := s.w.repos[name]
	if !ok {
		return cperrors.NotFound("Repository", name)
	}
	st.lifecycle = string(policy)
	return nil
}

func (s *containerRepo) SetScanSettings(ctx context.Context, name string, settings control.ScanSettings) error {
	s.w.reposMu.Lock()
	defer s.w.reposMu.Unlock()
	st, ok := s.w.repos[name]
	if !ok {
		return cperrors.NotFound("Repository", name)
	}
	st.scan = settings.ScanOnPush
	return nil
}

func (s *containerRepo) SetPermissions(ctx context.Context, name string, permissions control.RepoPermissions) error {
	s.w.reposMu.Lock()
	defer s.w.reposMu.Unlock()
	st, ok := s.w.repos[name]
	if !ok {
		return cperrors.NotFound("Repository", name)
	}
	st.permission = string(permissions)
	return nil
}
