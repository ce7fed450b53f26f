package mock

import (
	"context"
	"fmt"

	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type cacheService struct{ w *world }

var _ control.CacheService = (*cacheService)(nil)

func (s *cacheService) CreateCluster(ctx context.Context, name string, params control.CacheClusterParams) (control.CacheCluster, error) {
	s.w.cacheClustersMu.Lock()
	defer s.w.cacheClustersMu.Unlock()
	if _, exists := s.w.cacheClusters[name]; exists {
		return control.CacheCluster{}, cperrors.ConflictErr(name, "cache cluster %q already exists", name)
	}
	c := control.CacheCluster{
		Name:             name,
		Status:           control.CacheClusterAvailable,
		NodeType:         params.NodeType,
		NumNodes:         params.NumNodes,
		Endpoint:         fmt.Sprintf("%s.mock-cache.local:6379", name),
		AuthTokenEnabled: params.AuthToken != nil,
		InTransitEncrypt: params.InTransitEncrypt,
	}
	s.w.cacheClusters[name] = &mockCacheCluster{cluster: c}
	return c, nil
}

func (s *cacheService) GetCluster(ctx context.Context, name string) (control.CacheCluster, error) {
	s.w.cacheClustersMu.RLock()
	defer s.w.cacheClustersMu.RUnlock()
	c, ok := s.w.cacheClusters[name]
	if !ok {
		return control.CacheCluster{}, cperrors.NotFound("CacheCluster", name)
	}
	return c.cluster, nil
}

func (s *cacheService) DeleteCluster(ctx context.Context, name string) error {
	s.w.cacheClustersMu.Lock()
	defer s.w.cacheClustersMu.Unlock()
	if _, ok := s.w.cacheClusters[name]; !ok {
		return cperrors.NotFound("CacheCluster", name)
	}
	delete(s.w.cacheClusters, name)
	return nil
}

func (s *cacheService) ListClusters(ctx context.Context) ([]control.CacheCluster, error) {
	s.w.cacheClustersMu.RLock()
	defer s.w.cacheClustersMu.RUnlock()
	out := make([]control.CacheCluster, 0, len(s.w.cacheClusters))
	for _, c := range s.w.cacheClusters {
		out = append(out, c.cluster)
	}
	return out, nil
}

func (s *cacheService) ConfigureSecurity(ctx context.Context, name string, authToken *string, inTransitEncrypt bool) error {
	s.w.cacheClustersMu.Lock()
	defer s.w.cacheClustersMu.Unlock()
	c, ok := s.w.cacheClusters[name]
	if !ok {
		return cperrors.NotFound("CacheCluster", name)
	}
	c.cluster.AuthTokenEnabled = authToken != nil
	c.cluster.InTransitEncrypt = inTransitEncrypt
	return nil
}

func (s *cacheService) FlushCluster(ctx context.Context, name string) error {
	s.w.cacheClustersMu.RLock()
	_, ok := s.w.cacheClusters[name]
	s.w.cacheClustersMu.RUnlock()
	if !ok {
		return cperrors.NotFound("CacheCluster", name)
	}
	s.w.cacheDataMu.Lock()
	s.w.cacheData = make(map[string]mockCacheEntry)
	s.w.cacheDataMu.Unlock()
	return nil
}
