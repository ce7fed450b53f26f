package control

import "context"

// CacheClusterStatus mirrors a distributed cache cluster's lifecycle.
type CacheClusterStatus string

const (
	CacheClusterCreating  CacheClusterStatus = "creating"
	CacheClusterAvailable CacheClusterStatus = "available"
	CacheClusterDeleting  CacheClusterStatus = "deleting"
)

// CacheCluster is a distributed cache cluster's control-plane record.
type CacheCluster struct {
	Name             string
	Status           CacheClusterStatus
	NodeType         string
	NumNodes         int
	Endpoint         string
	AuthTokenEnabled bool
	InTransitEncrypt bool
}

// CacheClusterParams configures createCluster.
type CacheClusterParams struct {
	NodeType         string
	NumNodes         int
	AuthToken        *string
	InTransitEncrypt bool
}

// CacheService manages distributed cache cluster infrastructure.
// Runtime get/set/etc. belongs to pkg/runtime.CacheClient.
type CacheService interface {
	CreateCluster(ctx context.Context, name string, params CacheClusterParams) (CacheCluster, error)
	GetCluster(ctx context.Context, name string) (CacheCluster, error)
	DeleteCluster(ctx context.Context, name string) error
	ListClusters(ctx context.Context) ([]CacheCluster, error)

	ConfigureSecurity(ctx context.Context, name string, authToken *string, inTransitEncrypt bool) error
	FlushCluster(ctx context.Context, name string) error
}
