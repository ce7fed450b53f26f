package control

import "context"

// LifecyclePolicy is an opaque, provider-native lifecycle policy document
// : the library round-trips it byte-exactly and never parses it.
type LifecyclePolicy string

// ScanSettings configures image vulnerability scanning.
type ScanSettings struct {
	ScanOnPush bool
}

// RepoPermissions is an opaque, provider-native repository permission
// policy document, round-tripped the same way LifecyclePolicy is.
type RepoPermissions string

// Repository is a container image repository's control-plane record.
type Repository struct {
	Name       string
	URI        string
	ScanOnPush bool
	Created    string
}

// ContainerRepoService manages container image repositories. Image
// listing/pulling belongs to pkg/runtime.ContainerRepoClient.
type ContainerRepoService interface {
	CreateRepository(ctx context.Context, name string) (Repository, error)
	GetRepository(ctx context.Context, name string) (Repository, error)
	DeleteRepository(ctx context.Context, name string) error
	ListRepositories(ctx context.Context) ([]Repository, error)

	SetLifecyclePolicy(ctx context.Context, name string, policy LifecyclePolicy) error
	SetScanSettings(ctx context.Context, name string, settings ScanSettings) error
	SetPermissions(ctx context.Context, name string, permissions RepoPermissions) error
}
