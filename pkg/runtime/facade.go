package runtime

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/stainedhead/lc-platform/pkg/provider"
)

// Facade is the data-plane entry point.
type Facade struct {
	factory *provider.Factory
}

// New builds a Facade for cfg, exactly like control.New.
func New(registry *provider.Registry, cfg provider.Config, logger logr.Logger) *Facade {
	resolved := cfg.WithEnvDefaults()
	shared := provider.NewShared(resolved, logger)
	return &Facade{factory: provider.NewFactory(registry, resolved, shared)}
}

// NewWithShared builds a Facade over an already-constructed *provider.Shared,
// exactly like control.NewWithShared; see that doc comment for why a
// lcplatform.Session needs this.
func NewWithShared(registry *provider.Registry, cfg provider.Config, shared *provider.Shared) *Facade {
	resolved := cfg.WithEnvDefaults()
	return &Facade{factory: provider.NewFactory(registry, resolved, shared)}
}

func as[T any](f *Facade, id provider.ID) (T, error) {
	var zero T
	inst, err := f.factory.For(id)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("lc-platform: adapter registered for %q does not implement the expected contract (programmer error)", id)
	}
	return typed, nil
}

func (f *Facade) Queue() (QueueClient, error)   { return as[QueueClient](f, provider.QueueClient) }
func (f *Facade) Object() (ObjectClient, error) { return as[ObjectClient](f, provider.ObjectClient) }
func (f *Facade) Secrets() (SecretsClient, error) {
	return as[SecretsClient](f, provider.SecretsClient)
}
func (f *Facade) Config() (ConfigClient, error) { return as[ConfigClient](f, provider.ConfigClient) }
func (f *Facade) Events() (EventPublisher, error) {
	return as[EventPublisher](f, provider.EventPublisher)
}
func (f *Facade) Notify() (NotificationClient, error) {
	return as[NotificationClient](f, provider.NotificationClient)
}
func (f *Facade) Documents() (DocumentClient, error) {
	return as[DocumentClient](f, provider.DocumentClient)
}
func (f *Facade) Data() (DataClient, error)   { return as[DataClient](f, provider.DataClient) }
func (f *Facade) Auth() (AuthClient, error)   { return as[AuthClient](f, provider.AuthClient) }
func (f *Facade) Cache() (CacheClient, error) { return as[CacheClient](f, provider.CacheClient) }
func (f *Facade) ContainerRepo() (ContainerRepoClient, error) {
	return as[ContainerRepoClient](f, provider.ContainerRepoClient)
}
