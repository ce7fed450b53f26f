package control

import (
	"github.com/go-logr/logr"
	"github.com/stainedhead/lc-platform/pkg/provider"
)

// Facade is the control-plane entry point. It exposes one
// typed accessor per service; each accessor lazily builds its adapter
// through the shared provider.Factory the first time it is called.
type Facade struct {
	factory *provider.Factory
}

// New builds a Facade for cfg. cfg is read once, here, and never mutated
// afterward.
func New(registry *provider.Registry, cfg provider.Config, logger logr.Logger) *Facade {
	resolved := cfg.WithEnvDefaults()
	shared := provider.NewShared(resolved, logger)
	return &Facade{factory: provider.NewFactory(registry, resolved, shared)}
}

// NewWithShared builds a Facade over an already-constructed *provider.Shared
// instead of allocating its own. A lcplatform.Session uses this so its
// Control() and Runtime() facades resolve services through the same
// reliability primitives (and, for the mock provider, the same in-memory
// world) instead of each facade silently getting its own.
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
		return zero, assertionError(id)
	}
	return typed, nil
}

func (f *Facade) WebHosting() (WebHostingService, error) {
	return as[WebHostingService](f, provider.WebHosting)
}

func (f *Facade) FunctionHosting() (FunctionHostingService, error) {
	return as[FunctionHostingService](f, provider.FunctionHosting)
}

func (f *Facade) Batch() (BatchService, error) {
	return as[BatchService](f, provider.Batch)
}

func (f *Facade) Queue() (QueueService, error) {
	return as[QueueService](f, provider.QueueSvc)
}

func (f *Facade) EventBus() (EventBusService, error) {
	return as[EventBusService](f, provider.EventBusSvc)
}

func (f *Facade) Secrets() (SecretsService, error) {
	return as[SecretsService](f, provider.Secrets)
}

func (f *Facade) Configuration() (ConfigurationService, error) {
	return as[ConfigurationService](f, provider.Configuration)
}

func (f *Facade) Notification() (NotificationService, error) {
	return as[NotificationService](f, provider.Notification)
}

func (f *Facade) DocumentStore() (DocumentStoreService, error) {
	return as[DocumentStoreService](f, provider.DocumentStore)
}

func (f *Facade) DataStore() (DataStoreService, error) {
	return as[DataStoreService](f, provider.DataStore)
}

func (f *Facade) ObjectStore() (ObjectStoreService, error) {
	return as[ObjectStoreService](f, provider.ObjectStore)
}

func (f *Facade) Authentication() (AuthenticationService, error) {
	return as[AuthenticationService](f, provider.Authentication)
}

func (f *Facade) Cache() (CacheService, error) {
	return as[CacheService](f, provider.CacheSvc)
}

func (f *Facade) ContainerRepo() (ContainerRepoService, error) {
	return as[ContainerRepoService](f, provider.ContainerRepo)
}
