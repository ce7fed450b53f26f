// Package mock's Register wires every adapter in this package into a
// *provider.Registry under api.ProviderMock, each service exposing its
// own constructor rather than routing through a giant init() switch.
package mock

import (
	"strconv"
	"time"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
	"github.com/stainedhead/lc-platform/pkg/validate"
)

// worldStateKey is the slot the mock world occupies in its Shared's
// per-facade state.
const worldStateKey = "mock.world"

// worldFor returns the one world backing every adapter built from shared,
// constructing it on first use. The world hangs off the Shared itself, so
// it dies with the facade that owns it and is invisible to every other
// facade.
func worldFor(cfg provider.Config, shared *provider.Shared) *world {
	return shared.State(worldStateKey, func() any {
		seed := int64(1)
		if v := cfg.Options.Raw["mockSeed"]; v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				seed = n
			}
		}
		var latency time.Duration
		if v := cfg.Options.Raw["mockLatencyMs"]; v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				latency = time.Duration(n) * time.Millisecond
			}
		}
		return newWorld(shared, seed, latency)
	}).(*world)
}

// Register adds every control-plane and data-plane mock adapter to reg
// under api.ProviderMock.
func Register(reg *provider.Registry) error {
	controlCtors := map[provider.ID]provider.Constructor{
		provider.WebHosting: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &webHosting{w: worldFor(cfg, shared)}, nil
		},
		provider.FunctionHosting: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &functionHosting{w: worldFor(cfg, shared)}, nil
		},
		provider.Batch: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &batch{w: worldFor(cfg, shared)}, nil
		},
		provider.QueueSvc: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &queueSvc{w: worldFor(cfg, shared)}, nil
		},
		provider.EventBusSvc: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &eventBus{w: worldFor(cfg, shared)}, nil
		},
		provider.Secrets: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &secrets{w: worldFor(cfg, shared)}, nil
		},
		provider.Configuration: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &configuration{w: worldFor(cfg, shared), v: validate.New()}, nil
		},
		provider.Notification: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &notification{w: worldFor(cfg, shared)}, nil
		},
		provider.DocumentStore: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &documentStore{w: worldFor(cfg, shared)}, nil
		},
		provider.DataStore: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &dataStore{w: worldFor(cfg, shared)}, nil
		},
		provider.ObjectStore: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &objectStore{w: worldFor(cfg, shared)}, nil
		},
		provider.Authentication: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &authentication{w: worldFor(cfg, shared)}, nil
		},
		provider.CacheSvc: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &cacheService{w: worldFor(cfg, shared)}, nil
		},
		provider.ContainerRepo: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &containerRepo{w: worldFor(cfg, shared)}, nil
		},
	}

	runtimeCtors := map[provider.ID]provider.Constructor{
		provider.QueueClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &queueClient{w: worldFor(cfg, shared)}, nil
		},
		provider.ObjectClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &objectClient{w: worldFor(cfg, shared)}, nil
		},
		provider.SecretsClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &secretsClient{w: worldFor(cfg, shared)}, nil
		},
		provider.ConfigClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &configClient{w: worldFor(cfg, shared)}, nil
		},
		provider.EventPublisher: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &eventPublisher{w: worldFor(cfg, shared)}, nil
		},
		provider.NotificationClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &notificationClient{w: worldFor(cfg, shared)}, nil
		},
		provider.DocumentClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &documentClient{w: worldFor(cfg, shared)}, nil
		},
		provider.DataClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &dataClient{w: worldFor(cfg, shared)}, nil
		},
		provider.AuthClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &authClient{w: worldFor(cfg, shared)}, nil
		},
		provider.CacheClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &cacheClient{w: worldFor(cfg, shared)}, nil
		},
		provider.ContainerRepoClient: func(cfg provider.Config, shared *provider.Shared) (any, error) {
			return &containerRepoClient{w: worldFor(cfg, shared)}, nil
		},
	}

	for id, ctor := range controlCtors {
		if err := reg.Register(api.ProviderMock, id, ctor, false); err != nil {
			return err
		}
	}
	for id, ctor := range runtimeCtors {
		if err := reg.Register(api.ProviderMock, id, ctor, false); err != nil {
			return err
		}
	}
	return nil
}

// compile-time interface assertions for the registered adapters, gathered
// in one list; the adapter files also carry their own.
var (
	_ control.QueueService          = (*queueSvc)(nil)
	_ control.EventBusService       = (*eventBus)(nil)
	_ control.SecretsService        = (*secrets)(nil)
	_ control.ConfigurationService  = (*configuration)(nil)
	_ control.NotificationService   = (*notification)(nil)
	_ control.DocumentStoreService  = (*documentStore)(nil)
	_ control.DataStoreService      = (*dataStore)(nil)
	_ control.ObjectStoreService    = (*objectStore)(nil)
	_ control.AuthenticationService = (*authentication)(nil)
	_ control.CacheService          = (*cacheService)(nil)
	_ control.ContainerRepoService  = (*containerRepo)(nil)

	_ runtime.QueueClient         = (*queueClient)(nil)
	_ runtime.ObjectClient        = (*objectClient)(nil)
	_ runtime.SecretsClient       = (*secretsClient)(nil)
	_ runtime.ConfigClient        = (*configClient)(nil)
	_ runtime.EventPublisher      = (*eventPublisher)(nil)
	_ runtime.NotificationClient  = (*notificationClient)(nil)
	_ runtime.DocumentClient      = (*documentClient)(nil)
	_ runtime.DataClient          = (*dataClient)(nil)
	_ runtime.AuthClient          = (*authClient)(nil)
	_ runtime.CacheClient         = (*cacheClient)(nil)
	_ runtime.ContainerRepoClient = (*containerRepoClient)(nil)
)
