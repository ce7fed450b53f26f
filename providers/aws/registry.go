// Package aws's Register wires every adapter in this package into a
// *provider.Registry under api.ProviderAWS, mirroring
// providers/mock.Register's own entry-point shape so the factory
// never needs a provider-specific branch to learn about either family.
package aws

import (
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

var (
	_ control.WebHostingService      = (*webHosting)(nil)
	_ control.FunctionHostingService = (*functionHosting)(nil)
	_ control.BatchService           = (*batchSvc)(nil)
	_ control.QueueService           = (*queueSvc)(nil)
	_ control.EventBusService        = (*eventBus)(nil)
	_ control.SecretsService         = (*secrets)(nil)
	_ control.ConfigurationService   = (*configuration)(nil)
	_ control.NotificationService    = (*notification)(nil)
	_ control.DocumentStoreService   = (*documentStore)(nil)
	_ control.DataStoreService       = (*dataStore)(nil)
	_ control.ObjectStoreService     = (*objectStore)(nil)
	_ control.AuthenticationService  = (*authentication)(nil)
	_ control.CacheService           = (*cacheSvc)(nil)
	_ control.ContainerRepoService   = (*containerRepo)(nil)

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

// Register adds every control-plane and data-plane AWS adapter to reg
// under api.ProviderAWS.
func Register(reg *provider.Registry) error {
	controlCtors := map[provider.ID]provider.Constructor{
		provider.WebHosting:      newWebHosting,
		provider.FunctionHosting: newFunctionHosting,
		provider.Batch:           newBatchSvc,
		provider.QueueSvc:        newQueueSvc,
		provider.EventBusSvc:     newEventBus,
		provider.Secrets:         newSecrets,
		provider.Configuration:   newConfiguration,
		provider.Notification:    newNotification,
		provider.DocumentStore:   newDocumentStore,
		provider.DataStore:       newDataStore,
		provider.ObjectStore:     newObjectStore,
		provider.Authentication:  newAuthentication,
		provider.CacheSvc:        newCacheSvc,
		provider.ContainerRepo:   newContainerRepo,
	}

	runtimeCtors := map[provider.ID]provider.Constructor{
		provider.QueueClient:         newQueueClient,
		provider.ObjectClient:        newObjectClient,
		provider.SecretsClient:       newSecretsClient,
		provider.ConfigClient:        newConfigClient,
		provider.EventPublisher:      newEventPublisher,
		provider.NotificationClient:  newNotificationClient,
		provider.DocumentClient:      newDocumentClient,
		provider.DataClient:          newDataClient,
		provider.AuthClient:          newAuthClient,
		provider.CacheClient:         newCacheClient,
		provider.ContainerRepoClient: newContainerRepoClient,
	}

	for id, ctor := range controlCtors {
		if err := reg.Register(api.ProviderAWS, id, ctor, false); err != nil {
			return err
		}
	}
	for id, ctor := range runtimeCtors {
		if err := reg.Register(api.ProviderAWS, id, ctor, false); err != nil {
			return err
		}
	}
	return nil
}
