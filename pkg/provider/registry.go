package provider

import (
	"fmt"
	"sync"

	"github.com/stainedhead/lc-platform/api"
)

// ID names one control-plane service or data-plane client contract. The
// factory is the single place, across the whole library, permitted to
// branch on provider-specific concerns; everywhere else code only
// ever sees these IDs and the interfaces in pkg/control / pkg/runtime.
type ID string

// Control-plane service IDs.
const (
	WebHosting      ID = "webHosting"
	FunctionHosting ID = "functionHosting"
	Batch           ID = "batch"
	QueueSvc        ID = "queue"
	EventBusSvc     ID = "eventBus"
	Secrets         ID = "secrets"
	Configuration   ID = "configuration"
	Notification    ID = "notification"
	DocumentStore   ID = "documentStore"
	DataStore       ID = "dataStore"
	ObjectStore     ID = "objectStore"
	Authentication  ID = "authentication"
	CacheSvc        ID = "cache"
	ContainerRepo   ID = "containerRepo"
)

// Data-plane client IDs.
const (
	QueueClient         ID = "queueClient"
	ObjectClient        ID = "objectClient"
	SecretsClient       ID = "secretsClient"
	ConfigClient        ID = "configClient"
	EventPublisher      ID = "eventPublisher"
	NotificationClient  ID = "notificationClient"
	DocumentClient      ID = "documentClient"
	DataClient          ID = "dataClient"
	AuthClient          ID = "authClient"
	CacheClient         ID = "cacheClient"
	ContainerRepoClient ID = "containerRepoClient"
)

// Constructor builds one adapter instance for a given (provider, serviceID)
// pair. It receives the resolved Config and the Shared reliability
// primitives (logger, retry policy, caches) every adapter is built on
// .
type Constructor func(cfg Config, shared *Shared) (any, error)

type key struct {
	provider api.ProviderName
	id       ID
}

// Registry maps (provider, serviceID) pairs to adapter constructors. It is
// the extension point for registering future providers
// (azure, gcp) without touching the facades.
type Registry struct {
	mu    sync.RWMutex
	ctors map[key]Constructor
}

// NewRegistry returns an empty Registry. Use DefaultRegistry for one
// pre-populated with the mock and AWS adapter families.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[key]Constructor)}
}

// Register adds a constructor for (providerID, serviceID). It fails if the
// pair is already registered unless override is true.
func (r *Registry) Register(providerID api.ProviderName, serviceID ID, ctor Constructor, override bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{providerID, serviceID}
	if _, exists := r.ctors[k]; exists && !override {
		return fmt.Errorf("provider %q already registers service %q (pass override=true to replace it)", providerID, serviceID)
	}
	r.ctors[k] = ctor
	return nil
}

// Providers returns the supported provider set.
func (r *Registry) Providers() []api.ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[api.ProviderName]bool{}
	var out []api.ProviderName
	for k := range r.ctors {
		if !seen[k.provider] {
			seen[k.provider] = true
			out = append(out, k.provider)
		}
	}
	return out
}

func (r *Registry) lookup(providerID api.ProviderName, serviceID ID) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[key{providerID, serviceID}]
	return ctor, ok
}
