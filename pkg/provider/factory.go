package provider

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/stainedhead/lc-platform/pkg/cache"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/retry"
)

// Shared bundles the reliability primitives every adapter is built on
// plus the logger every adapter
// logs through. A facade constructs exactly one Shared and hands it to
// every adapter the factory builds, so the cache and retry policy are
// genuinely shared rather than reallocated per adapter.
type Shared struct {
	Logger       logr.Logger
	RetryPolicy  retry.Policy
	SecretsCache *cache.Cache[string, any]
	ConfigCache  *cache.Cache[string, any]

	stateMu sync.Mutex
	state   map[string]any
}

// State returns the adapter-family state stored under key, building it on
// first use. Provider packages use this for state that must be scoped to
// one facade (the mock provider's in-memory world): it lives exactly as
// long as the Shared that owns it and is unreachable from any other
// facade.
func (s *Shared) State(key string, build func() any) any {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state == nil {
		s.state = make(map[string]any)
	}
	v, ok := s.state[key]
	if !ok {
		v = build()
		s.state[key] = v
	}
	return v
}

// NewShared builds a Shared from cfg, applying the cache/retry option
// overrides on top of the package defaults.
func NewShared(cfg Config, logger logr.Logger) *Shared {
	policy := retry.DefaultPolicy()
	if cfg.Options.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Options.Retry.MaxAttempts
	}
	if cfg.Options.Retry.BaseDelayMs > 0 {
		policy.BaseDelay = time.Duration(cfg.Options.Retry.BaseDelayMs) * time.Millisecond
	}
	if cfg.Options.Retry.MaxDelayMs > 0 {
		policy.MaxDelay = time.Duration(cfg.Options.Retry.MaxDelayMs) * time.Millisecond
	}
	if cfg.Options.Retry.Jitter != nil {
		policy.Jitter = *cfg.Options.Retry.Jitter
	}

	cacheCfg := cache.Config{
		Capacity:   cfg.Options.Cache.Capacity,
		DefaultTTL: cfg.Options.Cache.DefaultTTL,
	}

	return &Shared{
		Logger:       logger,
		RetryPolicy:  policy,
		SecretsCache: cache.New[string, any](cacheCfg),
		ConfigCache:  cache.New[string, any](cacheCfg),
	}
}

// Factory resolves (Config, ID) pairs to adapter instances, constructing
// each at most once per Factory instance.
type Factory struct {
	registry *Registry
	cfg      Config
	shared   *Shared

	mu        sync.Mutex
	instances map[ID]any
}

// NewFactory builds a Factory bound to one resolved Config. Each facade
// owns exactly one Factory (and, transitively, one Shared) for its
// lifetime.
func NewFactory(registry *Registry, cfg Config, shared *Shared) *Factory {
	return &Factory{
		registry:  registry,
		cfg:       cfg,
		shared:    shared,
		instances: make(map[ID]any),
	}
}

// For returns the adapter for serviceID, constructing it on first use.
// Unknown providers are a configuration error (ValidationError); unknown
// serviceIDs are a programmer error (a serviceID that doesn't exist in this
// library's own contract set is a bug in the caller, not a runtime
// condition a contract-surface Kind should describe, so it is returned as
// a plain error rather than a *cperrors.Error). Construction
// failures are wrapped in ServiceUnavailableError with the cause preserved.
func (f *Factory) For(serviceID ID) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if inst, ok := f.instances[serviceID]; ok {
		return inst, nil
	}

	ctor, ok := f.registry.lookup(f.cfg.Provider, serviceID)
	if !ok {
		if !f.providerRegistered() {
			return nil, cperrors.ValidationError("", "unknown provider %q", f.cfg.Provider)
		}
		return nil, fmt.Errorf("lc-platform: provider %q has no adapter registered for service %q (programmer error)", f.cfg.Provider, serviceID)
	}

	inst, err := ctor(f.cfg, f.shared)
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ServiceUnavailable, err, "failed to construct %s adapter for provider %s", serviceID, f.cfg.Provider)
	}
	f.instances[serviceID] = inst
	return inst, nil
}

func (f *Factory) providerRegistered() bool {
	for _, p := range f.registry.Providers() {
		if p == f.cfg.Provider {
			return true
		}
	}
	return false
}
