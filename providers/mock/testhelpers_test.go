package mock

import (
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

// newTestFacades builds a fresh control + runtime facade pair over the mock
// provider, sharing one *provider.Shared (and so one in-memory world) the
// way a lcplatform.Session does, so a write through the control facade is
// visible through the runtime facade.
func newTestFacades(t *testing.T) (*control.Facade, *runtime.Facade) {
	t.Helper()
	reg := newRegistryForCacheTest(t)
	cfg := provider.Config{Provider: api.ProviderMock}
	return newControlFacadeWith(t, reg, cfg), newRuntimeFacadeWith(t, reg, cfg)
}

func newRegistryForCacheTest(t *testing.T) *provider.Registry {
	t.Helper()
	reg := provider.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg
}

// testConfigWithShortCacheTTL returns a Config whose data-plane cache
// expires fast enough for a test to observe "after t, it is [re-fetched]"
// without sleeping for the production 5-minute
// default.
func testConfigWithShortCacheTTL() provider.Config {
	return provider.Config{
		Provider: api.ProviderMock,
		Options:  provider.Options{Cache: provider.CacheOptions{DefaultTTL: 10 * time.Millisecond}},
	}
}

// newControlFacadeWith and newRuntimeFacadeWith build a control/runtime
// facade pair that share one world (control.New/runtime.New each build
// their own *provider.Shared, so two independently-built facades would
// normally see two different worlds; a cache test needs the write on one
// side to be visible, with staleness governed only by the cache, on the
// other). They share the *provider.Shared keyed by the *provider.Registry
// pointer by caching it in sharedForTest, so a test that calls both
// helpers with the same (reg, cfg) pair gets one world underneath both
// facades, exactly like lcplatform.Session wires its pair.
var sharedForTest = map[*provider.Registry]*provider.Shared{}

func sharedFor(reg *provider.Registry, cfg provider.Config) *provider.Shared {
	if s, ok := sharedForTest[reg]; ok {
		return s
	}
	s := provider.NewShared(cfg.WithEnvDefaults(), logr.Discard())
	sharedForTest[reg] = s
	return s
}

func newControlFacadeWith(t *testing.T, reg *provider.Registry, cfg provider.Config) *control.Facade {
	t.Helper()
	return control.NewWithShared(reg, cfg, sharedFor(reg, cfg))
}

func newRuntimeFacadeWith(t *testing.T, reg *provider.Registry, cfg provider.Config) *runtime.Facade {
	t.Helper()
	return runtime.NewWithShared(reg, cfg, sharedFor(reg, cfg))
}
