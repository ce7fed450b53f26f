// Package lcplatform is the library's top-level entry point. It
// wires the error taxonomy, reliability primitives, provider factory,
// service contracts, and both adapter families into the two named
// constructors the rest of the system is built around: ControlFacade and
// RuntimeFacade. Consumer code imports only this package and
// github.com/stainedhead/lc-platform/api — never a provider package or an
// AWS SDK type directly.
package lcplatform

import (
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
	"github.com/stainedhead/lc-platform/providers/aws"
	"github.com/stainedhead/lc-platform/providers/mock"
)

// Config is the caller-facing alias for ProviderConfig.
type Config = provider.Config

// Credentials is the caller-facing alias for ProviderConfig.credentials.
type Credentials = provider.Credentials

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *provider.Registry
	defaultRegistryErr  error
)

// DefaultRegistry returns the process-wide Registry pre-populated with the
// mock and AWS adapter families. Built once and
// reused by every facade; Register is still available on the returned
// value for a caller wiring in a future azure/gcp adapter package.
func DefaultRegistry() (*provider.Registry, error) {
	defaultRegistryOnce.Do(func() {
		reg := provider.NewRegistry()
		if err := mock.Register(reg); err != nil {
			defaultRegistryErr = err
			return
		}
		if err := aws.Register(reg); err != nil {
			defaultRegistryErr = err
			return
		}
		defaultRegistry = reg
	})
	return defaultRegistry, defaultRegistryErr
}

// defaultLogger is the zapr-over-zap wiring used whenever a caller doesn't
// hand the facade its own logr.Logger.
func defaultLogger() logr.Logger {
	zl, err := zap.NewProduction()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(zl)
}

// ControlFacade builds the control-plane facade for cfg,
// using the shared default registry and a zap-backed logr.Logger.
func ControlFacade(cfg Config) (*control.Facade, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return control.New(reg, cfg, defaultLogger()), nil
}

// ControlFacadeWithLogger is ControlFacade with an explicit logr.Logger,
// for callers that already run their own (e.g. embedding this library
// inside a controller-runtime manager that threads ctrl.LoggerFrom).
func ControlFacadeWithLogger(cfg Config, logger logr.Logger) (*control.Facade, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return control.New(reg, cfg, logger), nil
}

// RuntimeFacade builds the data-plane facade for cfg.
func RuntimeFacade(cfg Config) (*runtime.Facade, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return runtime.New(reg, cfg, defaultLogger()), nil
}

// RuntimeFacadeWithLogger is RuntimeFacade with an explicit logr.Logger.
func RuntimeFacadeWithLogger(cfg Config, logger logr.Logger) (*runtime.Facade, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return runtime.New(reg, cfg, logger), nil
}

// Session pairs one control facade and one runtime facade over the same
// reliability primitives: the same retry policy, the same secrets/config
// cache, and — for the mock provider — the same in-memory world. A
// process that both provisions resources (ControlFacade) and serves
// requests against them (RuntimeFacade) wants exactly one Session, not two
// independently constructed facades, so that a deploy made through
// Control() is immediately visible through Runtime().
type Session struct {
	control *control.Facade
	runtime *runtime.Facade
}

// NewSession builds a Session for cfg using the default registry and a
// zap-backed logger.
func NewSession(cfg Config) (*Session, error) {
	return NewSessionWithLogger(cfg, defaultLogger())
}

// NewSessionWithLogger is NewSession with an explicit logr.Logger.
func NewSessionWithLogger(cfg Config, logger logr.Logger) (*Session, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	resolved := cfg.WithEnvDefaults()
	shared := provider.NewShared(resolved, logger)
	return &Session{
		control: control.NewWithShared(reg, resolved, shared),
		runtime: runtime.NewWithShared(reg, resolved, shared),
	}, nil
}

// Control returns the Session's control-plane facade.
func (s *Session) Control() *control.Facade { return s.control }

// Runtime returns the Session's data-plane facade.
func (s *Session) Runtime() *runtime.Facade { return s.runtime }
