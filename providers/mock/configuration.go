package mock

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/validate"
)

func profileKey(application, environment string) string { return application + "/" + environment }

type configuration struct {
	w *world
	v *validate.Validator
}

var _ control.ConfigurationService = (*configuration)(nil)

func (s *configuration) CreateProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error) {
	s.w.configsMu.Lock()
	defer s.w.configsMu.Unlock()
	key := profileKey(application, environment)
	if _, exists := s.w.profiles[key]; exists {
		return api.ConfigurationProfile{}, cperrors.ConflictErr(key, "configuration profile %q already exists", key)
	}
	p := &api.ConfigurationProfile{
		Application: application,
		Environment: environment,
		Created:     s.w.now(),
	}
	s.w.profiles[key] = p
	return *p, nil
}

func (s *configuration) GetProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error) {
	s.w.configsMu.RLock()
	defer s.w.configsMu.RUnlock()
	key := profileKey(application, environment)
	p, ok := s.w.profiles[key]
	if !ok {
		return api.ConfigurationProfile{}, cperrors.NotFound("ConfigurationProfile", key)
	}
	return *p, nil
}

func (s *configuration) AddVersion(ctx context.Context, application, environment string, data map[string]any, description *string) (api.Configuration, error) {
	s.w.configsMu.Lock()
	defer s.w.configsMu.Unlock()
	key := profileKey(application, environment)
	p, ok := s.w.profiles[key]
	if !ok {
		return api.Configuration{}, cperrors.NotFound("ConfigurationProfile", key)
	}
	p.LatestVersion++
	cfg := &api.Configuration{
		Application: application,
		Environment: environment,
		Version:     p.LatestVersion,
		Data:        copyAnyMap(data),
		Created:     s.w.now(),
		Description: description,
	}
	s.w.versions[key] = append(s.w.versions[key], cfg)
	return *cfg, nil
}

func (s *configuration) GetVersion(ctx context.Context, application, environment string, version int) (api.Configuration, error) {
	s.w.configsMu.RLock()
	defer s.w.configsMu.RUnlock()
	key := profileKey(application, environment)
	for _, cfg := range s.w.versions[key] {
		if cfg.Version == version {
			return *cfg, nil
		}
	}
	return api.Configuration{}, cperrors.NotFound("Configuration", key)
}

func (s *configuration) DeployConfiguration(ctx context.Context, p control.DeployConfigParams) (string, error) {
	s.w.configsMu.Lock()
	defer s.w.configsMu.Unlock()
	key := profileKey(p.Application, p.Environment)
	profile, ok := s.w.profiles[key]
	if !ok {
		return "", cperrors.NotFound("ConfigurationProfile", key)
	}
	var target *api.Configuration
	for _, cfg := range s.w.versions[key] {
		if cfg.Version == p.Version {
			target = cfg
			break
		}
	}
	if target == nil {
		return "", cperrors.NotFound("Configuration", key)
	}
	for _, cfg := range s.w.versions[key] {
		cfg.Deployed = cfg.Version == p.Version
	}
	profile.DeployedVersion = p.Version
	return s.w.nextID("deployment-marker"), nil
}

// ValidateConfiguration populates a fresh instance of schema's underlying
// struct type from content via JSON round-tripping, then runs it through
// the shared validator. This is the same go-playground/validator struct-tag
// approach pkg/validate uses everywhere else in this module.
func (s *configuration) ValidateConfiguration(ctx context.Context, content map[string]any, schema any) (validate.Result, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return validate.Result{}, cperrors.ValidationError("content", "content is not JSON-serializable: %v", err)
	}
	schemaType := reflect.TypeOf(schema)
	if schemaType == nil {
		return validate.Result{}, cperrors.ValidationError("schema", "schema must be a non-nil struct pointer")
	}
	if schemaType.Kind() == reflect.Ptr {
		schemaType = schemaType.Elem()
	}
	instance := reflect.New(schemaType).Interface()
	if err := json.Unmarshal(raw, instance); err != nil {
		return validate.Result{}, cperrors.ValidationError("content", "content does not match schema shape: %v", err)
	}
	return s.v.Validate(instance), nil
}

func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
