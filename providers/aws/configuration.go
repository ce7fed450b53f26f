package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmTypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
	"github.com/stainedhead/lc-platform/pkg/validate"
)

const configServiceName = "ssm"

// configuration adapts control.ConfigurationService to AWS Systems
// Manager Parameter Store. A profile is one
// "/lc-platform/{app}/{env}/profile" JSON parameter; each version is its own
// "/lc-platform/{app}/{env}/versions/{n}" parameter so GetVersion never
// has to load the whole history.
type configuration struct {
	base
	client *ssm.Client
	v      *validate.Validator
}

var _ control.ConfigurationService = (*configuration)(nil)

func newConfiguration(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := ssm.NewFromConfig(awsCfg, func(o *ssm.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &configuration{base: newBase(cfg, shared), client: client, v: validate.New()}, nil
}

func profileParam(application, environment string) string {
	return fmt.Sprintf("/lc-platform/%s/%s/profile", application, environment)
}

func versionParam(application, environment string, version int) string {
	return fmt.Sprintf("/lc-platform/%s/%s/versions/%d", application, environment, version)
}

func (s *configuration) getParam(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{Name: aws.String(name)})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (s *configuration) putParam(ctx context.Context, name, value string, overwrite bool) error {
	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      ssmTypes.ParameterTypeString,
		Overwrite: aws.Bool(overwrite),
	})
	return err
}

func (s *configuration) CreateProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error) {
	return do(ctx, s.base, configServiceName, func(ctx context.Context) (api.ConfigurationProfile, error) {
		name := profileParam(application, environment)
		if _, err := s.getParam(ctx, name); err == nil {
			return api.ConfigurationProfile{}, cperrors.ConflictErr(name, "configuration profile %q already exists", name)
		}
		p := api.ConfigurationProfile{Application: application, Environment: environment, Created: time.Now()}
		raw, _ := json.Marshal(p)
		if err := s.putParam(ctx, name, string(raw), false); err != nil {
			return api.ConfigurationProfile{}, err
		}
		return p, nil
	})
}

func (s *configuration) loadProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error) {
	raw, err := s.getParam(ctx, profileParam(application, environment))
	if err != nil {
		return api.ConfigurationProfile{}, err
	}
	var p api.ConfigurationProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return api.ConfigurationProfile{}, cperrors.Wrap(cperrors.ServiceUnavailable, err, "stored configuration profile is corrupt")
	}
	return p, nil
}

func (s *configuration) GetProfile(ctx context.Context, application, environment string) (api.ConfigurationProfile, error) {
	return do(ctx, s.base, configServiceName, func(ctx context.Context) (api.ConfigurationProfile, error) {
		return s.loadProfile(ctx, application, environment)
	})
}

func (s *configuration) AddVersion(ctx context.Context, application, environment string, data map[string]any, description *string) (api.Configuration, error) {
	return do(ctx, s.base, configServiceName, func(ctx context.Context) (api.Configuration, error) {
		p, err := s.loadProfile(ctx, application, environment)
		if err != nil {
			return api.Configuration{}, err
		}
		p.LatestVersion++
		cfg := api.Configuration{
			Application: application,
			Environment: environment,
			Version:     p.LatestVersion,
			Data:        data,
			Description: description,
			Created:     time.Now(),
		}
		raw, _ := json.Marshal(cfg)
		if err := s.putParam(ctx, versionParam(application, environment, cfg.Version), string(raw), false); err != nil {
			return api.Configuration{}, err
		}
		profileRaw, _ := json.Marshal(p)
		if err := s.putParam(ctx, profileParam(application, environment), string(profileRaw), true); err != nil {
			return api.Configuration{}, err
		}
		return cfg, nil
	})
}

func (s *configuration) loadVersion(ctx context.Context, application, environment string, version int) (api.Configuration, error) {
	raw, err := s.getParam(ctx, versionParam(application, environment, version))
	if err != nil {
		return api.Configuration{}, err
	}
	var cfg api.Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return api.Configuration{}, cperrors.Wrap(cperrors.ServiceUnavailable, err, "stored configuration version is corrupt")
	}
	return cfg, nil
}

func (s *configuration) GetVersion(ctx context.Context, application, environment string, version int) (api.Configuration, error) {
	return do(ctx, s.base, configServiceName, func(ctx context.Context) (api.Configuration, error) {
		return s.loadVersion(ctx, application, environment, version)
	})
}

func (s *configuration) DeployConfiguration(ctx context.Context, p control.DeployConfigParams) (string, error) {
	return do(ctx, s.base, configServiceName, func(ctx context.Context) (string, error) {
		profile, err := s.loadProfile(ctx, p.Application, p.Environment)
		if err != nil {
			return "", err
		}
		if _, err := s.loadVersion(ctx, p.Application, p.Environment, p.Version); err != nil {
			return "", err
		}
		profile.DeployedVersion = p.Version
		raw, _ := json.Marshal(profile)
		if err := s.putParam(ctx, profileParam(p.Application, p.Environment), string(raw), true); err != nil {
			return "", err
		}
		return fmt.Sprintf("deployment-%s-%s-v%d", p.Application, p.Environment, p.Version), nil
	})
}

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

// configClient is the runtime.ConfigClient data path over the same
// Parameter Store profile/version records.
type configClient struct {
	*configuration
}

var _ runtime.ConfigClient = (*configClient)(nil)

func newConfigClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	c, err := newConfiguration(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &configClient{configuration: c.(*configuration)}, nil
}

func (c *configClient) deployedData(ctx context.Context, application, environment string) (map[string]any, error) {
	cacheKey := "cfg:" + application + "/" + environment
	if v, ok := c.shared.ConfigCache.Get(cacheKey); ok {
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	p, err := c.loadProfile(ctx, application, environment)
	if err != nil {
		return nil, translate(configServiceName, err)
	}
	cfg, err := c.loadVersion(ctx, application, environment, p.DeployedVersion)
	if err != nil {
		return nil, translate(configServiceName, err)
	}
	c.shared.ConfigCache.Put(cacheKey, cfg.Data)
	return cfg.Data, nil
}

func (c *configClient) GetAll(ctx context.Context, application, environment string) (map[string]any, error) {
	return c.deployedData(ctx, application, environment)
}

func (c *configClient) GetString(ctx context.Context, application, environment, key string) (string, error) {
	data, err := c.deployedData(ctx, application, environment)
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", cperrors.NotFound("ConfigurationKey", key)
	}
	str, ok := v.(string)
	if !ok {
		return "", cperrors.ValidationError(key, "configuration key %q is not a string", key)
	}
	return str, nil
}

func (c *configClient) GetInt(ctx context.Context, application, environment, key string) (int, error) {
	data, err := c.deployedData(ctx, application, environment)
	if err != nil {
		return 0, err
	}
	v, ok := data[key]
	if !ok {
		return 0, cperrors.NotFound("ConfigurationKey", key)
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, cperrors.ValidationError(key, "configuration key %q is not a number", key)
		}
		return parsed, nil
	default:
		return 0, cperrors.ValidationError(key, "configuration key %q is not a number", key)
	}
}

func (c *configClient) GetBool(ctx context.Context, application, environment, key string) (bool, error) {
	data, err := c.deployedData(ctx, application, environment)
	if err != nil {
		return false, err
	}
	v, ok := data[key]
	if !ok {
		return false, cperrors.NotFound("ConfigurationKey", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, cperrors.ValidationError(key, "configuration key %q is not a bool", key)
	}
	return b, nil
}
