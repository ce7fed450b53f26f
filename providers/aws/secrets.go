package aws

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const secretsServiceName = "secretsmanager"

// secrets adapts control.SecretsService to AWS Secrets Manager.
type secrets struct {
	base
	client *secretsmanager.Client
}

var _ control.SecretsService = (*secrets)(nil)

func newSecrets(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &secrets{base: newBase(cfg, shared), client: client}, nil
}

func secretString(value api.SecretValue) (*string, error) {
	if value.String != nil {
		return value.String, nil
	}
	if value.JSON != nil {
		b, err := json.Marshal(value.JSON)
		if err != nil {
			return nil, err
		}
		s := string(b)
		return &s, nil
	}
	return aws.String(""), nil
}

func (s *secrets) describe(ctx context.Context, name string) (api.Secret, error) {
	out, err := s.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{SecretId: aws.String(name)})
	if err != nil {
		return api.Secret{}, err
	}
	sec := api.Secret{
		Name:            aws.ToString(out.Name),
		RotationEnabled: aws.ToBool(out.RotationEnabled),
		Tags:            make(map[string]string, len(out.Tags)),
		PendingDeletion: out.DeletedDate != nil,
	}
	if out.CreatedDate != nil {
		sec.Created = *out.CreatedDate
	}
	if out.LastChangedDate != nil {
		sec.LastModified = *out.LastChangedDate
	}
	if out.LastRotatedDate != nil {
		sec.LastRotated = out.LastRotatedDate
	}
	if out.DeletedDate != nil {
		sec.DeletesAt = out.DeletedDate
	}
	for _, t := range out.Tags {
		sec.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return sec, nil
}

func (s *secrets) CreateSecret(ctx context.Context, name string, value api.SecretValue, tags map[string]string) (api.Secret, error) {
	return do(ctx, s.base, secretsServiceName, func(ctx context.Context) (api.Secret, error) {
		str, err := secretString(value)
		if err != nil {
			return api.Secret{}, err
		}
		tagList := make([]types.Tag, 0, len(tags))
		for k, v := range tags {
			tagList = append(tagList, types.Tag{Key: aws.String(k), Value: aws.String(v)})
		}
		_, err = s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:         aws.String(name),
			SecretString: str,
			Tags:         tagList,
		})
		if err != nil {
			return api.Secret{}, err
		}
		return s.describe(ctx, name)
	})
}

func (s *secrets) GetSecretValue(ctx context.Context, name string) (api.SecretValue, error) {
	return do(ctx, s.base, secretsServiceName, func(ctx context.Context) (api.SecretValue, error) {
		out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
		if err != nil {
			return api.SecretValue{}, err
		}
		val := api.SecretValue{Version: aws.ToString(out.VersionId)}
		raw := aws.ToString(out.SecretString)
		var asJSON map[string]any
		if json.Unmarshal([]byte(raw), &asJSON) == nil {
			val.JSON = asJSON
		} else {
			val.String = out.SecretString
		}
		return val, nil
	})
}

func (s *secrets) UpdateSecret(ctx context.Context, name string, value api.SecretValue) (api.Secret, error) {
	return do(ctx, s.base, secretsServiceName, func(ctx context.Context) (api.Secret, error) {
		str, err := secretString(value)
		if err != nil {
			return api.Secret{}, err
		}
		_, err = s.client.UpdateSecret(ctx, &secretsmanager.UpdateSecretInput{SecretId: aws.String(name), SecretString: str})
		if err != nil {
			return api.Secret{}, err
		}
		return s.describe(ctx, name)
	})
}

func (s *secrets) DeleteSecret(ctx context.Context, name string, force bool) error {
	_, err := do(ctx, s.base, secretsServiceName, func(ctx context.Context) (struct{}, error) {
		in := &secretsmanager.DeleteSecretInput{SecretId: aws.String(name)}
		if force {
			in.ForceDeleteWithoutRecovery = aws.Bool(true)
		} else {
			in.RecoveryWindowInDays = aws.Int64(30)
		}
		_, err := s.client.DeleteSecret(ctx, in)
		return struct{}{}, err
	})
	return err
}

func (s *secrets) ListSecrets(ctx context.Context) ([]api.Secret, error) {
	return do(ctx, s.base, secretsServiceName, func(ctx context.Context) ([]api.Secret, error) {
		var out []api.Secret
		paginator := secretsmanager.NewListSecretsPaginator(s.client, &secretsmanager.ListSecretsInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, entry := range page.SecretList {
				sec := api.Secret{
					Name:            aws.ToString(entry.Name),
					RotationEnabled: aws.ToBool(entry.RotationEnabled),
					PendingDeletion: entry.DeletedDate != nil,
				}
				if entry.CreatedDate != nil {
					sec.Created = *entry.CreatedDate
				}
				if entry.LastChangedDate != nil {
					sec.LastModified = *entry.LastChangedDate
				}
				out = append(out, sec)
			}
		}
		return out, nil
	})
}

func (s *secrets) RotateSecret(ctx context.Context, name string, cfg api.RotationConfig) (api.Secret, error) {
	return do(ctx, s.base, secretsServiceName, func(ctx context.Context) (api.Secret, error) {
		if !cfg.Enabled {
			return s.describe(ctx, name)
		}
		_, err := s.client.RotateSecret(ctx, &secretsmanager.RotateSecretInput{
			SecretId:          aws.String(name),
			RotationRules:     &types.RotationRulesType{AutomaticallyAfterDays: aws.Int64(int64(cfg.Days))},
			RotateImmediately: aws.Bool(false),
		})
		if err != nil {
			return api.Secret{}, err
		}
		return s.describe(ctx, name)
	})
}

func (s *secrets) TagSecret(ctx context.Context, name string, tags map[string]string) error {
	_, err := do(ctx, s.base, secretsServiceName, func(ctx context.Context) (struct{}, error) {
		tagList := make([]types.Tag, 0, len(tags))
		for k, v := range tags {
			tagList = append(tagList, types.Tag{Key: aws.String(k), Value: aws.String(v)})
		}
		_, err := s.client.TagResource(ctx, &secretsmanager.TagResourceInput{SecretId: aws.String(name), Tags: tagList})
		return struct{}{}, err
	})
	return err
}

// secretsClient adapts runtime.SecretsClient to the same Secrets Manager
// client, layering the shared LRU+TTL cache in front of the provider fetch
// exactly like providers/mock/runtime_secrets.go does.
type secretsClient struct {
	svc *secrets
}

var _ runtime.SecretsClient = (*secretsClient)(nil)

func newSecretsClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newSecrets(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &secretsClient{svc: s.(*secrets)}, nil
}

func (c *secretsClient) Get(ctx context.Context, name string) (string, error) {
	if v, ok := c.svc.shared.SecretsCache.Get(name); ok {
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	val, err := c.svc.GetSecretValue(ctx, name)
	if err != nil {
		return "", err
	}
	if val.String == nil {
		return "", cperrors.ValidationError(name, "secret %q has no plain string value", name)
	}
	c.svc.shared.SecretsCache.Put(name, *val.String)
	return *val.String, nil
}

func (c *secretsClient) GetJSON(ctx context.Context, name string) (map[string]any, error) {
	key := "json:" + name
	if v, ok := c.svc.shared.SecretsCache.Get(key); ok {
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	}
	val, err := c.svc.GetSecretValue(ctx, name)
	if err != nil {
		return nil, err
	}
	if val.JSON == nil {
		return nil, cperrors.ValidationError(name, "secret %q has no JSON value", name)
	}
	c.svc.shared.SecretsCache.Put(key, val.JSON)
	return val.JSON, nil
}
