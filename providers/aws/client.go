// Package aws adapts every control-plane and data-plane contract to real
// AWS SDK v2 clients. Adapters are intentionally thin translation layers:
// one SDK client per AWS service, built from a single
// configv2.LoadDefaultConfig call, with each method wrapped in the shared
// retry/backoff loop.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-logr/logr"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/retry"
)

// loadConfig builds an aws.Config from a provider.Config: region and, when present,
// static credentials come from the resolved Config rather than only the
// ambient environment, so a facade can be pointed at a specific account
// without mutating process-wide env vars.
func loadConfig(ctx context.Context, cfg provider.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Credentials != nil && cfg.Credentials.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Credentials.AccessKeyID, cfg.Credentials.SecretAccessKey, "",
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, cperrors.Wrap(cperrors.ServiceUnavailable, err, "failed to load AWS configuration")
	}
	return awsCfg, nil
}

// base is embedded by every adapter struct; it carries the reliability
// primitives and logger every adapter shares, mirroring how every
// mock adapter carries a *world.
type base struct {
	cfg    provider.Config
	shared *provider.Shared
	log    logr.Logger
}

func newBase(cfg provider.Config, shared *provider.Shared) base {
	return base{cfg: cfg, shared: shared, log: shared.Logger}
}

// do runs op under the shared retry policy, passing a *cperrors.Error
// through unchanged and translating any other failure with translate so no
// raw SDK error crosses the contract boundary.
func do[T any](ctx context.Context, b base, service string, op func(ctx context.Context) (T, error)) (T, error) {
	return retry.Do(ctx, b.shared.RetryPolicy, func(ctx context.Context) (T, error) {
		v, err := op(ctx)
		if err != nil {
			return v, translate(service, err)
		}
		return v, nil
	})
}

// endpointOverride returns cfg.Options.Endpoint as a service-client option
// setter, used by every adapter that wants to point at a local AWS-API
// emulator (e.g. LocalStack) instead of the genuine AWS endpoint.
func endpointOverride(cfg provider.Config) *string {
	if cfg.Options.Endpoint == "" {
		return nil
	}
	return aws.String(cfg.Options.Endpoint)
}

func wrapf(service, format string, args ...any) error {
	return fmt.Errorf("%s: %s", service, fmt.Sprintf(format, args...))
}
