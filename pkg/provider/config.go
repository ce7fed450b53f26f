package provider

import (
	"os"
	"time"

	"github.com/stainedhead/lc-platform/api"
)

// Credentials holds static credentials; when unset the provider falls back
// to workload identity.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// RetryOptions overrides the default retry.Policy.
type RetryOptions struct {
	MaxAttempts int
	BaseDelayMs int
	MaxDelayMs  int
	Jitter      *bool
}

// CacheOptions overrides the default cache.Config.
type CacheOptions struct {
	Capacity   int
	DefaultTTL time.Duration
}

// Options is the free-form-by-service bag of provider options, given a
// typed home per concern instead of a raw map.
type Options struct {
	Endpoint string

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	UserPoolID     string
	UserPoolDomain string
	UserPoolRegion string

	BatchJobQueue      string
	BatchJobDefinition string

	AppConfigApplication string

	Cache CacheOptions
	Retry RetryOptions

	// Raw is the escape hatch for unknown/forward-compatible keys.
	Raw map[string]string
}

// Config is ProviderConfig: selects the provider, region,
// credentials, and per-service options. It is immutable after facade
// construction — both facades read it once when building their Factory.
type Config struct {
	Provider    api.ProviderName
	Region      string
	Credentials *Credentials
	Options     Options
}

// WithEnvDefaults returns a copy of c with unset fields filled from the
// environment fallbacks, in precedence order
// (explicit config always wins; environment only fills gaps).
func (c Config) WithEnvDefaults() Config {
	if c.Provider == "" {
		if v := os.Getenv("LC_PLATFORM_PROVIDER"); v != "" {
			c.Provider = api.ProviderName(v)
		}
	}
	if c.Region == "" {
		if v := os.Getenv("LC_PLATFORM_REGION"); v != "" {
			c.Region = v
		} else if v := os.Getenv("AWS_REGION"); v != "" {
			c.Region = v
		}
	}
	if c.Options.DBHost == "" {
		c.Options.DBHost = os.Getenv("DB_HOST")
	}
	if c.Options.DBPort == 0 {
		c.Options.DBPort = envInt("DB_PORT")
	}
	if c.Options.DBName == "" {
		c.Options.DBName = os.Getenv("DB_NAME")
	}
	if c.Options.DBUser == "" {
		c.Options.DBUser = os.Getenv("DB_USER")
	}
	if c.Options.DBPassword == "" {
		c.Options.DBPassword = os.Getenv("DB_PASSWORD")
	}
	return c
}

// AccountID reads the AWS_ACCOUNT_ID env fallback; it has no
// Config field of its own because it is only ever consumed by the AWS
// adapter family, not by the cloud-agnostic facades.
func AccountID() string {
	return os.Getenv("AWS_ACCOUNT_ID")
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
