// Package api defines the plain value records exchanged across every
// control-plane and data-plane contract. None of these types carry
// behavior or provider-specific fields — that is the whole point of the
// abstraction: a Deployment returned by the mock provider and a Deployment
// returned by the AWS provider must be structurally interchangeable.
//
// Optional fields are modeled as pointers; required fields are
// plain values.
package api

import "time"

// ProviderName selects which concrete adapter family a Config resolves to.
type ProviderName string

const (
	ProviderAWS   ProviderName = "aws"
	ProviderMock  ProviderName = "mock"
	ProviderAzure ProviderName = "azure"
	ProviderGCP   ProviderName = "gcp"
)

// DeploymentStatus is Deployment.Status's closed set.
type DeploymentStatus string

const (
	DeploymentCreating DeploymentStatus = "creating"
	DeploymentRunning  DeploymentStatus = "running"
	DeploymentUpdating DeploymentStatus = "updating"
	DeploymentStopped  DeploymentStatus = "stopped"
	DeploymentFailed   DeploymentStatus = "failed"
)

// Deployment is a running web application.
type Deployment struct {
	ID               string
	Name             string
	URL              string
	Status           DeploymentStatus
	Image            string
	CPU              int
	Memory           int
	MinInstances     int
	MaxInstances     int
	CurrentInstances int
	Environment      map[string]string
	Created          time.Time
	LastUpdated      time.Time
}

// FunctionStatus is ServerlessFunction.Status's closed set.
type FunctionStatus string

const (
	FunctionCreating FunctionStatus = "creating"
	FunctionActive   FunctionStatus = "active"
	FunctionInactive FunctionStatus = "inactive"
	FunctionFailed   FunctionStatus = "failed"
)

// ServerlessFunction is a serverless function.
type ServerlessFunction struct {
	Name         string
	ARN          *string
	Runtime      string
	Handler      string
	Status       FunctionStatus
	MemorySize   int
	Timeout      int
	Environment  map[string]string
	CodeSize     int64
	Version      string
	Created      time.Time
	LastModified time.Time
}

// InvocationType selects how invokeFunction awaits its result.
type InvocationType string

const (
	InvokeSync   InvocationType = "SYNC"
	InvokeAsync  InvocationType = "ASYNC"
	InvokeDryRun InvocationType = "DRY_RUN"
)

// InvokeResult is invokeFunction's return value.
type InvokeResult struct {
	StatusCode      int
	Payload         []byte
	ExecutedVersion *string
	FunctionError   *string
	LogResult       *string
}

// AuthType is a function-URL's authorization mode.
type AuthType string

const (
	AuthNone AuthType = "NONE"
	AuthIAM  AuthType = "IAM"
)

// EventSourceMapping connects an event source to a function invocation.
type EventSourceMapping struct {
	ID        string
	Function  string
	Source    string
	Enabled   bool
	BatchSize int
}

// FunctionURLConfig is a function's public HTTPS endpoint configuration.
type FunctionURLConfig struct {
	Function string
	URL      string
	AuthType AuthType
}

// JobStatus is Job.Status's closed set.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Job is one batch execution.
type Job struct {
	ID           string
	Name         string
	Status       JobStatus
	Image        string
	Command      []string
	Environment  map[string]string
	CPU          int
	Memory       int
	Timeout      int
	RetryCount   int
	AttemptsMade int
	ExitCode     *int
	Error        *string
	Created      time.Time
	Started      *time.Time
	Finished     *time.Time
}

// ScheduledJob is a cron-scheduled batch job template.
type ScheduledJob struct {
	ID          string
	Name        string
	Schedule    string // generalized cron, or "rate(...)"
	Enabled     bool
	Image       string
	Command     []string
	Environment map[string]string
	CPU         int
	Memory      int
	Timeout     int
	Created     time.Time
}

// Queue is a message queue.
type Queue struct {
	Name                   string
	URL                    string
	MessageCount           int
	FIFO                   bool
	VisibilityTimeout      int
	MessageRetentionSecs   int
	MaxMessageSize         int
	EnableDeadLetter       bool
	DeadLetterAfterRetries int
	Created                time.Time
}

// QueueOptions configures createQueue.
type QueueOptions struct {
	VisibilityTimeout      int
	MessageRetention       int
	MaxMessageSize         int
	FIFO                   bool
	EnableDeadLetter       bool
	DeadLetterAfterRetries int
}

// Message is a queue message.
type Message struct {
	ID              string
	Body            string
	Attributes      map[string]string
	DeduplicationID *string
	GroupID         *string
	ReceiptHandle   string
	ReceiveCount    int
}

// Secret is secret metadata.
type Secret struct {
	Name            string
	Version         string
	Created         time.Time
	LastModified    time.Time
	RotationEnabled bool
	RotationDays    *int
	LastRotated     *time.Time
	Tags            map[string]string
	PendingDeletion bool
	DeletesAt       *time.Time
}

// SecretValue is a secret's payload, either a plain string or structured
// JSON (exactly one of String/JSON is set).
type SecretValue struct {
	String  *string
	JSON    map[string]any
	Version string
}

// RotationConfig configures rotateSecret.
type RotationConfig struct {
	Enabled bool
	Days    int
}

// Configuration is one deployed application configuration.
type Configuration struct {
	Application string
	Environment string
	Version     int
	Data        map[string]any
	Created     time.Time
	Deployed    bool
	Description *string
}

// ConfigurationProfile groups the versions of one application/environment
// pair.
type ConfigurationProfile struct {
	Application     string
	Environment     string
	LatestVersion   int
	DeployedVersion int
	Created         time.Time
}

// ObjectInfo is object-storage listing metadata.
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// ObjectData is a fetched object's full payload plus metadata.
type ObjectData struct {
	ObjectInfo
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// ObjectMetadata is put/copy's return value.
type ObjectMetadata struct {
	ETag         string
	Size         int64
	LastModified time.Time
}

// BucketOptions configures createBucket.
type BucketOptions struct {
	Versioning bool
	Encryption bool
}

// Subscription is a topic subscription.
type SubscriptionStatus string

const (
	SubscriptionPending      SubscriptionStatus = "pendingConfirmation"
	SubscriptionConfirmed    SubscriptionStatus = "confirmed"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

type Subscription struct {
	ID        string
	Protocol  string // email | https | sms | sqs | lambda...
	Endpoint  string
	Status    SubscriptionStatus
	Confirmed bool
}

// Topic is a pub/sub topic.
type Topic struct {
	Name          string
	ARN           string
	Subscriptions []Subscription
	Created       time.Time
}

// EventBus is a named event-routing bus.
type EventBus struct {
	Name    string
	Rules   []Rule
	Created time.Time
}

// EventPattern filters which events a Rule accepts. Empty Source/Type means
// "match any"; Data (if present) is matched as a top-level key/value subset
// of Event.Data.
type EventPattern struct {
	Source []string
	Type   []string
	Data   map[string]any
}

// Target is one delivery destination for a Rule.
type Target struct {
	ID  string
	ARN string
}

// Rule routes matching events to its Targets.
type Rule struct {
	Name    string
	Pattern EventPattern
	Targets []Target
	Enabled bool
}

// Event is one published event.
type Event struct {
	ID     string
	Source string
	Type   string
	Data   map[string]any
	Time   time.Time
}

// Document is one NoSQL document.
type Document struct {
	Collection string
	Key        string
	Data       map[string]any
	ETag       string
}

// Row is one DataStoreService query result row.
type Row map[string]any

// ExecResult is execute's return value.
type ExecResult struct {
	RowsAffected int64
	InsertID     *int64
}

// Migration is one ordered, idempotent schema migration.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// TokenSet is the artifact returned by an OAuth2/OIDC code exchange.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
	Scope        string
}

// TokenClaims is a validated token's claim set.
type TokenClaims struct {
	Subject   string
	Issuer    string
	Audience  string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Email     *string
	Name      *string
	Scope     *string
	Roles     []string
}

// UserInfo is the OIDC userinfo endpoint's response shape.
type UserInfo struct {
	Subject string
	Email   *string
	Name    *string
}

// AuthConfig configures AuthenticationService.configure.
type AuthConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RolesClaim   string // default "roles"
}

// DependencyType is ApplicationDependency.Type's closed set.
type DependencyType string

const (
	DepDatabase DependencyType = "database"
	DepCache    DependencyType = "cache"
	DepQueue    DependencyType = "queue"
	DepStorage  DependencyType = "storage"
	DepCompute  DependencyType = "compute"
	DepNetwork  DependencyType = "network"
	DepSecrets  DependencyType = "secrets"
	DepConfig   DependencyType = "config"
	DepEventBus DependencyType = "event-bus"
)

// DependencyProvider is ApplicationDependency.Provider's closed set.
type DependencyProvider string

const (
	DepProviderAWS   DependencyProvider = "aws"
	DepProviderAzure DependencyProvider = "azure"
	DepProviderGCP   DependencyProvider = "gcp"
)

// DependencyStatus is ApplicationDependency.Status's closed set.
type DependencyStatus string

const (
	DepPending    DependencyStatus = "pending"
	DepValidating DependencyStatus = "validating"
	DepValid      DependencyStatus = "valid"
	DepInvalid    DependencyStatus = "invalid"
	DepDeploying  DependencyStatus = "deploying"
	DepDeployed   DependencyStatus = "deployed"
	DepFailed     DependencyStatus = "failed"
)

// ApplicationDependency is the declarative description of one cloud
// dependency. Struct tags encode the JSON-Schema constraints the
// Validator enforces; DisallowUnknownFields at the JSON-decode boundary
// stands in for the schema's "no additional properties" rule.
type ApplicationDependency struct {
	ID            string             `json:"id" validate:"required,depid"`
	Name          string             `json:"name" validate:"required,min=1,max=255,depname"`
	Type          DependencyType     `json:"type" validate:"required,oneof=database cache queue storage compute network secrets config event-bus"`
	Provider      DependencyProvider `json:"provider" validate:"required,oneof=aws azure gcp"`
	Region        string             `json:"region" validate:"required,depregion"`
	Status        DependencyStatus   `json:"status" validate:"required,oneof=pending validating valid invalid deploying deployed failed"`
	Created       string             `json:"created" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Updated       string             `json:"updated" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Version       *string            `json:"version,omitempty" validate:"omitempty,semver"`
	Environment   *string            `json:"environment,omitempty" validate:"omitempty,oneof=dev staging prod"`
	Description   *string            `json:"description,omitempty" validate:"omitempty,max=1000"`
	Configuration map[string]any     `json:"configuration,omitempty"`
	Policy        map[string]any     `json:"policy,omitempty"`
	GeneratedName *string            `json:"generatedName,omitempty"`
	Tags          map[string]string  `json:"tags,omitempty"`
	Dependencies  []string           `json:"dependencies,omitempty" validate:"omitempty,dive,depid"`
	DeployedAt    *string            `json:"deployedAt,omitempty"`
}
