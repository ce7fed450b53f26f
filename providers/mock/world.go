// Package mock implements every control-plane service and data-plane
// client contract purely in memory. It is the reference
// implementation contract tests run against: calling the same operation on
// the mock and on any real provider must return structurally equal value
// records, modulo opaque identifiers and timestamps.
//
// Every adapter struct shares one world, so all state for a given
// *provider.Shared lives behind that world's own locks rather than behind
// one lock per capability.
package mock

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/provider"
)

// world is the per-facade in-memory universe every mock adapter reads and
// writes. Each Facade construction gets a fresh world; sub-worlds use their own mutex so a slow
// putObject never blocks a getSecret.
type world struct {
	logger logr.Logger
	shared *provider.Shared
	rng    *rand.Rand
	seq    map[string]int
	seqMu  sync.Mutex

	deploymentsMu sync.RWMutex
	deployments   map[string]*api.Deployment

	functionsMu sync.RWMutex
	functions   map[string]*api.ServerlessFunction
	esmMu       sync.RWMutex
	esms        map[string]*api.EventSourceMapping
	funcURLsMu  sync.RWMutex
	funcURLs    map[string]*api.FunctionURLConfig

	jobsMu    sync.RWMutex
	jobs      map[string]*api.Job
	scheduled map[string]*api.ScheduledJob
	schedMu   sync.RWMutex

	queuesMu sync.RWMutex
	queues   map[string]*mockQueueState

	secretsMu sync.RWMutex
	secrets   map[string]*mockSecretState

	configsMu sync.RWMutex
	profiles  map[string]*api.ConfigurationProfile
	versions  map[string][]*api.Configuration

	bucketsMu sync.RWMutex
	buckets   map[string]bool
	objects   map[string]*api.ObjectData

	topicsMu sync.RWMutex
	topics   map[string]*api.Topic

	busesMu sync.RWMutex
	buses   map[string]*api.EventBus

	// deliveries counts, per "bus/rule/targetID", how many times
	// publishEvent has matched that target, so tests can assert "exactly
	// once per matching target" without actually invoking targets that
	// reference resources outside this world.
	deliveriesMu sync.Mutex
	deliveries   map[string]int

	docsMu sync.RWMutex
	docs   map[string]map[string]*api.Document // collection -> key -> doc

	dataMu            sync.Mutex
	connected         bool
	tables            map[string][]api.Row
	migrationsApplied map[int]bool

	authMu        sync.RWMutex
	authCfg       api.AuthConfig
	tokens        map[string]*api.TokenClaims // access token -> claims
	revoked       map[string]bool
	refreshTokens map[string]string // refresh token -> subject

	cacheClustersMu sync.RWMutex
	cacheClusters   map[string]*mockCacheCluster
	cacheDataMu     sync.RWMutex
	cacheData       map[string]mockCacheEntry

	reposMu sync.RWMutex
	repos   map[string]*mockRepoState

	// latency, when non-zero, is injected before every operation to
	// exercise retry/flakiness tests.
	latency time.Duration
}

type mockQueueState struct {
	queue    api.Queue
	messages []api.Message
	dedup    map[string]string // DeduplicationID -> message ID already enqueued
}

type mockSecretState struct {
	secret   api.Secret
	value    api.SecretValue
	versionN int
}

type mockCacheCluster struct {
	cluster control.CacheCluster
}

type mockCacheEntry struct {
	value   string
	expires time.Time // zero means no expiry
}

type mockRepoState struct {
	repo       repoRecord
	images     []imageRecord
	lifecycle  string
	scan       bool
	permission string
}

type repoRecord struct {
	Name    string
	URI     string
	Created string
}

type imageRecord struct {
	Tag       string
	Digest    string
	SizeBytes int64
	PushedAt  string
}

// newWorld builds an empty world. seed makes job-outcome randomness
// deterministic for tests.
func newWorld(shared *provider.Shared, seed int64, latency time.Duration) *world {
	return &world{
		logger:            shared.Logger,
		shared:            shared,
		rng:               rand.New(rand.NewSource(seed)),
		seq:               make(map[string]int),
		deployments:       make(map[string]*api.Deployment),
		functions:         make(map[string]*api.ServerlessFunction),
		esms:              make(map[string]*api.EventSourceMapping),
		funcURLs:          make(map[string]*api.FunctionURLConfig),
		jobs:              make(map[string]*api.Job),
		scheduled:         make(map[string]*api.ScheduledJob),
		queues:            make(map[string]*mockQueueState),
		secrets:           make(map[string]*mockSecretState),
		profiles:          make(map[string]*api.ConfigurationProfile),
		versions:          make(map[string][]*api.Configuration),
		buckets:           make(map[string]bool),
		objects:           make(map[string]*api.ObjectData),
		topics:            make(map[string]*api.Topic),
		buses:             make(map[string]*api.EventBus),
		deliveries:        make(map[string]int),
		docs:              make(map[string]map[string]*api.Document),
		tables:            make(map[string][]api.Row),
		migrationsApplied: make(map[int]bool),
		tokens:            make(map[string]*api.TokenClaims),
		revoked:           make(map[string]bool),
		refreshTokens:     make(map[string]string),
		cacheClusters:     make(map[string]*mockCacheCluster),
		cacheData:         make(map[string]mockCacheEntry),
		repos:             make(map[string]*mockRepoState),
		latency:           latency,
	}
}

// nextID returns an opaque "mock-<service>-<n>" identifier.
func (w *world) nextID(service string) string {
	w.seqMu.Lock()
	defer w.seqMu.Unlock()
	w.seq[service]++
	return idFor(service, w.seq[service])
}

func idFor(service string, n int) string {
	return "mock-" + service + "-" + strconv.Itoa(n)
}

func (w *world) injectLatency() {
	if w.latency > 0 {
		time.Sleep(w.latency)
	}
}

func (w *world) now() time.Time { return time.Now() }
