package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	ecTypes "github.com/aws/aws-sdk-go-v2/service/elasticache/types"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const cacheServiceName = "elasticache"

// cacheSvc adapts control.CacheService to Amazon ElastiCache replication
// groups (Redis engine). One CacheCluster maps to one replication group
// with a single node group.
type cacheSvc struct {
	base
	client *elasticache.Client
}

var _ control.CacheService = (*cacheSvc)(nil)

func newCacheSvc(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := elasticache.NewFromConfig(awsCfg, func(o *elasticache.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &cacheSvc{base: newBase(cfg, shared), client: client}, nil
}

func (s *cacheSvc) CreateCluster(ctx context.Context, name string, p control.CacheClusterParams) (control.CacheCluster, error) {
	return do(ctx, s.base, cacheServiceName, func(ctx context.Context) (control.CacheCluster, error) {
		nodeType := p.NodeType
		if nodeType == "" {
			nodeType = "cache.t3.micro"
		}
		in := &elasticache.CreateReplicationGroupInput{
			ReplicationGroupId:          awssdk.String(name),
			ReplicationGroupDescription: awssdk.String(fmt.Sprintf("lc-platform cache cluster %s", name)),
			CacheNodeType:               awssdk.String(nodeType),
			Engine:                      awssdk.String("redis"),
			NumNodeGroups:               awssdk.Int32(1),
			ReplicasPerNodeGroup:        awssdk.Int32(int32(max0(p.NumNodes - 1))),
			TransitEncryptionEnabled:    awssdk.Bool(p.InTransitEncrypt),
			AuthToken:                   p.AuthToken,
		}
		out, err := s.client.CreateReplicationGroup(ctx, in)
		if err != nil {
			return control.CacheCluster{}, err
		}
		return toCacheCluster(out.ReplicationGroup), nil
	})
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func toCacheCluster(rg *ecTypes.ReplicationGroup) control.CacheCluster {
	c := control.CacheCluster{
		Name:             awssdk.ToString(rg.ReplicationGroupId),
		Status:           cacheStatus(awssdk.ToString(rg.Status)),
		AuthTokenEnabled: awssdk.ToBool(rg.AuthTokenEnabled),
		InTransitEncrypt: awssdk.ToBool(rg.TransitEncryptionEnabled),
	}
	if rg.CacheNodeType != nil {
		c.NodeType = *rg.CacheNodeType
	}
	if len(rg.NodeGroups) > 0 {
		c.NumNodes = len(rg.NodeGroups[0].NodeGroupMembers)
		if rg.NodeGroups[0].PrimaryEndpoint != nil {
			c.Endpoint = fmt.Sprintf("%s:%d", awssdk.ToString(rg.NodeGroups[0].PrimaryEndpoint.Address), rg.NodeGroups[0].PrimaryEndpoint.Port)
		}
	}
	return c
}

func cacheStatus(s string) control.CacheClusterStatus {
	switch s {
	case "available":
		return control.CacheClusterAvailable
	case "deleting":
		return control.CacheClusterDeleting
	default:
		return control.CacheClusterCreating
	}
}

func (s *cacheSvc) GetCluster(ctx context.Context, name string) (control.CacheCluster, error) {
	return do(ctx, s.base, cacheServiceName, func(ctx context.Context) (control.CacheCluster, error) {
		out, err := s.client.DescribeReplicationGroups(ctx, &elasticache.DescribeReplicationGroupsInput{ReplicationGroupId: awssdk.String(name)})
		if err != nil {
			return control.CacheCluster{}, err
		}
		if len(out.ReplicationGroups) == 0 {
			return control.CacheCluster{}, cperrors.NotFound("CacheCluster", name)
		}
		return toCacheCluster(&out.ReplicationGroups[0]), nil
	})
}

func (s *cacheSvc) DeleteCluster(ctx context.Context, name string) error {
	_, err := do(ctx, s.base, cacheServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.DeleteReplicationGroup(ctx, &elasticache.DeleteReplicationGroupInput{ReplicationGroupId: awssdk.String(name)})
		return struct{}{}, err
	})
	return err
}

func (s *cacheSvc) ListClusters(ctx context.Context) ([]control.CacheCluster, error) {
	return do(ctx, s.base, cacheServiceName, func(ctx context.Context) ([]control.CacheCluster, error) {
		var out []control.CacheCluster
		paginator := elasticache.NewDescribeReplicationGroupsPaginator(s.client, &elasticache.DescribeReplicationGroupsInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, rg := range page.ReplicationGroups {
				out = append(out, toCacheCluster(&rg))
			}
		}
		return out, nil
	})
}

func (s *cacheSvc) ConfigureSecurity(ctx context.Context, name string, authToken *string, inTransitEncrypt bool) error {
	_, err := do(ctx, s.base, cacheServiceName, func(ctx context.Context) (struct{}, error) {
		in := &elasticache.ModifyReplicationGroupInput{
			ReplicationGroupId: awssdk.String(name),
			ApplyImmediately:   awssdk.Bool(true),
		}
		if authToken != nil {
			in.AuthToken = authToken
			in.AuthTokenUpdateStrategy = ecTypes.AuthTokenUpdateStrategyTypeRotate
		}
		_, err := s.client.ModifyReplicationGroup(ctx, in)
		return struct{}{}, err
	})
	return err
}

func (s *cacheSvc) FlushCluster(ctx context.Context, name string) error {
	return do2(ctx, s.base, cacheServiceName, func(ctx context.Context) error {
		cluster, err := s.GetCluster(ctx, name)
		if err != nil {
			return err
		}
		if cluster.Endpoint == "" {
			return cperrors.New(cperrors.ServiceUnavailable, "cache cluster %q has no endpoint yet", name)
		}
		rdb := goredis.NewClient(&goredis.Options{Addr: cluster.Endpoint})
		defer rdb.Close()
		return rdb.FlushAll(ctx).Err()
	})
}

// do2 is do's void-return counterpart for operations that don't need the
// retry engine to thread a typed result back, only translated errors.
func do2(ctx context.Context, b base, service string, op func(context.Context) error) error {
	_, err := do(ctx, b, service, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// cacheClient is the runtime.CacheClient data path, talking directly to
// the Redis engine ElastiCache exposes via go-redis/redis/v8. It is
// deliberately independent from
// cacheSvc: the control plane provisions clusters, the data plane just
// needs an address to talk to.
type cacheClient struct {
	base
	rdb *goredis.Client
}

var _ runtime.CacheClient = (*cacheClient)(nil)

func newCacheClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	addr := cfg.Options.Raw["cacheEndpoint"]
	if addr == "" {
		addr = "localhost:6379"
	}
	opts := &goredis.Options{Addr: addr}
	if cfg.Options.Raw["cacheAuthToken"] != "" {
		opts.Password = cfg.Options.Raw["cacheAuthToken"]
	}
	return &cacheClient{base: newBase(cfg, shared), rdb: goredis.NewClient(opts)}, nil
}

func (c *cacheClient) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, translate(cacheServiceName, err)
	}
	return v, true, nil
}

func (c *cacheClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return translate(cacheServiceName, err)
	}
	return nil
}

func (c *cacheClient) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return translate(cacheServiceName, err)
	}
	return nil
}

func (c *cacheClient) Increment(ctx context.Context, key string, by int64) (int64, error) {
	n, err := c.rdb.IncrBy(ctx, key, by).Result()
	if err != nil {
		return 0, translate(cacheServiceName, err)
	}
	return n, nil
}

func (c *cacheClient) MGet(ctx context.Context, keys []string) (map[string]string, error) {
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, translate(cacheServiceName, err)
	}
	out := make(map[string]string, len(keys))
	for i, v := range vals {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (c *cacheClient) MSet(ctx context.Context, values map[string]string, ttl time.Duration) error {
	pipe := c.rdb.Pipeline()
	for k, v := range values {
		pipe.Set(ctx, k, v, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return translate(cacheServiceName, err)
	}
	return nil
}

func (c *cacheClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := c.rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		return translate(cacheServiceName, err)
	}
	if !ok {
		return cperrors.NotFound("CacheKey", key)
	}
	return nil
}

func (c *cacheClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, translate(cacheServiceName, err)
	}
	if d == -2*time.Second {
		return 0, cperrors.NotFound("CacheKey", key)
	}
	return d, nil
}
