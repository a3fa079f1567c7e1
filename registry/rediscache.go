package registry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantgate"
)

var (
	// ErrFailedToParseRedisURL is returned when the cache URL is invalid.
	ErrFailedToParseRedisURL = errors.New("failed to parse redis cache url")
	// ErrRedisNotReady is returned when the cache server cannot be reached
	// within the configured attempts.
	ErrRedisNotReady = errors.New("redis cache did not become ready")
)

// RedisConfig configures the shared record cache.
type RedisConfig struct {
	ConnectionURL  string        `env:"REGISTRY_REDIS_URL"`                                    // ConnectionURL in the format "redis://:password@localhost:6379/0".
	TTL            time.Duration `env:"REGISTRY_REDIS_TTL" envDefault:"5m"`                    // TTL bounds record staleness across instances.
	KeyPrefix      string        `env:"REGISTRY_REDIS_KEY_PREFIX" envDefault:"tenant:record:"` // KeyPrefix namespaces cache keys.
	RetryAttempts  int           `env:"REGISTRY_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REGISTRY_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REGISTRY_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// redisCache is a RecordCache shared between instances through Redis.
// Records are stored as JSON under prefix+id with the configured TTL.
// Cache failures degrade to misses; the store stays authoritative.
type redisCache struct {
	client     *redis.Client
	ttl        time.Duration
	prefix     string
	ownsClient bool
}

// NewRedisCache wraps an existing client. The caller keeps ownership of
// the client; Close does not touch it.
func NewRedisCache(client *redis.Client, ttl time.Duration, keyPrefix string) RecordCache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		prefix: keyPrefix,
	}
}

// OpenRedisCache connects to the cache server with retry and ping
// verification and returns a cache owning the client.
func OpenRedisCache(ctx context.Context, cfg RedisConfig) (RecordCache, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisURL, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)

		if err := client.Ping(ctx).Err(); err == nil {
			return &redisCache{
				client:     client,
				ttl:        cfg.TTL,
				prefix:     cfg.KeyPrefix,
				ownsClient: true,
			}, nil
		}

		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		default:
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, ErrRedisNotReady
}

func (c *redisCache) key(id tenantgate.ID) string {
	return c.prefix + id.String()
}

func (c *redisCache) Get(ctx context.Context, id tenantgate.ID) (*Record, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupted payload is a miss; drop it so the next Set heals the key.
		c.client.Del(ctx, c.key(id))
		return nil, false
	}
	return &rec, true
}

func (c *redisCache) Set(ctx context.Context, id tenantgate.ID, rec *Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(id), data, c.ttl)
}

func (c *redisCache) Delete(ctx context.Context, id tenantgate.ID) {
	c.client.Del(ctx, c.key(id))
}

// Close releases the client when the cache owns it.
func (c *redisCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}
