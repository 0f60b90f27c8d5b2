package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/application/report"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "jobledger:report:"
	defaultTTL       = 5 * time.Minute
	scanBatch        = 100
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisReportCache stores rendered reports in Redis under
// <prefix><owner>:<key>, so an owner's entries can be dropped together.
type RedisReportCache struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	ttl        time.Duration
}

// NewRedisReportCache connects to Redis and verifies the connection
func NewRedisReportCache(cfg RedisConfig, keyPrefix string, ttl time.Duration) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisReportCacheWithClient(client, keyPrefix, ttl)
	c.ownsClient = true
	return c, nil
}

// NewRedisReportCacheWithClient wraps an existing client. The caller keeps
// ownership of the client.
func NewRedisReportCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisReportCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisReportCache) ownerPrefix(ownerID uuid.UUID) string {
	return c.keyPrefix + ownerID.String() + ":"
}

// Get returns the cached value, reporting false on a miss
func (c *RedisReportCache) Get(ctx context.Context, ownerID uuid.UUID, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.ownerPrefix(ownerID)+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read report cache: %w", err)
	}
	return data, true, nil
}

// Set stores value with the configured TTL
func (c *RedisReportCache) Set(ctx context.Context, ownerID uuid.UUID, key string, value []byte) error {
	if err := c.client.Set(ctx, c.ownerPrefix(ownerID)+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}

// InvalidateOwner deletes every entry of the owner
func (c *RedisReportCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	var cursor uint64
	pattern := c.ownerPrefix(ownerID) + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan report cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate report cache: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the client when the cache created it
func (c *RedisReportCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

var _ report.Cache = (*RedisReportCache)(nil)
