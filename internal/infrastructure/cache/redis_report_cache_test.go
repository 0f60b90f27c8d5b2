package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jobledger/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisReportCacheWithClient(client, "test:report:", time.Minute), mr
}

func TestRedisReportCache_GetSet(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	owner := uuid.New()

	_, ok, err := c.Get(ctx, owner, "dashboard")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, owner, "dashboard", []byte(`{"jobs":3}`)))
	data, ok, err := c.Get(ctx, owner, "dashboard")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"jobs":3}`, string(data))

	assert.True(t, mr.Exists("test:report:"+owner.String()+":dashboard"))
	assert.Equal(t, time.Minute, mr.TTL("test:report:"+owner.String()+":dashboard"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, owner, "dashboard")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisReportCache_InvalidateOwner(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	require.NoError(t, c.Set(ctx, owner, "dashboard", []byte("a")))
	require.NoError(t, c.Set(ctx, owner, "monthly", []byte("b")))
	require.NoError(t, c.Set(ctx, other, "dashboard", []byte("c")))

	require.NoError(t, c.InvalidateOwner(ctx, owner))

	_, ok, _ := c.Get(ctx, owner, "dashboard")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, owner, "monthly")
	assert.False(t, ok)
	data, ok, _ := c.Get(ctx, other, "dashboard")
	assert.True(t, ok)
	assert.Equal(t, "c", string(data))
	assert.Len(t, mr.Keys(), 1)

	assert.NoError(t, c.InvalidateOwner(ctx, uuid.New()))
}

func TestRedisReportCache_ServerDown(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	_, ok, err := c.Get(context.Background(), uuid.New(), "dashboard")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestReportCacheFactory(t *testing.T) {
	t.Run("disabled redis uses memory", func(t *testing.T) {
		f := NewReportCacheFactory(config.RedisConfig{}, config.ReportConfig{CacheTTL: time.Minute})
		c, err := f.CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryReportCache{}, c)
	})

	t.Run("reachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		f := NewReportCacheFactory(
			config.RedisConfig{Enabled: true, Host: mr.Host(), Port: atoiPort(t, mr.Port())},
			config.ReportConfig{CacheTTL: time.Minute, CacheKeyPrefix: "x:"},
		)
		c, err := f.CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &RedisReportCache{}, c)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		f := NewReportCacheFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, config.ReportConfig{})
		c, err := f.CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryReportCache{}, c)
	})

	t.Run("unreachable redis without fallback", func(t *testing.T) {
		f := NewReportCacheFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, config.ReportConfig{},
			WithInMemoryFallback(false))
		_, err := f.CreateCache()
		assert.Error(t, err)
	})
}

func atoiPort(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
