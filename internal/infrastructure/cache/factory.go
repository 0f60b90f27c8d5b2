package cache

import (
	"fmt"
	"io"

	"github.com/jobledger/backend/internal/application/report"
	"github.com/jobledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReportCache is a report.Cache that owns resources
type ReportCache interface {
	report.Cache
	io.Closer
}

// ReportCacheFactory creates the report cache from configuration
type ReportCacheFactory struct {
	redisConfig           config.RedisConfig
	reportConfig          config.ReportConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReportCacheFactory creates a new factory
func NewReportCacheFactory(redisCfg config.RedisConfig, reportCfg config.ReportConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:           redisCfg,
		reportConfig:          reportCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when redis.enabled is set and reachable,
// and the in-memory cache otherwise
func (f *ReportCacheFactory) CreateCache() (ReportCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory report cache")
		return NewInMemoryReportCache(f.reportConfig.CacheTTL), nil
	}

	c, err := NewRedisReportCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.reportConfig.CacheKeyPrefix, f.reportConfig.CacheTTL)
	if err == nil {
		f.logger.Info("using Redis report cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis report cache unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory report cache", zap.Error(err))
	return NewInMemoryReportCache(f.reportConfig.CacheTTL), nil
}
