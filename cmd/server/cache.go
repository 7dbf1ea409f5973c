package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskman-api/internal/cache"
	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/redis"
)

const (
	cacheDriverMemory = "memory"
	cacheDriverRedis  = "redis"
)

// openCache builds the listing cache backend chosen by configuration.
// The returned close func is never nil.
func openCache(ctx context.Context, cfg config.CacheConfig, l *slog.Logger) (cache.ResultCache, func() error, error) {
	switch cfg.Driver {
	case cacheDriverMemory:
		return cache.NewMemoryCache(), func() error { return nil }, nil

	case cacheDriverRedis:
		client, err := redis.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		c := redis.NewCache(client, cfg.Prefix, l)
		l.Info("Redis cache connected", slog.String("addr", cfg.RedisAddr))
		return c, c.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported cache driver: %q", cfg.Driver)
	}
}
