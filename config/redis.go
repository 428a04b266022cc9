// institution-portal/config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the identity-cache client. Redis is optional: when the
// address is unset or the server is unreachable the caller receives nil and
// the application runs without caching.
func ConnectRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR is not set, identity caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("Redis connection failed, identity caching disabled", "error", err)
		return nil
	}

	slog.Info("Connected to Redis")
	return rdb
}
