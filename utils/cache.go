package utils

import (
	"context"
	"fmt"
	"time"

	"marketplace/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// cacheOptions selects the cache database. Task queue traffic goes to
// RedisQueueDB through asynq and never shares it.
func cacheOptions(cfg config.Config) *redis.Options {
	return &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	}
}

// NewCacheClient connects the Redis client shared by the slot cache and the
// chat context store, and checks it answers.
func NewCacheClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(cacheOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis cache at %s db %d: %w", cfg.RedisAddr, cfg.RedisCacheDB, err)
	}
	GetLogger().Info("Connected to Redis cache", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisCacheDB))
	return client, nil
}
