package utils

import (
	"context"
	"testing"

	"marketplace/config"

	"github.com/stretchr/testify/assert"
)

func TestCacheOptionsUseCacheDB(t *testing.T) {
	opts := cacheOptions(config.Config{RedisAddr: "redis:6379", RedisPassword: "pw", RedisCacheDB: 1, RedisQueueDB: 3})
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 1, opts.DB)
}

func TestNewCacheClientUnreachable(t *testing.T) {
	client, err := NewCacheClient(context.Background(), config.Config{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
