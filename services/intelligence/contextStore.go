package ai

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/models"
	"marketplace/utils"

	"github.com/go-redis/redis/v8"
)

// ContextStore keeps per-user conversation state between chat turns.
type ContextStore interface {
	Get(ctx context.Context, userID string) (*models.AIContext, error)
	Set(ctx context.Context, userID string, aiCtx *models.AIContext) error
	Clear(ctx context.Context, userID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	if ttl <= 0 {
		ttl = utils.AIContextTTL
	}
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, userID string) (*models.AIContext, error) {
	data, err := s.client.Get(ctx, utils.AIContextPrefix+userID).Bytes()
	if err == redis.Nil {
		return &models.AIContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var aiCtx models.AIContext
	if err := json.Unmarshal(data, &aiCtx); err != nil {
		return nil, err
	}
	return &aiCtx, nil
}

func (s *RedisContextStore) Set(ctx context.Context, userID string, aiCtx *models.AIContext) error {
	b, err := json.Marshal(aiCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, utils.AIContextPrefix+userID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, utils.AIContextPrefix+userID).Err()
}
