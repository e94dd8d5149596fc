package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/models"
	"marketplace/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SlotCacheKey identifies one provider's computed free slots for a range.
type SlotCacheKey struct {
	ProviderID string
	From       string
	To         string
	Duration   int
}

func (k SlotCacheKey) String() string {
	return fmt.Sprintf("%s%s:%s:%s:%d", utils.SlotCachePrefix, k.ProviderID, k.From, k.To, k.Duration)
}

// SlotCache stores computed slot listings. Entries are advisory: the
// reservation transaction re-checks every slot against the store.
type SlotCache interface {
	Get(ctx context.Context, key SlotCacheKey) ([]models.AvailableSlot, bool, error)
	Set(ctx context.Context, key SlotCacheKey, slots []models.AvailableSlot) error
	InvalidateProvider(ctx context.Context, providerID string) error
}

type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl}
}

func (c *RedisSlotCache) Get(ctx context.Context, key SlotCacheKey) ([]models.AvailableSlot, bool, error) {
	val, err := c.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var slots []models.AvailableSlot
	if err := json.Unmarshal(val, &slots); err != nil {
		return nil, false, fmt.Errorf("corrupt slot cache entry %s: %w", key, err)
	}
	return slots, true, nil
}

func (c *RedisSlotCache) Set(ctx context.Context, key SlotCacheKey, slots []models.AvailableSlot) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key.String(), data, c.ttl).Err()
}

// InvalidateProvider drops every cached range of the provider.
func (c *RedisSlotCache) InvalidateProvider(ctx context.Context, providerID string) error {
	pattern := utils.SlotCachePrefix + providerID + ":*"
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (se *DefaultSchedulingEngine) cachedSlots(
	ctx context.Context,
	providerID string,
	search models.SlotSearch,
	duration int,
	now time.Time,
) ([]models.AvailableSlot, bool) {
	if se.Cache == nil {
		return nil, false
	}
	key := SlotCacheKey{ProviderID: providerID, From: search.DateFrom, To: search.DateTo, Duration: duration}
	slots, ok, err := se.Cache.Get(ctx, key)
	if err != nil {
		se.logger().Warn("slot cache read failed", zap.String("key", key.String()), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	upcoming := make([]models.AvailableSlot, 0, len(slots))
	for _, s := range slots {
		if !s.Start.Before(now) {
			upcoming = append(upcoming, s)
		}
	}
	return upcoming, true
}

func (se *DefaultSchedulingEngine) storeSlots(
	ctx context.Context,
	providerID string,
	search models.SlotSearch,
	duration int,
	slots []models.AvailableSlot,
) {
	if se.Cache == nil {
		return
	}
	key := SlotCacheKey{ProviderID: providerID, From: search.DateFrom, To: search.DateTo, Duration: duration}
	if err := se.Cache.Set(ctx, key, slots); err != nil {
		se.logger().Warn("slot cache write failed", zap.String("key", key.String()), zap.Error(err))
	}
}

func (se *DefaultSchedulingEngine) invalidateSlots(ctx context.Context, providerID string) {
	if se.Cache == nil {
		return
	}
	if err := se.Cache.InvalidateProvider(ctx, providerID); err != nil {
		se.logger().Warn("slot cache invalidation failed", zap.String("providerID", providerID), zap.Error(err))
	}
}
