package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"smartparking/internal/models"
)

// SlotCache mirrors the latest committed slot state in redis so freshly
// connected dashboards can fetch a snapshot without hitting Postgres.
// The authoritative state always lives in the ledger; the cache is
// refreshed on every publish and may lag only by a failed write.
type SlotCache struct {
	client *redis.Client
}

// NewSlotCache returns a redis-backed cache.
func NewSlotCache(client *redis.Client) *SlotCache {
	return &SlotCache{client: client}
}

func (c *SlotCache) key(slotID int64) string {
	return fmt.Sprintf("slots:state:%d", slotID)
}

// Save stores the committed slot state.
func (c *SlotCache) Save(ctx context.Context, slot models.Slot) error {
	data, err := json.Marshal(slot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(slot.ID), data, 0).Err()
}

// Get returns the cached state for one slot, or redis.Nil when absent.
func (c *SlotCache) Get(ctx context.Context, slotID int64) (*models.Slot, error) {
	result, err := c.client.Get(ctx, c.key(slotID)).Result()
	if err != nil {
		return nil, err
	}
	var slot models.Slot
	if err := json.Unmarshal([]byte(result), &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Delete removes one slot from the cache, for example after an admin
// deletes the slot itself.
func (c *SlotCache) Delete(ctx context.Context, slotID int64) error {
	return c.client.Del(ctx, c.key(slotID)).Err()
}
