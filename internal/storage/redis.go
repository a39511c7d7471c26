package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"sufra-pos/internal/domain"
)

const (
	orderTTL       = 15 * time.Minute
	idempotencyTTL = time.Hour
)

// RedisCache stores orders by id plus idempotency-key replays, both as JSON.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func orderKey(orderID int) string {
	return "order:" + strconv.Itoa(orderID)
}

func idempotencyKey(key string) string {
	return "order:idem:" + key
}

func (c *RedisCache) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	return c.get(ctx, orderKey(orderID))
}

func (c *RedisCache) SetOrder(ctx context.Context, order *domain.Order) error {
	return c.set(ctx, orderKey(order.ID), order, orderTTL)
}

func (c *RedisCache) DeleteOrder(ctx context.Context, orderID int) error {
	return c.Client.Del(ctx, orderKey(orderID)).Err()
}

func (c *RedisCache) GetIdempotent(ctx context.Context, key string) (*domain.Order, error) {
	return c.get(ctx, idempotencyKey(key))
}

func (c *RedisCache) SetIdempotent(ctx context.Context, key string, order *domain.Order) error {
	return c.set(ctx, idempotencyKey(key), order, idempotencyTTL)
}

func (c *RedisCache) get(ctx context.Context, key string) (*domain.Order, error) {
	payload, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *RedisCache) set(ctx context.Context, key string, order *domain.Order, ttl time.Duration) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, payload, ttl).Err()
}

// RedisCounter backs the daily order-number sequence.
type RedisCounter struct {
	Client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{Client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

func (c *RedisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.Client.Expire(ctx, key, ttl).Err()
}
