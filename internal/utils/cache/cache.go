package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Recipe-Book/internal/utils"

	"github.com/redis/go-redis/v9"
)

type (
	Cache interface {
		// Get decodes the cached value into dest and reports whether the key was present.
		Get(ctx context.Context, key string, dest any) (bool, error)
		Set(ctx context.Context, key string, value any, ttl time.Duration) error
	}

	redisCache struct {
		client *redis.Client
	}

	noopCache struct{}
)

func NewRedisClient() (*redis.Client, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return nil, errors.New("REDIS_ADDR is not set")
	}

	db := 0
	if raw := utils.GetConfig("REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		db = n
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       db,
	}), nil
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

// NewNoopCache never stores anything. Used when Redis is not configured.
func NewNoopCache() Cache {
	return noopCache{}
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
