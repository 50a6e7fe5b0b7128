package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (r *RedisCache) Find(ctx context.Context, key Key) ([]string, error) {
	data, err := r.client.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var ideas []string
	if err := json.Unmarshal([]byte(data), &ideas); err != nil {
		return nil, ErrNotFound
	}
	return ideas, nil
}

func (r *RedisCache) Save(ctx context.Context, key Key, ideas []string) error {
	data, err := json.Marshal(ideas)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key.String(), data, r.ttl).Err()
}
