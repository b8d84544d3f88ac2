// Package kv is the short-lived key/value store used for conversation scratch state
// (pending format edits) and webhook redelivery detection.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/worldorder/worldorder/pkg/cache"
)

var ErrMiss = errors.New("kv: key not found")

type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it was stored
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type RedisKV struct {
	c redis.UniversalClient
}

func NewRedisKV(c redis.UniversalClient) *RedisKV { return &RedisKV{c: c} }

// NewRedisClient builds a client and pings it so misconfiguration fails at startup
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return r.c.SetNX(ctx, key, value, ttl).Result()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, key).Err()
}

// MemoryKV keeps keys in process; used when no Redis address is configured and in tests
type MemoryKV struct {
	store *cache.TTLCache[string]
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{store: cache.New[string](time.Minute)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

func (m *MemoryKV) SetNX(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return m.store.SetIfAbsent(key, value, ttl), nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

// Close stops the background sweeper
func (m *MemoryKV) Close() {
	m.store.Stop()
}
