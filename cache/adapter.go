// Package cache provides a small KV cache used for rendered QR label
// images. Redis-backed when configured, in-process otherwise.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/homeqr/server/cache/local"
	cacheredis "github.com/homeqr/server/cache/redis"
)

// ErrNotFound is returned when a key does not exist in either backend.
var ErrNotFound = errors.New("cache: key not found")

// Cache is the KV surface the server needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Config holds configuration for both Redis and LocalCache.
type Config struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

// New returns a Cache backed by Redis if RedisAddr is set, otherwise an
// in-process LocalCache.
func New(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		c, err := cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &redisAdapter{c: c}, nil
	}
	c, err := local.NewCache(local.Config{GCInterval: cfg.LocalGCInterval})
	if err != nil {
		return nil, err
	}
	return &localAdapter{c: c}, nil
}

// ---- adapters normalizing the backend not-found sentinels ----

type localAdapter struct {
	c *local.LocalCache
}

func (a *localAdapter) Get(ctx context.Context, key string) (string, error) {
	v, err := a.c.Get(ctx, key)
	if errors.Is(err, local.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (a *localAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.c.Set(ctx, key, value, ttl)
}

func (a *localAdapter) Del(ctx context.Context, keys ...string) error {
	return a.c.Del(ctx, keys...)
}

func (a *localAdapter) Exists(ctx context.Context, key string) (bool, error) {
	return a.c.Exists(ctx, key)
}

type redisAdapter struct {
	c *cacheredis.RedisCache
}

func (a *redisAdapter) Get(ctx context.Context, key string) (string, error) {
	v, err := a.c.Get(ctx, key)
	if errors.Is(err, cacheredis.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (a *redisAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.c.Set(ctx, key, value, ttl)
}

func (a *redisAdapter) Del(ctx context.Context, keys ...string) error {
	return a.c.Del(ctx, keys...)
}

func (a *redisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	return a.c.Exists(ctx, key)
}
