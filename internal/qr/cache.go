package qr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/permaqr/pkg/cache"
	"github.com/dmitrymomot/permaqr/pkg/redis"
)

// ExportCache stores encoded exports. Keys embed the record version, so an
// edited record never serves a stale image; InvalidateRecord only frees space.
type ExportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	InvalidateRecord(ctx context.Context, id uuid.UUID) error
}

// exportKey is "<id>:<updated-at-µs>:<format>:<size>".
func exportKey(rec *Record, format string, size int) string {
	return fmt.Sprintf("%s:%d:%s:%d", rec.ID, rec.UpdatedAt.UnixMicro(), format, size)
}

func recordPrefix(id uuid.UUID) string {
	return id.String() + ":"
}

// RedisCache keeps exports in Redis with a fixed TTL.
type RedisCache struct {
	store *redis.Storage
	ttl   time.Duration
}

func NewRedisCache(store *redis.Storage, ttl time.Duration) *RedisCache {
	return &RedisCache{store: store, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.store.Get(ctx, key)
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	return c.store.Set(ctx, key, data, c.ttl)
}

func (c *RedisCache) InvalidateRecord(ctx context.Context, id uuid.UUID) error {
	_, err := c.store.DeletePrefix(ctx, recordPrefix(id))
	return err
}

const defaultMemoryCacheEntries = 1024

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is a process-local ExportCache bounded by total bytes.
type MemoryCache struct {
	lru *cache.LRU[string, memoryEntry]
	ttl time.Duration
	now func() time.Time
}

// NewMemoryCache holds at most maxEntries exports and maxBytes of image data.
// A zero ttl keeps entries until evicted.
func NewMemoryCache(maxEntries int, maxBytes int64, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMemoryCacheEntries
	}
	return &MemoryCache{
		lru: cache.New[string, memoryEntry](maxEntries, cache.WithMaxCost[string, memoryEntry](maxBytes, func(e memoryEntry) int64 {
			return int64(len(e.data))
		})),
		ttl: ttl,
		now: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set silently skips images larger than the byte budget.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte) error {
	e := memoryEntry{data: data}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.lru.Put(key, e)
	return nil
}

func (c *MemoryCache) InvalidateRecord(_ context.Context, id uuid.UUID) error {
	prefix := recordPrefix(id)
	c.lru.RemoveFunc(func(k string) bool { return strings.HasPrefix(k, prefix) })
	return nil
}

// Len reports the number of cached exports.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// NopCache disables export caching.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte) error         { return nil }
func (NopCache) InvalidateRecord(context.Context, uuid.UUID) error { return nil }
