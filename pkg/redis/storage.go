package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatch = 500

// Storage is a namespaced byte store. Every key is prefixed so several
// stores can share one database.
type Storage struct {
	db        redis.UniversalClient
	prefix    string
	scanBatch int64
}

// NewStorage wraps client. prefix is prepended verbatim, so include a
// separator ("exports:").
func NewStorage(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: client, prefix: prefix, scanBatch: defaultScanBatch}
}

// Get returns the stored value. A missing key yields (nil, false, nil).
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores val under key. A zero ttl means no expiration.
func (s *Storage) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.db.Set(ctx, s.prefix+key, val, ttl).Err()
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.db.Del(ctx, full...).Err()
}

// DeletePrefix removes every key starting with prefix (after the store's own
// prefix). It walks the keyspace with SCAN, so it never blocks the server.
func (s *Storage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	match := s.prefix + escapeGlob(prefix) + "*"
	for {
		keys, next, err := s.db.Scan(ctx, cursor, match, s.scanBatch).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := s.db.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := range len(s) {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
