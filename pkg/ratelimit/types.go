package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long the caller should wait; 0 when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Store keeps one counter per key.
type Store interface {
	// Increment adds one to key's counter, starting a fresh window of the
	// given length when the key is absent or expired. It returns the new
	// count and the time left in the window.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
	Delete(ctx context.Context, key string) error
}

// Config describes a fixed-window limit.
type Config struct {
	Limit  int           `env:"RATE_LIMIT" envDefault:"30"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Store  string        `env:"RATE_LIMIT_STORE" envDefault:"memory"` // memory | redis
}
