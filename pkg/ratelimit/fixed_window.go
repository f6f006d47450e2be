package ratelimit

import (
	"context"
	"time"
)

// FixedWindow allows Limit calls per key in each window. Windows start at a
// key's first call, not on wall-clock boundaries.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewFixedWindow(store Store, limit int, window time.Duration) (*FixedWindow, error) {
	switch {
	case store == nil:
		return nil, ErrStoreRequired
	case limit <= 0:
		return nil, ErrInvalidLimit
	case window <= 0:
		return nil, ErrInvalidInterval
	}
	return &FixedWindow{store: store, limit: limit, window: window, now: time.Now}, nil
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	count, ttl, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = l.window
	}
	return &Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(0, l.limit-int(count)),
		ResetAt:   l.now().Add(ttl),
	}, nil
}

func (l *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return l.store.Delete(ctx, key)
}
