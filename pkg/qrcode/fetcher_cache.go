package qrcode

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultLogoCacheSize = 128
	defaultLogoCacheTTL  = 10 * time.Minute
)

// CachingFetcher memoizes decoded logos by URL for a bounded time.
// Concurrent misses for the same URL share one download. Failures are not
// cached.
type CachingFetcher struct {
	next  LogoFetcher
	cache *expirable.LRU[string, image.Image]
	group singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the context of a shared download and the number of callers
// still waiting on it.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewCachingFetcher wraps next. Non-positive size or ttl fall back to 128
// entries and 10 minutes.
func NewCachingFetcher(next LogoFetcher, size int, ttl time.Duration) *CachingFetcher {
	if next == nil {
		next = NewHTTPFetcher()
	}
	if size <= 0 {
		size = defaultLogoCacheSize
	}
	if ttl <= 0 {
		ttl = defaultLogoCacheTTL
	}
	return &CachingFetcher{
		next:    next,
		cache:   expirable.NewLRU[string, image.Image](size, nil, ttl),
		flights: make(map[string]*flight),
	}
}

// Fetch implements LogoFetcher. A caller whose ctx ends stops waiting. The
// shared download is canceled once no caller is waiting for it.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if img, ok := f.cache.Get(url); ok {
		return img, nil
	}

	fl := f.join(ctx, url)
	defer f.leave(url, fl)

	ch := f.group.DoChan(url, func() (any, error) {
		img, err := f.next.Fetch(fl.ctx, url)
		if err != nil {
			return nil, err
		}
		f.cache.Add(url, img)
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

func (f *CachingFetcher) join(ctx context.Context, url string) *flight {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.flights[url]
	if !ok {
		// Request-scoped values survive for logging; cancellation is owned
		// by the waiters.
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		fl = &flight{ctx: fctx, cancel: cancel}
		f.flights[url] = fl
	}
	fl.waiters++
	return fl
}

func (f *CachingFetcher) leave(url string, fl *flight) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if f.flights[url] == fl {
		delete(f.flights, url)
	}
	// A download abandoned by everyone must not be joined by the next caller.
	f.group.Forget(url)
}

// Forget drops url from the cache, e.g. after the logo behind it changed.
func (f *CachingFetcher) Forget(url string) {
	f.cache.Remove(url)
}

// Len reports the number of cached logos.
func (f *CachingFetcher) Len() int {
	return f.cache.Len()
}
