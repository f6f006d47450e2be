package ratelimit_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrymomot/permaqr/pkg/ratelimit"
	"github.com/dmitrymomot/permaqr/pkg/redis"
)

func TestNewFixedWindow(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	_, err := ratelimit.NewFixedWindow(nil, 1, time.Second)
	assert.ErrorIs(t, err, ratelimit.ErrStoreRequired)
	_, err = ratelimit.NewFixedWindow(store, 0, time.Second)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)
	_, err = ratelimit.NewFixedWindow(store, 1, 0)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidInterval)
}

func TestFixedWindow_Allow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	l, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 3, 100*time.Millisecond)
	require.NoError(t, err)

	for i := range 3 {
		res, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Positive(t, res.RetryAfter())

	// other keys have their own window
	res, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	time.Sleep(120 * time.Millisecond)
	res, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	_, err = l.Allow(ctx, "")
	assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)

	require.NoError(t, l.Reset(ctx, "a"))
	res, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := store.Increment(context.Background(), "k", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, ttl, err := store.Increment(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), n)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Equal(t, 1, store.Len())
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("store down")
}

func (failingStore) Delete(context.Context, string) error { return nil }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	byHeader := func(r *http.Request) string { return r.Header.Get("X-Client") }

	t.Run("requires a key func", func(t *testing.T) {
		t.Parallel()
		l, _ := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 1, time.Minute)
		assert.Panics(t, func() { ratelimit.Middleware(l, nil) })
	})

	t.Run("sets headers and rejects over the limit", func(t *testing.T) {
		t.Parallel()
		l, _ := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 2, time.Minute)
		var limited int
		h := ratelimit.Middleware(l, byHeader, ratelimit.WithOnLimitReached(func(w http.ResponseWriter, r *http.Request, res *ratelimit.Result) {
			limited++
			w.WriteHeader(http.StatusTooManyRequests)
		}))(ok)

		codes := make([]int, 0, 3)
		var last *httptest.ResponseRecorder
		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("X-Client", "c1")
			last = httptest.NewRecorder()
			h.ServeHTTP(last, req)
			codes = append(codes, last.Code)
		}
		assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
		assert.Equal(t, 1, limited)
		assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, last.Header().Get("X-RateLimit-Reset"))
		assert.NotEmpty(t, last.Header().Get("Retry-After"))
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()
		l, _ := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 1, time.Minute)
		h := ratelimit.Middleware(l, byHeader)(ok)
		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})

	t.Run("fails open", func(t *testing.T) {
		t.Parallel()
		l, _ := ratelimit.NewFixedWindow(failingStore{}, 1, time.Minute)
		var seen error
		h := ratelimit.Middleware(l, byHeader, ratelimit.WithOnError(func(r *http.Request, err error) { seen = err }))(ok)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Client", "c1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.EqualError(t, seen, "store down")
	})
}

func TestRedisStore(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("set TEST_INTEGRATION=1 to run redis integration tests")
	}
	ctx := context.Background()

	container, err := testcontainers.Run(ctx, "docker.io/redis:7-alpine",
		testcontainers.WithExposedPorts("6379/tcp"),
		testcontainers.WithWaitStrategy(wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })
	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  fmt.Sprintf("redis://%s:%s/0", host, port.Port()),
		RetryAttempts:  3,
		RetryInterval:  200 * time.Millisecond,
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimit.NewRedisStore(client, "rl:")
	l, err := ratelimit.NewFixedWindow(store, 2, time.Minute)
	require.NoError(t, err)

	for _, want := range []bool{true, true, false} {
		res, err := l.Allow(ctx, "192.0.2.1")
		require.NoError(t, err)
		assert.Equal(t, want, res.Allowed)
	}

	ttl, err := client.PTTL(ctx, "rl:192.0.2.1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, l.Reset(ctx, "192.0.2.1"))
	n, _, err := store.Increment(ctx, "192.0.2.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
