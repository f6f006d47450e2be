package qr

import (
	"context"
	"image"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/permaqr/pkg/qrcode"
)

// boundedFetcher caps the number of logo downloads running at once and how
// long each may take. Waiting for a slot honours ctx and does not count
// against the timeout.
type boundedFetcher struct {
	next    qrcode.LogoFetcher
	sem     *semaphore.Weighted
	timeout time.Duration
}

func newBoundedFetcher(next qrcode.LogoFetcher, limit int64, timeout time.Duration) *boundedFetcher {
	if limit <= 0 {
		limit = 1
	}
	return &boundedFetcher{next: next, sem: semaphore.NewWeighted(limit), timeout: timeout}
}

func (f *boundedFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	logoFetchWaiting.Inc()
	err := f.sem.Acquire(ctx, 1)
	logoFetchWaiting.Dec()
	if err != nil {
		return nil, err
	}
	defer f.sem.Release(1)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	img, err := f.next.Fetch(ctx, url)
	if err != nil {
		logoFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	logoFetchesTotal.WithLabelValues("ok").Inc()
	return img, nil
}
