// Package ratelimit limits how often one client may call an endpoint.
//
// FixedWindow counts calls per key in windows that start at the key's first
// call. Counters live in a Store: MemoryStore for a single instance,
// RedisStore when several instances share the limit.
//
// # Usage
//
//	limiter, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), 30, time.Minute)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimit.Middleware(limiter, clientip.FromRequest)).Post("/api/qr", create)
//
// # Error Handling
//
// Middleware fails open: when the store errors the request proceeds and the
// error is passed to the WithOnError callback, if any.
package ratelimit
