// Package redis connects to Redis through go-redis/v9 and offers a small
// namespaced byte store.
//
// Connect retries the initial ping according to Config. Storage prefixes
// every key, supports TTLs and can drop whole key families with DeletePrefix,
// which the export cache uses to invalidate every rendering of one code.
// Healthcheck adapts a client to a readiness probe.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := redis.NewStorage(client, "permaqr:export:")
//	_ = store.Set(ctx, key, png, time.Hour)
//
// # Error Handling
//
// Get reports a missing key as found == false with a nil error. Connection
// failures are joined with ErrRedisNotReady or ErrFailedToParseRedisConnString.
package redis
