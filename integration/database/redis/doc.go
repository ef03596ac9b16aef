// Package redis provides Redis client initialization for the shared rate
// limit counters.
//
// Connect validates the connection URL, dials with exponential backoff, and
// verifies connectivity with a ping before returning the client:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	limiter := ratelimiter.NewRedis(client, ratelimiter.DefaultConfig())
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
package redis
