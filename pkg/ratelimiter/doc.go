// Package ratelimiter provides fixed-window per-key rate limiting.
//
// Counting is atomic so concurrent requests from one source never under-count.
// Two implementations share the RateLimiter interface: Memory keeps counters
// process-local in a lock-free map, Redis shares them across instances via
// atomic INCR.
//
//	limiter := ratelimiter.NewMemory(ratelimiter.Config{
//		Limit:  100,
//		Window: time.Minute,
//	})
//
//	result, err := limiter.Allow(ctx, clientIP)
//	if err != nil || !result.Allowed() {
//		// 429 with result.RetryAfter(time.Now()) as the hint
//	}
//
// Results carry the limit, remaining quota, and window reset time for
// X-RateLimit-* response headers.
package ratelimiter
