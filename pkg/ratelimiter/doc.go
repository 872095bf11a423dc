// Package ratelimiter throttles the render endpoints per client.
//
// Rendering a postcard costs a browser tab or a few hundred milliseconds of
// CPU, so each client address gets a token bucket: Capacity renders in a
// burst, then RefillRate more every RefillInterval. This is separate from the
// daily email quota enforced by rategate, which counts delivered postcards
// per sender and fails closed; the throttle fails open.
//
//	store := ratelimiter.NewMemoryStore()
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP, log)).
//		Post("/api/generate-postcard", h)
//
// A refused request gets 429 with Retry-After and a JSON error body.
package ratelimiter
