package ratelimiter

import "time"

// Result is the state of a bucket after a take.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative when the take was refused
	ResetAt   time.Time // next refill
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long until the next refill, zero when allowed.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, r.ResetAt.Sub(now))
}

// Config is the token bucket guarding the render endpoints. The defaults
// allow a burst of 10 renders per client, then one every 6 seconds.
type Config struct {
	Enabled        bool          `env:"RENDER_THROTTLE_ENABLED" envDefault:"true"`
	Capacity       int           `env:"RENDER_THROTTLE_BURST" envDefault:"10"`
	RefillRate     int           `env:"RENDER_THROTTLE_REFILL" envDefault:"1"`
	RefillInterval time.Duration `env:"RENDER_THROTTLE_INTERVAL" envDefault:"6s"`
}
