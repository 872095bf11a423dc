package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens refills the bucket, takes tokens and returns what is
	// left. A refused take consumes nothing and reports a negative remainder.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	Reset(ctx context.Context, key string) error
}
