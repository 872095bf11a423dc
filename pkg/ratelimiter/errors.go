package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid render throttle configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrContextCancelled  = errors.New("context cancelled")
	ErrStoreUnavailable  = errors.New("throttle store unavailable")
)
