package rategate

import "errors"

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrStoreUnavailable = errors.New("usage store unavailable")
	ErrStoreRequired    = errors.New("usage store is required")
	ErrInvalidPolicy    = errors.New("invalid rate policy")
)
