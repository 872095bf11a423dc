package media

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid media configuration")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrInvalidObject      = errors.New("invalid media object")
	ErrInvalidPath        = errors.New("invalid path") // path traversal

	ErrUploadFailed = errors.New("media upload failed")

	// S3 classification.
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	ErrUnexpectedResponse = errors.New("unexpected response from media host")
)
