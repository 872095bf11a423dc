package delivery

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid postcard request")
	ErrRateLimited       = errors.New("daily postcard limit reached")
	ErrUploadFailed      = errors.New("failed to upload postcard image")
	ErrEmailFailed       = errors.New("failed to send postcard email")
	ErrIllegalTransition = errors.New("illegal delivery stage transition")
	ErrNotConfigured     = errors.New("delivery orchestrator is missing a collaborator")
)

// Error is the terminal failure of an attempt: the stage that failed and why.
// Match the cause with errors.Is against this package's sentinels or the
// postcard renderer kinds.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("delivery failed at %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Reason is the underlying message without the stage prefix.
func (e *Error) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// AsError extracts the *Error from err.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
