package postcard

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("invalid postcard")
	ErrInvalidColor   = errors.New("invalid hex color")
	ErrInvalidDataURL = errors.New("invalid image data url")
	ErrImageTooLarge  = errors.New("image dimensions exceed the pixel budget")

	// Renderer failure kinds; match a *RenderError with errors.Is.
	ErrMissingAsset       = errors.New("required image is missing or unreadable")
	ErrRenderTimeout      = errors.New("postcard content did not settle in time")
	ErrBrowserUnavailable = errors.New("rendering browser is unavailable")
	ErrEncode             = errors.New("failed to encode postcard image")
)

// ErrorKind classifies renderer failures.
type ErrorKind string

const (
	KindMissingAsset       ErrorKind = "missing_asset"
	KindTimeout            ErrorKind = "timeout"
	KindBrowserUnavailable ErrorKind = "browser_unavailable"
	KindEncode             ErrorKind = "encode"
)

// RenderError is returned by every Renderer implementation.
type RenderError struct {
	Kind  ErrorKind
	Asset string // set for KindMissingAsset
	Err   error
}

func NewRenderError(kind ErrorKind, err error) *RenderError {
	return &RenderError{Kind: kind, Err: err}
}

func missingAsset(name string, err error) *RenderError {
	return &RenderError{Kind: KindMissingAsset, Asset: name, Err: err}
}

func (e *RenderError) Error() string {
	msg := e.sentinel().Error()
	if e.Asset != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Asset)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *RenderError) sentinel() error {
	switch e.Kind {
	case KindMissingAsset:
		return ErrMissingAsset
	case KindTimeout:
		return ErrRenderTimeout
	case KindBrowserUnavailable:
		return ErrBrowserUnavailable
	default:
		return ErrEncode
	}
}

// AsRenderError extracts the *RenderError from err.
func AsRenderError(err error) (*RenderError, bool) {
	var re *RenderError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
