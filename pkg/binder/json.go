package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize = 1 << 20

type jsonConfig struct {
	maxSize      int64
	allowUnknown bool
}

type Option func(*jsonConfig)

// WithMaxSize overrides DefaultMaxJSONSize. Bodies carrying images as data
// URLs need tens of megabytes.
func WithMaxSize(n int64) Option {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// AllowUnknownFields disables strict decoding, for clients that send more
// than the server reads.
func AllowUnknownFields() Option {
	return func(c *jsonConfig) {
		c.allowUnknown = true
	}
}

// JSON creates a JSON binder function. String fields are trimmed of
// surrounding whitespace after decoding.
//
//	http.HandleFunc("/api/check-email-limit", handler.Wrap(h,
//		handler.WithBinder[handler.Context, CheckRequest](binder.JSON()),
//	))
func JSON(opts ...Option) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: missing content-type header, expected application/json", ErrMissingContentType)
		}

		mediaType := contentType
		if idx := strings.Index(contentType, ";"); idx != -1 {
			mediaType = strings.TrimSpace(contentType[:idx])
		}
		if !strings.EqualFold(mediaType, "application/json") {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, cfg.maxSize)
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		if !cfg.allowUnknown {
			decoder.DisallowUnknownFields()
		}

		if err := decoder.Decode(v); err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); err != io.EOF {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}

		trimStrings(reflect.ValueOf(v))
		return nil
	}
}

// trimStrings walks pointers, structs and slices and trims every settable string.
func trimStrings(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(strings.TrimSpace(rv.String()))
		}
	case reflect.Struct:
		for i := range rv.NumField() {
			if f := rv.Field(i); f.CanSet() {
				trimStrings(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			trimStrings(rv.Index(i))
		}
	case reflect.Ptr, reflect.Interface:
		if !rv.IsNil() {
			trimStrings(rv.Elem())
		}
	}
}
