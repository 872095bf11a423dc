package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/postcard/pkg/binder"
	"github.com/dmitrymomot/postcard/pkg/logger"
	"github.com/dmitrymomot/postcard/pkg/requestid"
	"github.com/dmitrymomot/postcard/pkg/validator"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Message    string
	Details    any
	LogLevel   slog.Level
}

// ClassifyError maps binding, validation and HTTP errors to a status and a
// message safe to show to clients. Anything else is a 500.
func ClassifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    "An error occurred processing your request",
	}

	var httpErr HTTPError
	switch {
	case errors.Is(err, binder.ErrBodyTooLarge):
		info.StatusCode = ErrRequestEntityTooLarge.Code
		info.Message = ErrRequestEntityTooLarge.Message
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		info.StatusCode = ErrUnsupportedMediaType.Code
		info.Message = ErrUnsupportedMediaType.Message
		info.Details = err.Error()
	case errors.Is(err, binder.ErrFailedToParseJSON):
		info.StatusCode = http.StatusBadRequest
		info.Message = "Invalid JSON body"
		info.Details = err.Error()
	case validator.IsValidationError(err):
		info.StatusCode = http.StatusBadRequest
		info.Message = "Validation failed"
		info.Details = validator.Extract(err).Map()
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler creates the JSON error handler used by every route. It logs
// the error with the request id and writes an ErrorResponse.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := ClassifyError(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		resp := JSONError(info.StatusCode, info.Message, info.Details)
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}
