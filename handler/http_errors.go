package handler

import "net/http"

// HTTPError is an error with a status code and a user-facing message.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Message: "Unsupported media type"}
	ErrTooManyRequests       = HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrInternalServerError   = HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrServiceUnavailable    = HTTPError{Code: http.StatusServiceUnavailable, Message: "Service unavailable"}
)

// NewHTTPError creates an HTTPError with a custom message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}
