package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/handler"
	"github.com/dmitrymomot/postcard/pkg/binder"
	"github.com/dmitrymomot/postcard/pkg/validator"
)

type checkRequest struct {
	Email string `json:"email"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds and renders JSON", func(t *testing.T) {
		t.Parallel()

		h := handler.HandlerFunc[handler.Context, checkRequest](func(ctx handler.Context, req checkRequest) handler.Response {
			assert.NotNil(t, ctx.Request())
			return handler.JSON(map[string]any{"email": req.Email}, handler.WithJSONStatus(http.StatusCreated))
		})

		wrapped := handler.Wrap(h, handler.WithBinder[handler.Context, checkRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":" a@b.co "}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "a@b.co", decode(t, rec)["email"])
	})

	t.Run("binder error goes to error handler", func(t *testing.T) {
		t.Parallel()

		called := false
		h := handler.HandlerFunc[handler.Context, checkRequest](func(handler.Context, checkRequest) handler.Response {
			called = true
			return handler.JSON(nil)
		})

		wrapped := handler.Wrap(h,
			handler.WithBinder[handler.Context, checkRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, checkRequest](handler.NewErrorHandler(nil)),
		)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", decode(t, rec)["error"])
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.HandlerFunc[handler.Context, checkRequest](func(handler.Context, checkRequest) handler.Response {
			return nil
		})
		wrapped := handler.Wrap(h, handler.WithErrorHandler[handler.Context, checkRequest](func(ctx handler.Context, err error) {
			got = err
		}))

		wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) handler.Decorator[handler.Context, checkRequest] {
			return func(next handler.HandlerFunc[handler.Context, checkRequest]) handler.HandlerFunc[handler.Context, checkRequest] {
				return func(ctx handler.Context, req checkRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}

		h := handler.HandlerFunc[handler.Context, checkRequest](func(handler.Context, checkRequest) handler.Response {
			order = append(order, "handler")
			return handler.JSON("ok")
		})
		wrapped := handler.Wrap(h, handler.WithDecorators(mark("first"), mark("second")))

		wrapped(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	resp := handler.JSONError(http.StatusBadRequest, "Email is required", nil)
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email is required"}`, rec.Body.String())
}

func TestJSON_Header(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	resp := handler.JSON(map[string]int{"remaining": 0},
		handler.WithJSONStatus(http.StatusTooManyRequests),
		handler.WithJSONHeader("Retry-After", "3600"),
	)
	require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"too large", binder.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"media type", binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"bad json", binder.ErrFailedToParseJSON, http.StatusBadRequest},
		{"validation", validator.Apply(validator.RequiredString("email", "")), http.StatusBadRequest},
		{"http error", handler.ErrTooManyRequests, http.StatusTooManyRequests},
		{"wrapped http error", errors.Join(errors.New("x"), handler.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, handler.ClassifyError(tt.err).StatusCode)
		})
	}

	info := handler.ClassifyError(validator.Apply(validator.RequiredString("email", "")))
	assert.Equal(t, map[string][]string{"email": {"field is required"}}, info.Details)
}

func TestNewErrorHandler_LogsAndRenders(t *testing.T) {
	t.Parallel()

	h := handler.HandlerFunc[handler.Context, checkRequest](func(handler.Context, checkRequest) handler.Response {
		return errResponse{}
	})
	wrapped := handler.Wrap(h, handler.WithErrorHandler[handler.Context, checkRequest](handler.NewErrorHandler(nil)))

	rec := httptest.NewRecorder()
	wrapped(rec, httptest.NewRequest(http.MethodGet, "/", bytes.NewReader(nil)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An error occurred processing your request", decode(t, rec)["error"])
}

type errResponse struct{}

func (errResponse) Render(http.ResponseWriter, *http.Request) error {
	return errors.New("render failed")
}
