package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	httpserver "github.com/dmitrymomot/postcard/pkg/httpserver"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(nil, "Postcard backend is running")(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","message":"Postcard backend is running"}`, rec.Body.String())
	})

	t.Run("readiness ok", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(nil, "", httpserver.Check{
			Name:  "usage_store",
			Check: func(context.Context) error { return nil },
		})

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/api/db-test", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","checks":{"usage_store":"ok"}}`, rec.Body.String())
	})

	t.Run("readiness failure", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(nil, "",
			httpserver.Check{Name: "browser", Check: func(context.Context) error { return nil }},
			httpserver.Check{Name: "usage_store", Check: func(context.Context) error { return errors.New("connection refused") }},
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/api/db-test", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"ERROR","checks":{"browser":"ok","usage_store":"connection refused"}}`, rec.Body.String())
	})
}
