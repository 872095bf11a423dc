package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/postcard/pkg/logger"
)

// Check is a named readiness dependency.
type Check struct {
	Name  string
	Check func(context.Context) error
}

// HealthStatus is the JSON body written by HealthCheckHandler.
type HealthStatus struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler returns a JSON handler usable for liveness and readiness
// probes.
//
//   - Liveness: with no checks it always answers 200 {"status":"OK"}.
//   - Readiness: every check runs with the request context. All passing gives
//     200 with each check reported "ok"; any failure gives 503 with status
//     "ERROR" and the failing check's error message.
func HealthCheckHandler(log *slog.Logger, message string, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		body := HealthStatus{Status: "OK", Message: message}
		code := http.StatusOK

		if len(checks) > 0 {
			body.Checks = make(map[string]string, len(checks))
		}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("healthcheck"),
					slog.String("check", c.Name),
					logger.Error(err),
				)
				body.Checks[c.Name] = err.Error()
				body.Status = "ERROR"
				code = http.StatusServiceUnavailable
				continue
			}
			body.Checks[c.Name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.ErrorContext(ctx, "failed to write health response", logger.Error(err))
		}
	}
}
