package ratelimiter

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/postcard/handler"
	"github.com/dmitrymomot/postcard/pkg/clientip"
	"github.com/dmitrymomot/postcard/pkg/logger"
)

// KeyFunc extracts the bucket key from a request. An empty key skips the
// throttle.
type KeyFunc func(r *http.Request) string

// ByClientIP keys buckets by client address.
func ByClientIP(r *http.Request) string {
	return clientip.FromRequest(r)
}

// Middleware refuses requests from clients that have drained their bucket
// with 429 and a Retry-After header. Store failures let the request through:
// the daily email quota, not this throttle, is the hard limit.
func Middleware(b *Bucket, key KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := b.Allow(r.Context(), k)
			if err != nil {
				log.WarnContext(r.Context(), "render throttle unavailable",
					logger.Component("ratelimiter"),
					logger.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				retryAfter := int((result.RetryAfter(b.now()) + time.Second - 1) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				resp := handler.JSON(handler.ErrorResponse{
					Error:   "Too many requests, please slow down",
					Details: map[string]int{"retryAfter": retryAfter},
				}, handler.WithJSONStatus(http.StatusTooManyRequests))
				_ = resp.Render(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
