package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/requestid"
)

// serve runs the middleware and returns the ID the handler saw and the
// response header.
func serve(t *testing.T, inbound string) (seen, echoed string) {
	t.Helper()

	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/send-postcard", nil)
	if inbound != "" {
		req.Header.Set(requestid.Header, inbound)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("mints a uuid", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "")
		assert.Equal(t, seen, echoed)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})

	t.Run("keeps well-formed ids", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"abc123", "ABC-123_xyz", "550e8400-e29b-41d4-a716-446655440000"} {
			seen, echoed := serve(t, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, echoed)
		}
	})

	t.Run("replaces malformed ids", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{
			"a b",
			"a/b",
			"<script>",
			"user@example.com",
			strings.Repeat("a", 129),
		} {
			seen, echoed := serve(t, id)
			assert.NotEqual(t, id, seen)
			assert.Equal(t, seen, echoed)
		}
	})

	t.Run("accepts the maximum length", func(t *testing.T) {
		t.Parallel()
		id := strings.Repeat("z", 128)
		seen, _ := serve(t, id)
		assert.Equal(t, id, seen)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "req-1", requestid.FromContext(requestid.WithContext(context.Background(), "req-1")))
	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Empty(t, requestid.FromContext(nil)) //nolint:staticcheck
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	attr, ok := extract(requestid.WithContext(context.Background(), "req-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
