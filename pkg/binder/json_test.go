package binder_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/binder"
)

type userData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type testRequest struct {
	Email    string    `json:"email"`
	Message  string    `json:"message"`
	IsMobile bool      `json:"isMobile"`
	UserData *userData `json:"userData"`
	Tags     []string  `json:"tags"`
}

func newRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/check-email-limit", bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("binds and trims strings", func(t *testing.T) {
		t.Parallel()

		req := newRequest(`{"email":"  sam@example.com ","message":"hi","isMobile":true,"userData":{"name":" Sam "},"tags":[" a "]}`, "application/json")

		var got testRequest
		require.NoError(t, binder.JSON()(req, &got))

		assert.Equal(t, "sam@example.com", got.Email)
		assert.True(t, got.IsMobile)
		require.NotNil(t, got.UserData)
		assert.Equal(t, "Sam", got.UserData.Name)
		assert.Equal(t, []string{"a"}, got.Tags)
	})

	t.Run("content type with charset", func(t *testing.T) {
		t.Parallel()

		var got testRequest
		require.NoError(t, binder.JSON()(newRequest(`{"email":"a@b.co"}`, "application/json; charset=utf-8"), &got))
		assert.Equal(t, "a@b.co", got.Email)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		var got testRequest
		err := binder.JSON()(newRequest(`{}`, ""), &got)
		assert.ErrorIs(t, err, binder.ErrMissingContentType)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		var got testRequest
		err := binder.JSON()(newRequest(`{}`, "text/plain"), &got)
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("unknown fields are rejected by default", func(t *testing.T) {
		t.Parallel()

		var got testRequest
		err := binder.JSON()(newRequest(`{"email":"a@b.co","extra":1}`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)

		require.NoError(t, binder.JSON(binder.AllowUnknownFields())(newRequest(`{"email":"a@b.co","extra":1}`, "application/json"), &got))
		assert.Equal(t, "a@b.co", got.Email)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		var got testRequest
		err := binder.JSON()(newRequest(``, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.Contains(t, err.Error(), "empty body")
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()

		var got testRequest
		err := binder.JSON()(newRequest(`{"email":"a@b.co"}{"email":"c@d.co"}`, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		body := `{"message":"` + strings.Repeat("x", 2048) + `"}`

		var got testRequest
		err := binder.JSON(binder.WithMaxSize(1024))(newRequest(body, "application/json"), &got)
		assert.ErrorIs(t, err, binder.ErrBodyTooLarge)

		require.NoError(t, binder.JSON(binder.WithMaxSize(4096))(newRequest(body, "application/json"), &got))
		assert.Len(t, got.Message, 2048)
	})

	t.Run("canceled request", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var got testRequest
		err := binder.JSON()(newRequest(`{}`, "application/json").WithContext(ctx), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})
}
