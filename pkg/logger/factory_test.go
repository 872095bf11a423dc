package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postcard/pkg/logger"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json at info by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))

		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("postcard rendered")
		entry := decodeRecord(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "postcard rendered", entry["msg"])
	})

	t.Run("last formatter wins", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithJSONFormatter(), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("component", "rategate")))
		log.Info("checked")
		assert.Equal(t, "rategate", decodeRecord(t, buf)["component"])
	})

	t.Run("context value", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("attempt_id", key{}))

		log.InfoContext(context.WithValue(context.Background(), key{}, "a-1"), "sent")
		assert.Equal(t, "a-1", decodeRecord(t, buf)["attempt_id"])
	})

	t.Run("nil extractors are skipped", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(nil))
		assert.NotPanics(t, func() { log.InfoContext(context.Background(), "ok") })
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env     string
		wantEnv string
		json    bool
		debug   bool
	}{
		{env: "production", wantEnv: logger.EnvProduction, json: true},
		{env: "prod", wantEnv: logger.EnvProduction, json: true},
		{env: "staging", wantEnv: logger.EnvStaging, json: true},
		{env: "", wantEnv: logger.EnvDevelopment, debug: true},
		{env: "local", wantEnv: logger.EnvDevelopment, debug: true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(tt.env, "postcard"))

			log.Debug("debug line")
			if !tt.debug {
				assert.Empty(t, buf.String())
			}
			buf.Reset()

			log.Info("info line")
			if tt.json {
				entry := decodeRecord(t, buf)
				assert.Equal(t, "postcard", entry["service"])
				assert.Equal(t, tt.wantEnv, entry["env"])
				return
			}
			assert.Contains(t, buf.String(), "service=postcard")
			assert.Contains(t, buf.String(), "env="+tt.wantEnv)
		})
	}

	t.Run("empty service leaves defaults", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithDevelopment(""))
		log.Info("x")
		assert.NotContains(t, decodeRecord(t, buf), "service")
	})
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decodeRecord(t, buf)["msg"])
}
