package logger

import (
	"net/http/httptest"
	"testing"

	"doc-composer/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		debug   bool
		warnOff bool
	}{
		{"Debug Console", Config{Level: "debug", Format: "console"}, true, false},
		{"Info JSON", Config{Level: "info", Format: "json"}, false, false},
		{"Error Only", Config{Level: "error", Format: "json"}, false, true},
		{"Unknown Level", Config{Level: "loud"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, !tt.warnOff, l.Core().Enabled(zapcore.WarnLevel))
		})
	}
}

func TestZapConfig(t *testing.T) {
	t.Run("Writes To Stderr", func(t *testing.T) {
		zc := zapConfig(&Config{Level: "info", Format: "json"})
		assert.Equal(t, []string{"stderr"}, zc.OutputPaths)
		assert.Equal(t, "json", zc.Encoding)
		assert.Equal(t, "message", zc.EncoderConfig.MessageKey)
	})

	t.Run("Console Drops Stacktraces", func(t *testing.T) {
		zc := zapConfig(&Config{Level: "warn", Format: "console"})
		assert.Equal(t, "console", zc.Encoding)
		assert.True(t, zc.DisableStacktrace)
		assert.Equal(t, zapcore.WarnLevel, zc.Level.Level())
	})
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("without")
		c.Locals(rayid.LocalsKey, "abc-123")
		WithRayID(base, c).Info("with")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "abc-123", entries[1].ContextMap()["ray_id"])
}
