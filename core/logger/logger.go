package logger

import (
	"doc-composer/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Logs always go to stderr so the composition
// report and --json output on stdout stay machine readable.
func New(cfg *Config) (*zap.Logger, error) {
	return zapConfig(cfg).Build()
}

func zapConfig(cfg *Config) zap.Config {
	var zc zap.Config
	if cfg.Level == "debug" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		// Unknown levels keep the production default of info.
		if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
			zc.Level = zap.NewAtomicLevelAt(level)
		}
	}

	zc.Encoding = "json"
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}

	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.LevelKey = "level"
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.MessageKey = "message"
	return zc
}

// WithRayID tags l with the request's ray id, if the rayid middleware set one.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id := rayid.Get(c); id != "" {
		return l.With(zap.String("ray_id", id))
	}
	return l
}
