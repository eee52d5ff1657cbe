// Package observability builds the structured logger and carries it through
// request contexts.
package observability

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogLevel = "info"

type contextKey string

const loggerContextKey contextKey = "github.com/lmj0209/tool-website/internal/observability/logger"

var noopLogger = zap.NewNop()

// NewLogger constructs a zap logger emitting structured JSON at the given
// level. An empty or unknown level falls back to info. Output goes to stdout
// unless outputs names other sinks.
func NewLogger(level string, outputs ...string) (*zap.Logger, error) {
	cfg := newConfig(level)
	if len(outputs) > 0 {
		cfg.OutputPaths = outputs
	}
	return cfg.Build()
}

// NewDevelopmentLogger is NewLogger for non-production environments: DPanic
// panics and warnings carry stack traces. The output stays JSON.
func NewDevelopmentLogger(level string, outputs ...string) (*zap.Logger, error) {
	cfg := newDevelopmentConfig(level)
	if len(outputs) > 0 {
		cfg.OutputPaths = outputs
	}
	return cfg.Build()
}

func newDevelopmentConfig(level string) zap.Config {
	cfg := newConfig(level)
	cfg.Development = true
	cfg.DisableStacktrace = false
	return cfg
}

func newConfig(level string) zap.Config {
	atom := zap.NewAtomicLevel()
	if err := atom.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil || strings.TrimSpace(level) == "" {
		_ = atom.UnmarshalText([]byte(defaultLogLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		NameKey:    "logger",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeDuration: zapcore.MillisDurationEncoder,
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		StacktraceKey:  "stacktrace",
	}

	return zap.Config{
		Level:             atom,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
}

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext retrieves the logger from context, defaulting to a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}
