// Package logging builds the process-wide zap logger. Every task execution
// derives a child logger carrying trace_id and match_id so one analysis run
// can be followed across stages.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger at the given level. When jsonFormat is false the
// console encoder is used, which reads better during local runs.
func New(level string, jsonFormat bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if !jsonFormat {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// NewNop returns a no-op logger for tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// ForTask returns a task-scoped logger with correlation fields attached.
func ForTask(logger *zap.Logger, traceID, matchID string) *zap.Logger {
	return logger.With(zap.String("trace_id", traceID), zap.String("match_id", matchID))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
