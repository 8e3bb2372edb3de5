// Package logger wraps zap configuration behind a small constructor so
// client and server share the same structured-log setup.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger holds the configured zap logger.
type Logger struct {
	// Log is the underlying zap logger. Nop until Init is called.
	Log *zap.Logger
}

// New returns a Logger with a no-op backend so callers can log safely
// before Init runs.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the backend with a production zap logger at the given
// level ("debug", "info", "warn", "error").
func (l *Logger) Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = log
	return nil
}
