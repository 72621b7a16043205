// Package logger provides structured logging for the application,
// wrapping a zap.Logger with level initialization.
package logger

import (
	"go.uber.org/zap"
)

// Logger wraps a zap.Logger instance.
type Logger struct {
	// Log is the underlying zap logger.
	Log *zap.Logger
}

// New creates a Logger with a no-op zap logger. Call Init to replace it
// with a configured production logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the underlying zap logger at the given level
// ("debug", "info", "warn", "error"). Returns an error if the level
// cannot be parsed or the logger cannot be built.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = log
	return nil
}
