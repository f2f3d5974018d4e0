package logger

import (
	"context"

	"github.com/storelink/woosync/pkg/interfaces"
)

// NopLogger discards everything. Used in tests and as a safe fallback.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all entries.
func NewNopLogger() interfaces.LoggerPort {
	return NopLogger{}
}

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

func (NopLogger) DebugWithContext(ctx context.Context, msg string, args ...interface{}) {}
func (NopLogger) InfoWithContext(ctx context.Context, msg string, args ...interface{})  {}
func (NopLogger) WarnWithContext(ctx context.Context, msg string, args ...interface{})  {}
func (NopLogger) ErrorWithContext(ctx context.Context, msg string, args ...interface{}) {}

func (n NopLogger) WithField(key string, value interface{}) interfaces.LoggerPort { return n }
func (n NopLogger) WithFields(fields ...interfaces.LogField) interfaces.LoggerPort {
	return n
}

func (NopLogger) Sync() error { return nil }
