package interfaces

import "context"

// LogLevel defines the logging levels supported by the service.
type LogLevel int

const (
	// Levels ordered from least to most severe.
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// LogField represents an additional structured field attached to a log entry.
type LogField struct {
	Key   string
	Value interface{}
}

// LoggerPort defines the interface for the logging system.
// The implementation may use any logging library (Zap, Logrus, Zerolog, ...).
type LoggerPort interface {
	// Debug logs a message at Debug level.
	Debug(msg string, args ...interface{})

	// Info logs a message at Info level.
	Info(msg string, args ...interface{})

	// Warn logs a message at Warn level.
	Warn(msg string, args ...interface{})

	// Error logs a message at Error level.
	Error(msg string, args ...interface{})

	// Fatal logs a message at Fatal level and terminates the process.
	Fatal(msg string, args ...interface{})

	// Context-aware variants enrich entries with request-scoped fields
	// (request id, user id) extracted from the context.

	DebugWithContext(ctx context.Context, msg string, args ...interface{})
	InfoWithContext(ctx context.Context, msg string, args ...interface{})
	WarnWithContext(ctx context.Context, msg string, args ...interface{})
	ErrorWithContext(ctx context.Context, msg string, args ...interface{})

	// WithField returns a child logger with the field attached to every entry.
	WithField(key string, value interface{}) LoggerPort

	// WithFields returns a child logger with all fields attached.
	WithFields(fields ...LogField) LoggerPort

	// Sync flushes any buffered log entries.
	Sync() error
}
