package common

import "context"

// Logger is the logging port carried through context into application
// services. Implementations live in infrastructure; a no-op fallback keeps
// call sites unconditional.
type Logger interface {
	Log(level, message string, fields map[string]interface{})
}

// Log levels understood by every Logger implementation.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARNING"
	LevelError = "ERROR"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger, or returns a no-op logger so
// callers never nil-check.
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, fields map[string]interface{}) {}
