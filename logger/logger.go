// Package logger exposes the minimal structured logging facade used by the
// persistence integrations of the library. Adapters for concrete logging
// backends live in their own packages (e.g. zaplogger).
package logger

// Field is a single structured attribute attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// With builds a Field from a key and value pair.
func With(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is the structured logging interface accepted by the components
// of this library. Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Debug logs at debug level through l, doing nothing when l is nil.
func Debug(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Debug(msg, fields...)
	}
}

// Info logs at info level through l, doing nothing when l is nil.
func Info(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Info(msg, fields...)
	}
}

// Error logs at error level through l, doing nothing when l is nil.
func Error(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Error(msg, fields...)
	}
}
