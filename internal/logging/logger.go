// Package logging provides the structured logger used across the service.
// Callers depend on the Logger interface; logrus is the only implementation.
package logging

// Logger defines structured logging used by services, middleware and commands.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger with the error attached.
	WithError(err error) Logger
	// WithField returns a child logger with a single field attached.
	WithField(key string, value any) Logger
	// WithFields returns a child logger with multiple fields attached.
	WithFields(fields ...Field) Logger

	// Fatal logs at fatal level and exits the process.
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for building a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Standard field names.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldLocation  = "location"
	FieldProvider  = "provider"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
	FieldBytes     = "bytes"
	FieldPages     = "pages"
)
