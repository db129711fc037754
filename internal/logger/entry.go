package logger

import (
	"context"
)

// Entry carries metric fields (duration_ms, count, size...) for one log call.
type Entry struct {
	fields Fields
}

// With creates a new Entry with the given metric fields.
// Example: logger.With(logger.Fields{"duration_ms": 1234}).Debug(ctx, "Blob uploaded")
func With(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// Debug logs at Debug level with metric fields.
func (e *Entry) Debug(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).WithFields(e.fields).Debugf(format, args...)
}
