package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStreamID identifies one stream connection.
	FieldStreamID = "stream_id"
	// FieldRequestID carries the HTTP request identifier.
	FieldRequestID = "request_id"
	// FieldLogFile is the followed log file path.
	FieldLogFile = "log_file"
	// FieldEventType names the kind of occurrence being logged.
	FieldEventType = "event_type"
)

type contextKey int

const (
	streamIDKey contextKey = iota
	requestIDKey
)

// WithStreamID stores a stream identifier on the context.
func WithStreamID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, streamIDKey, id)
}

// StreamIDFromContext returns the stream identifier, if any.
func StreamIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(streamIDKey).(string)
	return id, ok && id != ""
}

// WithRequestID stores an HTTP request identifier on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request identifier, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := StreamIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStreamID, id))
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
