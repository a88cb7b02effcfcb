package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID tags every record written during one server run.
const FieldSessionID = "session_id"

// sessionHandler stamps session_id onto every record, plus the stream and
// request identifiers carried by the record's context.
type sessionHandler struct {
	next      slog.Handler
	sessionID string
}

func newSessionIDHandler(next slog.Handler, sessionID string) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	return sessionHandler{next: next, sessionID: sessionID}
}

func (h sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(FieldSessionID, h.sessionID))
	if ctx != nil {
		record.AddAttrs(ContextFields(ctx)...)
	}
	return h.next.Handle(ctx, record)
}

func (h sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.next = h.next.WithAttrs(attrs)
	return h
}

func (h sessionHandler) WithGroup(name string) slog.Handler {
	h.next = h.next.WithGroup(name)
	return h
}
