package stream

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"lualog/internal/classify"
)

const keepaliveFrame = ": keepalive\n\n"

// SSEHandler serves GET /tail as a text/event-stream.
type SSEHandler struct {
	endpoint
}

// NewSSEHandler builds the server-sent events endpoint.
func NewSSEHandler(settings Settings, registry *Registry, logger *slog.Logger) *SSEHandler {
	return &SSEHandler{endpoint: newEndpoint(settings, registry, logger, "sse")}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	follower, opts, ok := h.open(w, r)
	if !ok {
		return
	}
	defer follower.Close()

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sink := &sseSink{w: w, rc: http.NewResponseController(w)}
	// Headers go out before the first event so clients see the stream open.
	_ = sink.flush()

	h.run(r.Context(), r, TransportSSE, follower, opts, sink)
}

type sseSink struct {
	w  io.Writer
	rc *http.ResponseController
}

func (s *sseSink) Send(event classify.Event) error {
	if _, err := io.WriteString(s.w, event.Frame()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return s.flush()
}

func (s *sseSink) Keepalive() error {
	if _, err := io.WriteString(s.w, keepaliveFrame); err != nil {
		return fmt.Errorf("write keepalive: %w", err)
	}
	return s.flush()
}

func (s *sseSink) flush() error {
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
