package stream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"lualog/internal/classify"
	"lualog/internal/logging"
)

const wsWriteTimeout = 10 * time.Second

// WebSocketHandler serves GET /tail/ws, sending each event as a JSON text
// message.
type WebSocketHandler struct {
	endpoint
	upgrader websocket.Upgrader
}

// NewWebSocketHandler builds the websocket endpoint.
func NewWebSocketHandler(settings Settings, registry *Registry, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		endpoint: newEndpoint(settings, registry, logger, "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	follower, opts, ok := h.open(w, r)
	if !ok {
		return
	}
	defer follower.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		logging.WithContext(r.Context(), h.logger).Debug("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Inbound messages are ignored; a read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.run(ctx, r, TransportWebSocket, follower, opts, &wsSink{conn: conn})

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
}

type wsSink struct {
	conn *websocket.Conn
}

func (s *wsSink) Send(event classify.Event) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(event)
}

func (s *wsSink) Keepalive() error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}
