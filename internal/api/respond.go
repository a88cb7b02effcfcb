package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"lualog/internal/logging"
)

// WriteJSON encodes payload with the given status. A nil payload writes only
// the status line.
func WriteJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: message}, logger)
}
