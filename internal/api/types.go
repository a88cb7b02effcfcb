package api

import "time"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Status summarizes a running server.
type Status struct {
	Running       bool         `json:"running"`
	PID           int          `json:"pid"`
	Version       string       `json:"version"`
	StartedAt     string       `json:"started_at"`
	LogFile       string       `json:"log_file"`
	LogExists     bool         `json:"log_exists"`
	LogSize       int64        `json:"log_size"`
	ActiveStreams int          `json:"active_streams"`
	Streams       []StreamInfo `json:"streams,omitempty"`
}

// StreamInfo describes one connected client.
type StreamInfo struct {
	ID         string `json:"id"`
	Transport  string `json:"transport"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	StartedAt  string `json:"started_at"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatTime renders t in the API timestamp format. Zero times render empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// ParseTime parses a timestamp produced by FormatTime.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(dateTimeFormat, value)
}
