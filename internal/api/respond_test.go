package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lualog/internal/api"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	api.WriteError(rec, http.StatusNotFound, "log file not found", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "log file not found" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestWriteJSONNilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	api.WriteJSON(rec, http.StatusNoContent, nil, nil)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestFormatTime(t *testing.T) {
	if got := api.FormatTime(time.Time{}); got != "" {
		t.Fatalf("zero time = %q", got)
	}
	ts := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("x", 3600))
	formatted := api.FormatTime(ts)
	if formatted != "2026-03-04T04:06:07.008Z" {
		t.Fatalf("formatted = %q", formatted)
	}
	parsed, err := api.ParseTime(formatted)
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Fatalf("parsed %s != %s", parsed, ts)
	}
}
