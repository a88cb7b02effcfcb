// Package api defines the JSON wire types served by lualog's HTTP endpoints
// and the small response helpers shared by every handler.
//
// # Key Types
//
// Status: server running state, followed log file details, and active stream
// connections, served at /api/status and rendered by `lualog status`.
//
// StreamInfo: one connected SSE or websocket client.
//
// ErrorResponse: the {"error": "..."} body returned for every failed request.
//
// # Design Notes
//
// Keys are snake_case. Timestamps use RFC3339 with milliseconds in UTC.
package api
