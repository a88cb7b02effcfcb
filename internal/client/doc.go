// Package client talks to a running lualog server.
//
// StreamClient follows /tail, decoding each `data:` frame back into a
// classify.Event, and fetches /api/status. The CLI uses it for `lualog watch`
// and `lualog status`. Connection failures are reported with
// ErrStreamUnavailable so callers can print a friendly hint instead of a raw
// dial error.
package client
