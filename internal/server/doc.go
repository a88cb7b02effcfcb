// Package server runs the lualog HTTP process.
//
// It wires configuration, the stream endpoints, status reporting, and static
// file serving into a single lifecycle with a flock-based lock in the state
// directory to prevent multiple instances. Routes:
//
//	GET /tail        server-sent events for the followed log file
//	GET /tail/ws     the same events over a websocket (server.websocket)
//	GET /api/status  JSON status including active stream count
//	GET /healthz     liveness probe
//	GET /*           files under static_dir, or the built-in viewer page
//
// Keep per-connection behaviour in package stream; this package only owns
// startup, routing, and shutdown.
package server
