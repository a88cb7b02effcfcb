// Package stream turns a followed Lua log file into client events.
//
// Streamer drives one connection: it polls a tail.Follower, forwards a reset
// event whenever the file shrinks, classifies each complete line, and hands
// print and error events to a Sink. When no complete line is available it
// waits for the configured poll interval, returning promptly once the
// connection context is cancelled.
//
// SSEHandler writes each event as a `data: <kind>|<message>` frame.
// WebSocketHandler sends the same events as JSON text messages. Both open the
// log file before answering so a missing or unreadable file becomes an HTTP
// error instead of an empty stream, and both register the connection in a
// Registry for status reporting.
package stream
