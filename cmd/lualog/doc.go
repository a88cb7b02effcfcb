// Package main hosts the lualog CLI entrypoint and command graph.
//
// Running `lualog [logfile]` (or `lualog serve`) starts the HTTP server that
// streams print and error lines from a Lua log file to browsers over
// server-sent events. The remaining commands are clients and utilities:
// `watch` follows a running server from the terminal, `status` renders its
// status endpoint, `check` runs the preflight checks, and `config` scaffolds,
// validates, and prints configuration.
//
// Keep this package lean: behaviour lives in the internal packages and is
// surfaced here through flags and output formatting.
package main
