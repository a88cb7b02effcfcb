// Package config loads, normalizes, and validates lualog configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML or YAML files, and honours environment overrides such as
// LUALOG_LOG_FILE and LUALOG_BIND. The Config type centralizes every knob the
// server and CLI need so the log file, static root, and listener are resolved
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
