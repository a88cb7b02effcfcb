package stream

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"lualog/internal/api"
	"lualog/internal/logging"
	"lualog/internal/tail"
)

// Settings configure the stream endpoints.
type Settings struct {
	LogFile string
	Options Options
}

// endpoint holds what the SSE and websocket handlers share.
type endpoint struct {
	settings Settings
	registry *Registry
	logger   *slog.Logger
}

func newEndpoint(settings Settings, registry *Registry, logger *slog.Logger, component string) endpoint {
	return endpoint{
		settings: settings,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, component),
	}
}

// options applies per-request overrides: ?from=end or ?from=start.
func (e endpoint) options(r *http.Request) (Options, error) {
	opts := e.settings.Options
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("from"))) {
	case "":
	case "end":
		opts.StartAtEnd = true
	case "start", "beginning":
		opts.StartAtEnd = false
	default:
		return opts, errors.New("from must be start or end")
	}
	return opts, nil
}

// open prepares a follower or writes an HTTP error and returns false.
func (e endpoint) open(w http.ResponseWriter, r *http.Request) (*tail.Follower, Options, bool) {
	opts, err := e.options(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error(), e.logger)
		return nil, opts, false
	}

	follower, err := tail.Open(e.settings.LogFile, opts.tailOptions())
	if err != nil {
		status, message := openErrorStatus(err)
		logging.WithContext(r.Context(), e.logger).Warn("log file unavailable",
			logging.String(logging.FieldLogFile, e.settings.LogFile),
			logging.Int("status", status),
			logging.Error(err),
		)
		api.WriteError(w, status, message, e.logger)
		return nil, opts, false
	}
	return follower, opts, true
}

func openErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "log file not found"
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden, "log file not readable"
	case errors.Is(err, tail.ErrNotRegular):
		return http.StatusInternalServerError, "log path is not a regular file"
	default:
		return http.StatusInternalServerError, "log file could not be opened"
	}
}

// run registers the connection, drives a Streamer until it stops, and logs
// how the stream ended.
func (e endpoint) run(ctx context.Context, r *http.Request, transport string, follower *tail.Follower, opts Options, sink Sink) {
	id := uuid.NewString()
	ctx = logging.WithStreamID(ctx, id)
	logger := logging.WithContext(ctx, e.logger)

	started := time.Now()
	e.registry.add(Info{ID: id, Transport: transport, RemoteAddr: r.RemoteAddr, StartedAt: started})
	defer e.registry.remove(id)

	logger.Info("stream opened",
		logging.String("transport", transport),
		logging.String(logging.FieldLogFile, follower.Path()),
		logging.Int64("cursor", follower.Cursor()),
		logging.String("remote_addr", r.RemoteAddr),
	)

	err := NewStreamer(follower, opts, logger).Run(ctx, sink)
	attrs := []logging.Attr{
		logging.Duration("duration", time.Since(started)),
		logging.Int64("cursor", follower.Cursor()),
	}
	switch {
	case err == nil || ctx.Err() != nil:
		logger.Info("stream closed", logging.Args(attrs...)...)
	default:
		logger.Warn("stream ended", logging.Args(append(attrs, logging.Error(err))...)...)
	}
}
