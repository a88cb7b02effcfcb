package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"

	"lualog/internal/api"
	"lualog/internal/config"
	"lualog/internal/logging"
	"lualog/internal/stream"
)

// ErrAlreadyRunning is returned by Start when another process holds the lock.
var ErrAlreadyRunning = errors.New("another lualog instance is already running")

// Option customizes a Server.
type Option func(*Server)

// WithVersion sets the version reported by /api/status.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Server owns the HTTP listener and the instance lock.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	version  string
	registry *stream.Registry
	handler  http.Handler
	embedded bool
	lock     *flock.Flock

	mu         sync.Mutex
	running    atomic.Bool
	startedAt  time.Time
	listener   net.Listener
	httpServer *http.Server
	cancel     context.CancelFunc
	serveErr   chan error
}

// New builds the router. Nothing is bound until Start.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "server"),
		version:  "dev",
		registry: stream.NewRegistry(),
		lock:     flock.New(cfg.LockPath()),
	}
	for _, opt := range opts {
		opt(s)
	}

	static, embedded, err := staticRoot(cfg.Paths.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}
	s.embedded = embedded

	settings := stream.Settings{
		LogFile: cfg.Paths.LogFile,
		Options: stream.Options{
			PollInterval: cfg.PollInterval(),
			Keepalive:    cfg.KeepaliveInterval(),
			StartAtEnd:   cfg.Tail.StartAtEnd,
			MaxLineBytes: cfg.Tail.MaxLineBytes,
		},
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(recovery(s.logger))

	r.Get("/tail", stream.NewSSEHandler(settings, s.registry, logger).ServeHTTP)
	if cfg.Server.WebSocket {
		r.Get("/tail/ws", stream.NewWebSocketHandler(settings, s.registry, logger).ServeHTTP)
	}
	r.Get("/api/status", s.handleStatus)
	r.Get("/healthz", s.handleHealth)

	files := staticHandler(static)
	r.Get("/*", files.ServeHTTP)
	r.Head("/*", files.ServeHTTP)

	s.handler = r
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start takes the instance lock, binds the listener, and serves in the
// background. Streams are cancelled when ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return errors.New("server already running")
	}
	if err := s.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Bind, err)
	}

	if err := os.WriteFile(s.cfg.PIDPath(), []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		s.log().Warn("failed to write pid file", logging.String("path", s.cfg.PIDPath()), logging.Error(err))
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.listener = listener
	s.startedAt = time.Now()
	s.serveErr = make(chan error, 1)
	// No write timeout: streams stay open for as long as the client listens.
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}

	go func(srv *http.Server, errs chan<- error) {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("http server error", logging.Error(err))
			errs <- err
		}
		close(errs)
	}(s.httpServer, s.serveErr)

	s.running.Store(true)
	s.log().Info("lualog server listening",
		logging.String("address", listener.Addr().String()),
		logging.String(logging.FieldLogFile, s.cfg.Paths.LogFile),
		logging.Bool("embedded_viewer", s.embedded),
		logging.Bool("websocket", s.cfg.Server.WebSocket),
	)

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		s.log().Warn("systemd notify failed", logging.Error(err))
	} else if sent {
		s.log().Debug("systemd notified ready")
	}
	return nil
}

// Wait blocks until ctx is done or the listener fails.
func (s *Server) Wait(ctx context.Context) error {
	s.mu.Lock()
	errs := s.serveErr
	s.mu.Unlock()
	if errs == nil {
		return errors.New("server not started")
	}
	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-errs:
		if ok && err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// Stop ends every stream, shuts the listener down within the configured
// timeout, and releases the lock.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return
	}
	cancel, srv := s.cancel, s.httpServer
	s.cancel = nil
	s.httpServer = nil
	s.listener = nil
	s.running.Store(false)
	s.mu.Unlock()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	if cancel != nil {
		cancel()
	}
	if srv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log().Warn("graceful shutdown incomplete", logging.Error(err))
			_ = srv.Close()
		}
		cancelShutdown()
	}

	if err := os.Remove(s.cfg.PIDPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log().Warn("failed to remove pid file", logging.Error(err))
	}
	if err := s.lock.Unlock(); err != nil {
		s.log().Warn("failed to release lock", logging.Error(err))
	}
	s.log().Info("lualog server stopped")
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Status reports the current state.
func (s *Server) Status() api.Status {
	s.mu.Lock()
	startedAt := s.startedAt
	s.mu.Unlock()

	status := api.Status{
		Running:       s.running.Load(),
		PID:           os.Getpid(),
		Version:       s.version,
		StartedAt:     api.FormatTime(startedAt),
		LogFile:       s.cfg.Paths.LogFile,
		ActiveStreams: s.registry.Count(),
	}
	if info, err := os.Stat(s.cfg.Paths.LogFile); err == nil && info.Mode().IsRegular() {
		status.LogExists = true
		status.LogSize = info.Size()
	}
	for _, info := range s.registry.Snapshot() {
		status.Streams = append(status.Streams, api.StreamInfo{
			ID:         info.ID,
			Transport:  info.Transport,
			RemoteAddr: info.RemoteAddr,
			StartedAt:  api.FormatTime(info.StartedAt),
		})
	}
	return status
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, s.Status(), s.log())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.log())
}

func (s *Server) log() *slog.Logger {
	return s.logger
}
