package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"lualog/internal/api"
	"lualog/internal/logging"
)

// requestLogger logs each completed request and carries the chi request id
// into the logging context, where the session handler picks it up.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			if id := middleware.GetReqID(r.Context()); id != "" {
				r = r.WithContext(logging.WithRequestID(r.Context(), id))
			}

			defer func() {
				level := slog.LevelDebug
				if ww.Status() >= http.StatusInternalServerError {
					level = slog.LevelWarn
				}
				logger.Log(r.Context(), level, "request completed",
					logging.Args(
						logging.String("method", r.Method),
						logging.String("path", r.URL.Path),
						logging.Int("status", ww.Status()),
						logging.Int("bytes", ww.BytesWritten()),
						logging.Duration("duration", time.Since(start)),
						logging.String("remote_addr", r.RemoteAddr),
					)...,
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// recovery turns handler panics into a 500 JSON reply.
func recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.WithContext(r.Context(), logger).Error("panic recovered",
					logging.Any("panic", rec),
					logging.String("stack_trace", string(debug.Stack())),
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
				)
				api.WriteError(w, http.StatusInternalServerError, "internal server error", logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
