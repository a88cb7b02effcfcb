package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lualog/internal/classify"
	"lualog/internal/logging"
	"lualog/internal/tail"
)

// DefaultPollInterval is the idle delay between file checks.
const DefaultPollInterval = 500 * time.Millisecond

// Sink receives the events of one connection.
type Sink interface {
	Send(classify.Event) error
}

// KeepaliveSink is a Sink that can emit an idle heartbeat.
type KeepaliveSink interface {
	Sink
	Keepalive() error
}

// Options tune a stream.
type Options struct {
	PollInterval time.Duration
	// Keepalive enables heartbeats on idle connections when positive.
	Keepalive    time.Duration
	StartAtEnd   bool
	MaxLineBytes int
}

func (o Options) tailOptions() tail.Options {
	return tail.Options{StartAtEnd: o.StartAtEnd, MaxLineBytes: o.MaxLineBytes}
}

// Streamer forwards classified lines from one follower to one sink.
type Streamer struct {
	follower  *tail.Follower
	interval  time.Duration
	keepalive time.Duration
	logger    *slog.Logger
}

// NewStreamer wraps follower. The caller keeps ownership of the follower and
// closes it after Run returns.
func NewStreamer(follower *tail.Follower, opts Options, logger *slog.Logger) *Streamer {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Streamer{
		follower:  follower,
		interval:  interval,
		keepalive: opts.Keepalive,
		logger:    logger,
	}
}

// Run loops until ctx is cancelled, the sink fails, or the file can no
// longer be read. Cancellation is not an error.
func (s *Streamer) Run(ctx context.Context, sink Sink) error {
	lastWrite := time.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := s.follower.Poll()
		if err != nil {
			return err
		}

		if res.Reset {
			s.logger.Info("log file reset",
				logging.String(logging.FieldEventType, string(classify.KindReset)),
				logging.String(logging.FieldLogFile, s.follower.Path()),
			)
			if err := sink.Send(classify.Reset()); err != nil {
				return fmt.Errorf("send reset: %w", err)
			}
			lastWrite = time.Now()
		}

		if res.HasLine {
			if res.Oversized {
				s.logger.Warn("skipped oversized log line", logging.Int64("cursor", s.follower.Cursor()))
				continue
			}
			event, ok := classify.Classify(res.Line)
			if !ok {
				continue
			}
			if err := sink.Send(event); err != nil {
				return fmt.Errorf("send %s event: %w", event.Kind, err)
			}
			lastWrite = time.Now()
			continue
		}

		if ks, ok := sink.(KeepaliveSink); ok && s.keepalive > 0 && time.Since(lastWrite) >= s.keepalive {
			if err := ks.Keepalive(); err != nil {
				return fmt.Errorf("send keepalive: %w", err)
			}
			lastWrite = time.Now()
		}

		if !s.wait(ctx) {
			return nil
		}
	}
}

func (s *Streamer) wait(ctx context.Context) bool {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
