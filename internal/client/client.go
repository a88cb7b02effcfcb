package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"lualog/internal/api"
	"lualog/internal/classify"
)

// ErrStreamUnavailable marks failures to reach the server at all.
var ErrStreamUnavailable = errors.New("lualog server unavailable")

// maxFrameBytes bounds a single SSE line read from the server.
const maxFrameBytes = 4 * 1024 * 1024

type StreamClient struct {
	base *url.URL
	http *http.Client
}

// FollowOptions select where a follow starts and which kinds are delivered.
// Reset events are always delivered.
type FollowOptions struct {
	FromEnd bool
	Kinds   []classify.Kind
}

// NewStreamClient returns nil for an empty bind. Wildcard listen addresses
// are dialled on loopback.
func NewStreamClient(bind string) (*StreamClient, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	if host, port, err := net.SplitHostPort(base.Host); err == nil {
		switch host {
		case "", "0.0.0.0":
			base.Host = net.JoinHostPort("127.0.0.1", port)
		case "::":
			base.Host = net.JoinHostPort("::1", port)
		}
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &StreamClient{
		base: base,
		// No timeout - follow mode blocks waiting for events until caller cancels.
		http: &http.Client{},
	}, nil
}

// Follow streams events until ctx is cancelled or the server closes the
// stream. Cancellation returns nil.
func (c *StreamClient) Follow(ctx context.Context, opts FollowOptions, onEvent func(classify.Event)) error {
	if c == nil {
		return ErrStreamUnavailable
	}

	values := url.Values{}
	if opts.FromEnd {
		values.Set("from", "end")
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: "/tail", RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("tail", resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				deliver(strings.Join(data, "\n"), opts.Kinds, onEvent)
				data = data[:0]
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

func deliver(payload string, kinds []classify.Kind, onEvent func(classify.Event)) {
	event, err := classify.ParseData(payload)
	if err != nil {
		return
	}
	if event.Kind != classify.KindReset && len(kinds) > 0 && !slices.Contains(kinds, event.Kind) {
		return
	}
	if onEvent != nil {
		onEvent(event)
	}
}

// Status fetches /api/status.
func (c *StreamClient) Status(ctx context.Context) (api.Status, error) {
	if c == nil {
		return api.Status{}, ErrStreamUnavailable
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: "/api/status"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return api.Status{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return api.Status{}, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return api.Status{}, statusError("status", resp)
	}

	var payload api.Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return api.Status{}, fmt.Errorf("decode status: %w", err)
	}
	return payload, nil
}

func statusError(op string, resp *http.Response) error {
	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s: %s (status %d)", op, body.Error, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d", op, resp.StatusCode)
}

func unavailable(err error) error {
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrStreamUnavailable, err)
	}
	return err
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStreamUnavailable) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
