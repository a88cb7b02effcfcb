package stream

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Transport names reported in StreamInfo.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Info describes a connected client.
type Info struct {
	ID         string
	Transport  string
	RemoteAddr string
	StartedAt  time.Time
}

// Registry tracks active connections.
type Registry struct {
	mu      sync.Mutex
	streams map[string]Info
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]Info)}
}

func (r *Registry) add(info Info) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.streams[info.ID] = info
	r.mu.Unlock()
}

func (r *Registry) remove(id string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.streams, id)
	r.mu.Unlock()
}

// Count returns the number of active connections.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

// Snapshot lists active connections, oldest first.
func (r *Registry) Snapshot() []Info {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	out := make([]Info, 0, len(r.streams))
	for _, info := range r.streams {
		out = append(out, info)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b Info) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
