package preflight

import (
	"context"
	"fmt"
	"net"
	"time"

	"lualog/internal/client"
)

// CheckBind verifies the listen address is free. When it is taken, the
// address is probed to tell a running lualog apart from another program.
func CheckBind(ctx context.Context, bind string) Result {
	const name = "Listen address"

	listener, err := net.Listen("tcp", bind)
	if err == nil {
		_ = listener.Close()
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", bind)}
	}

	if ServerRunning(ctx, bind) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: lualog is already running there)", bind)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", bind, err)}
}

// ServerRunning reports whether a lualog server answers on bind.
func ServerRunning(ctx context.Context, bind string) bool {
	c, err := client.NewStreamClient(bind)
	if err != nil || c == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	status, err := c.Status(probeCtx)
	return err == nil && status.Running
}
