package preflight

import (
	"context"

	"lualog/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional failures are reported but do not block startup.
	Optional bool
}

// RunAll executes every preflight check for the given config. Set
// includeBind to false when the caller already owns the listener.
func RunAll(ctx context.Context, cfg *config.Config, includeBind bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckLogFile(cfg.Paths.LogFile),
		CheckStaticDir(cfg.Paths.StaticDir),
		CheckStateDir(cfg.Paths.StateDir),
	}
	if includeBind {
		results = append(results, CheckBind(ctx, cfg.Server.Bind))
	}
	return results
}

// Blocking returns the failed results that are not optional.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}
