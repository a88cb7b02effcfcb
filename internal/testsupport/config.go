package testsupport

import (
	"path/filepath"
	"testing"

	"lualog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	cfg     *config.Config
	skipLog bool
}

// NewConfig produces a config seeded with unique temp paths per test.
// The followed log file is created empty, the listener binds an ephemeral
// port, and the poll delay is shortened so streaming tests stay fast.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogFile = filepath.Join(base, "log.txt")
	cfgVal.Paths.StaticDir = filepath.Join(base, "wwwroot")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Tail.PollIntervalMS = 10

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if !builder.skipLog {
		WriteLog(t, cfgVal.Paths.LogFile, "")
	}
	return builder.cfg
}

// WithoutLogFile leaves the followed log file absent.
func WithoutLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.skipLog = true
	}
}

// WithStaticFiles populates the static root with name→content pairs.
func WithStaticFiles(files map[string]string) ConfigOption {
	return func(b *configBuilder) {
		for name, content := range files {
			WriteLog(b.t, filepath.Join(b.cfg.Paths.StaticDir, filepath.FromSlash(name)), content)
		}
	}
}

// WithPollInterval overrides the idle poll delay.
func WithPollInterval(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tail.PollIntervalMS = ms
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogFile)
}
