package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"lualog/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "lualog", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if want := filepath.Join(wd, "log.txt"); cfg.Paths.LogFile != want {
		t.Fatalf("log file = %q, want %q", cfg.Paths.LogFile, want)
	}
	if want := filepath.Join(wd, "wwwroot"); cfg.Paths.StaticDir != want {
		t.Fatalf("static dir = %q, want %q", cfg.Paths.StaticDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "lualog"); cfg.Paths.StateDir != want {
		t.Fatalf("state dir = %q, want %q", cfg.Paths.StateDir, want)
	}
	if cfg.Server.Bind != "127.0.0.1:5000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if !cfg.Server.WebSocket {
		t.Fatal("expected websocket enabled by default")
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Fatalf("poll interval = %s, want 500ms", cfg.PollInterval())
	}
	if cfg.KeepaliveInterval() != 0 {
		t.Fatalf("expected keepalive disabled, got %s", cfg.KeepaliveInterval())
	}
	if cfg.Tail.StartAtEnd {
		t.Fatal("expected streams to start at the beginning of the file")
	}
	if cfg.Tail.MaxLineBytes != 1<<20 {
		t.Fatalf("max line bytes = %d", cfg.Tail.MaxLineBytes)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.StateDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
	if cfg.LockPath() != filepath.Join(cfg.Paths.StateDir, "lualog.lock") {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
}

func TestLoadCustomTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lualog.toml")

	type payload struct {
		Paths struct {
			LogFile string `toml:"log_file"`
		} `toml:"paths"`
		Tail struct {
			PollIntervalMS int  `toml:"poll_interval_ms"`
			StartAtEnd     bool `toml:"start_at_end"`
		} `toml:"tail"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.LogFile = filepath.Join(tempDir, "game", "lua.log")
	custom.Tail.PollIntervalMS = 250
	custom.Tail.StartAtEnd = true
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.LogFile != custom.Paths.LogFile {
		t.Fatalf("log file = %q", cfg.Paths.LogFile)
	}
	if cfg.PollInterval() != 250*time.Millisecond {
		t.Fatalf("poll interval = %s", cfg.PollInterval())
	}
	if !cfg.Tail.StartAtEnd {
		t.Fatal("expected start_at_end from file")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Server.Bind != config.Default().Server.Bind {
		t.Fatalf("expected default bind to survive partial file, got %q", cfg.Server.Bind)
	}
}

func TestLoadYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lualog.yaml")
	content := "server:\n  bind: 0.0.0.0:8080\n  websocket: false\ntail:\n  keepalive_seconds: 15\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected yaml config to exist")
	}
	if cfg.Server.Bind != "0.0.0.0:8080" {
		t.Fatalf("bind = %q", cfg.Server.Bind)
	}
	if cfg.Server.WebSocket {
		t.Fatal("expected websocket disabled")
	}
	if cfg.KeepaliveInterval() != 15*time.Second {
		t.Fatalf("keepalive = %s", cfg.KeepaliveInterval())
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "lualog.yml")
	if err := os.WriteFile(configPath, []byte("tail:\n  poll_ms: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown yaml key to fail")
	}
}

func TestLoadProjectFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workDir := t.TempDir()
	t.Chdir(workDir)
	if err := os.WriteFile(filepath.Join(workDir, "lualog.yaml"), []byte("paths:\n  log_file: server.log\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "lualog.yaml" {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if filepath.Base(cfg.Paths.LogFile) != "server.log" {
		t.Fatalf("log file = %q", cfg.Paths.LogFile)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logPath := filepath.Join(t.TempDir(), "env.log")
	t.Setenv("LUALOG_LOG_FILE", logPath)
	t.Setenv("LUALOG_BIND", "127.0.0.1:6001")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.LogFile != logPath {
		t.Fatalf("log file = %q, want %q", cfg.Paths.LogFile, logPath)
	}
	if cfg.Server.Bind != "127.0.0.1:6001" {
		t.Fatalf("bind = %q", cfg.Server.Bind)
	}
}

func TestSetLogFile(t *testing.T) {
	cfg := config.Default()
	if err := cfg.SetLogFile("  "); err == nil {
		t.Fatal("expected empty path to be rejected")
	}
	path := filepath.Join(t.TempDir(), "other.log")
	if err := cfg.SetLogFile(path); err != nil {
		t.Fatalf("SetLogFile: %v", err)
	}
	if cfg.Paths.LogFile != path {
		t.Fatalf("log file = %q", cfg.Paths.LogFile)
	}
}

func TestValidateErrorsNameKeys(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"poll interval", func(c *config.Config) { c.Tail.PollIntervalMS = -1 }, "tail.poll_interval_ms"},
		{"keepalive", func(c *config.Config) { c.Tail.KeepaliveSeconds = -5 }, "tail.keepalive_seconds"},
		{"bind", func(c *config.Config) { c.Server.Bind = "localhost" }, "server.bind"},
		{"shutdown", func(c *config.Config) { c.Server.ShutdownTimeout = -1 }, "server.shutdown_timeout"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log file", func(c *config.Config) { c.Paths.LogFile = "" }, "paths.log_file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not name %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Server.Bind != config.Default().Server.Bind {
		t.Fatalf("sample bind = %q", cfg.Server.Bind)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "poll_interval_ms = 500") {
		t.Fatalf("encoded config missing poll interval:\n%s", data)
	}
}
