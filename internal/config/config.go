package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	LogFile   string `toml:"log_file" yaml:"log_file"`
	StaticDir string `toml:"static_dir" yaml:"static_dir"`
	StateDir  string `toml:"state_dir" yaml:"state_dir"`
}

// Server contains listener settings.
type Server struct {
	Bind            string `toml:"bind" yaml:"bind"`
	ShutdownTimeout int    `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	WebSocket       bool   `toml:"websocket" yaml:"websocket"`
}

// Tail contains follow loop settings.
type Tail struct {
	PollIntervalMS   int  `toml:"poll_interval_ms" yaml:"poll_interval_ms"`
	StartAtEnd       bool `toml:"start_at_end" yaml:"start_at_end"`
	MaxLineBytes     int  `toml:"max_line_bytes" yaml:"max_line_bytes"`
	KeepaliveSeconds int  `toml:"keepalive_seconds" yaml:"keepalive_seconds"`
}

// Logging contains configuration for lualog's own log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
	File   string `toml:"file" yaml:"file"`
}

// Config encapsulates all configuration values for lualog.
//
// Configuration sections:
//   - Paths: followed log file, static root, and state directory
//   - Server: bind address, shutdown timeout, websocket toggle
//   - Tail: poll delay, start position, line limits, keepalives
//   - Logging: format, level, optional JSON log file
type Config struct {
	Paths   Paths   `toml:"paths" yaml:"paths"`
	Server  Server  `toml:"server" yaml:"server"`
	Tail    Tail    `toml:"tail" yaml:"tail"`
	Logging Logging `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lualog/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	for _, name := range []string{"lualog.toml", "lualog.yaml", "lualog.yml"} {
		projectPath, err := filepath.Abs(name)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
			return projectPath, true, nil
		}
	}

	return defaultPath, false, nil
}

// SetLogFile replaces the followed log file, expanding it the same way the
// loader does. Used for the positional command-line argument.
func (c *Config) SetLogFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("log file path must not be empty")
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	c.Paths.LogFile = expanded
	return nil
}

// EnsureDirectories creates the state directory and the parent of the
// optional JSON log file.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		dir := filepath.Dir(file)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}
	return nil
}

// PollInterval is the idle delay between file checks.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Tail.PollIntervalMS) * time.Millisecond
}

// KeepaliveInterval returns zero when keepalive frames are disabled.
func (c *Config) KeepaliveInterval() time.Duration {
	return time.Duration(c.Tail.KeepaliveSeconds) * time.Second
}

// ShutdownTimeout bounds graceful HTTP shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// LockPath is the single-instance lock file inside the state directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "lualog.lock")
}

// PIDPath records the pid of the running server.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.StateDir, "lualog.pid")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
