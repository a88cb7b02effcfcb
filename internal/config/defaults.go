package config

const (
	defaultLogFile         = "log.txt"
	defaultStaticDir       = "wwwroot"
	defaultStateDir        = "~/.local/share/lualog"
	defaultBind            = "127.0.0.1:5000"
	defaultShutdownTimeout = 5
	defaultPollIntervalMS  = 500
	defaultMaxLineBytes    = 1 << 20
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	envLogFile             = "LUALOG_LOG_FILE"
	envBind                = "LUALOG_BIND"
)

// Default returns a Config populated with lualog defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogFile:   defaultLogFile,
			StaticDir: defaultStaticDir,
			StateDir:  defaultStateDir,
		},
		Server: Server{
			Bind:            defaultBind,
			ShutdownTimeout: defaultShutdownTimeout,
			WebSocket:       true,
		},
		Tail: Tail{
			PollIntervalMS: defaultPollIntervalMS,
			MaxLineBytes:   defaultMaxLineBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
