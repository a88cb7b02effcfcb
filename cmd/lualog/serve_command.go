package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lualog/internal/config"
	"lualog/internal/logging"
	"lualog/internal/preflight"
	"lualog/internal/server"
)

type serveFlags struct {
	bind      string
	staticDir string
	fromEnd   bool
}

func (f *serveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.bind, "bind", "", "Listen address (overrides server.bind)")
	cmd.Flags().StringVar(&f.staticDir, "static-dir", "", "Static file root (overrides paths.static_dir)")
	cmd.Flags().BoolVar(&f.fromEnd, "from-end", false, "Start every stream at the current end of the log file")
}

func (f serveFlags) apply(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SetLogFile(args[0]); err != nil {
			return err
		}
	}
	if bind := strings.TrimSpace(f.bind); bind != "" {
		cfg.Server.Bind = bind
	}
	if dir := strings.TrimSpace(f.staticDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("static dir: %w", err)
		}
		cfg.Paths.StaticDir = expanded
	}
	if f.fromEnd {
		cfg.Tail.StartAtEnd = true
	}
	return cfg.Validate()
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve [logfile]",
		Short: "Run the log streaming server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, ctx, args, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, ctx *commandContext, args []string, flags serveFlags) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := *loaded
	if err := flags.apply(&cfg, args); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(&cfg, uuid.NewString())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if ctx.configSeen {
		logger.Debug("configuration loaded", logging.String("path", ctx.configPath))
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	results := preflight.RunAll(signalCtx, &cfg, false)
	for _, r := range results {
		switch {
		case r.Passed:
			logger.Debug("preflight ok", logging.String("check", r.Name), logging.String("detail", r.Detail))
		case r.Optional:
			logger.Warn("preflight warning", logging.String("check", r.Name), logging.String("detail", r.Detail))
		default:
			logger.Error("preflight failed", logging.String("check", r.Name), logging.String("detail", r.Detail))
		}
	}
	if blocking := preflight.Blocking(results); len(blocking) > 0 {
		return fmt.Errorf("preflight failed: %s: %s", blocking[0].Name, blocking[0].Detail)
	}

	srv, err := server.New(&cfg, logger, server.WithVersion(version))
	if err != nil {
		return err
	}
	if err := srv.Start(signalCtx); err != nil {
		if errors.Is(err, server.ErrAlreadyRunning) {
			return fmt.Errorf("%w (lock %s)", err, cfg.LockPath())
		}
		return err
	}
	defer srv.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Streaming %s at http://%s/tail\n", cfg.Paths.LogFile, srv.Addr())

	if err := srv.Wait(signalCtx); err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}
