package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags serveFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "lualog [logfile]",
		Short: "Stream Lua print and error output to the browser",
		Long: "lualog follows a Lua log file and streams lines wrapped in |LUA|PRINT| or |LUA|ERROR|\n" +
			"markers to browsers at /tail as server-sent events. The log file defaults to log.txt.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkMistypedCommand(cmd, args); err != nil {
				return err
			}
			return runServe(cmd, ctx, args, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.register(rootCmd)

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// checkMistypedCommand rejects a log file argument that does not exist and
// reads like a misspelled subcommand, e.g. `lualog stauts`.
func checkMistypedCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if _, err := os.Stat(args[0]); !errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	suggestions := cmd.SuggestionsFor(args[0])
	if len(suggestions) == 0 {
		return nil
	}
	return fmt.Errorf("unknown command %q for %q\n\nDid you mean this?\n\t%s\n\nTo follow a log file with that name, create it first or run `lualog serve %s`",
		args[0], cmd.CommandPath(), strings.Join(suggestions, "\n\t"), args[0])
}
