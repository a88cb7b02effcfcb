package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lualog/internal/classify"
	"lualog/internal/client"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var fromEnd bool
	var kinds []string
	var serverAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a running server from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := make([]classify.Kind, 0, len(kinds))
			for _, value := range kinds {
				kind, err := classify.ParseKind(value)
				if err != nil {
					return err
				}
				filter = append(filter, kind)
			}

			c, err := ctx.streamClient(serverAddr)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			err = c.Follow(signalCtx, client.FollowOptions{FromEnd: fromEnd, Kinds: filter}, func(event classify.Event) {
				writeEvent(out, event, colorize)
			})
			if errors.Is(err, client.ErrStreamUnavailable) {
				return fmt.Errorf("%w; start it with `lualog serve`", err)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&fromEnd, "from-end", false, "Skip lines already in the log file")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Only show these kinds (print, error); resets are always shown")
	cmd.Flags().StringVar(&serverAddr, "server", "", "Server address (defaults to server.bind)")
	return cmd
}

func writeEvent(w io.Writer, event classify.Event, colorize bool) {
	fmt.Fprintln(w, formatEvent(event, colorize))
}

func formatEvent(event classify.Event, colorize bool) string {
	var line, color string
	switch event.Kind {
	case classify.KindError:
		line, color = "ERROR "+event.Message, ansiRed
	case classify.KindReset:
		line, color = "-- "+strings.ToLower(event.Message)+" --", ansiYellow
	default:
		line = event.Message
	}
	return paint(line, color, colorize)
}
