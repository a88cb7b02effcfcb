package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lualog/internal/api"
	"lualog/internal/client"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var serverAddr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := ctx.streamClient(serverAddr)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			status, err := c.Status(cmd.Context())
			if err != nil {
				if client.IsUnavailable(err) {
					fmt.Fprintln(out, renderStatusLine("lualog", statusError, "Not running", colorize))
					return nil
				}
				return err
			}

			fmt.Fprintln(out, renderStatusLine("lualog", statusOK, "Running", colorize))
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				statusRows(status),
				[]columnAlignment{alignLeft, alignLeft},
			))
			if len(status.Streams) > 0 {
				for _, line := range renderSectionHeader("Streams", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Transport", "Remote", "Since"},
					streamRows(status.Streams),
					nil,
				))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverAddr, "server", "", "Server address (defaults to server.bind)")
	return cmd
}

func statusRows(status api.Status) [][]string {
	size := "-"
	if status.LogExists {
		size = strconv.FormatInt(status.LogSize, 10) + " bytes"
	}
	return [][]string{
		{"Version", status.Version},
		{"PID", strconv.Itoa(status.PID)},
		{"Started", status.StartedAt},
		{"Log file", status.LogFile},
		{"Log exists", yesNo(status.LogExists)},
		{"Log size", size},
		{"Active streams", strconv.Itoa(status.ActiveStreams)},
	}
}

func streamRows(streams []api.StreamInfo) [][]string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		rows = append(rows, []string{s.ID, s.Transport, s.RemoteAddr, s.StartedAt})
	}
	return rows
}
