package main

import (
	"strings"

	"github.com/spf13/cobra"

	"fist-teleport/internal/bridge"
)

func init() {
	rootCmd.AddCommand(cmdSend)
}

// `fistctl send` writes an arbitrary command for scripts under development.
var cmdSend = &cobra.Command{
	Use:   "send <command> [argument...]",
	Short: "Send a raw command to the mod script",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")
		return bridgeCommand(cmd, "Waiting for reply...", func(c *bridge.Client) (string, error) {
			return c.Send(cmd.Context(), command)
		})
	},
}
