package main

import (
	"strings"

	"github.com/spf13/cobra"

	"fist-teleport/internal/bridge"
)

func init() {
	rootCmd.AddCommand(cmdTeleport)
}

var cmdTeleport = &cobra.Command{
	Use:   "teleport <save point name>",
	Short: "Teleport to a save point by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return bridgeCommand(cmd, "Teleporting...", func(c *bridge.Client) (string, error) {
			return c.Teleport(cmd.Context(), name)
		})
	},
}
