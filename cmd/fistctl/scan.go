package main

import (
	"github.com/spf13/cobra"

	"fist-teleport/internal/bridge"
)

func init() {
	rootCmd.AddCommand(cmdScan)
}

var cmdScan = &cobra.Command{
	Use:   "scan",
	Short: "List the save points of the current map",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return bridgeCommand(cmd, "Scanning...", func(c *bridge.Client) (string, error) {
			return c.ScanSavePoints(cmd.Context())
		})
	},
}
