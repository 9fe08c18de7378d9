package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "fistctl [command]",
	Short: "fistctl: talk to the teleport mod without the overlay",
	Long: `fistctl drives the same file bridge and coordinate socket as the overlay app.
It can also stand in for the mod script so the overlay can be exercised without the game.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Settings directory (defaults to the per-user config dir)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
