package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fist-teleport/internal/coords"
)

func init() {
	rootCmd.AddCommand(cmdPushCoord)
}

var (
	pushX     float64
	pushY     float64
	pushLabel string
)

func init() {
	cmdPushCoord.Flags().Float64Var(&pushX, "x", 0, "X coordinate")
	cmdPushCoord.Flags().Float64Var(&pushY, "y", 0, "Y coordinate")
	cmdPushCoord.Flags().StringVar(&pushLabel, "label", "", "Optional label")
	_ = cmdPushCoord.MarkFlagRequired("x")
	_ = cmdPushCoord.MarkFlagRequired("y")
}

var cmdPushCoord = &cobra.Command{
	Use:   "push-coord",
	Short: "Push one coordinate to the mod's listener",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		c := coords.Coord{X: pushX, Y: pushY}
		if cmd.Flags().Changed("label") {
			label := pushLabel
			c.Label = &label
		}
		if err := e.pusher().Push(cmd.Context(), c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pushed %g,%g to %s\n", c.X, c.Y, e.config.Coords.Address)
		return nil
	},
}
