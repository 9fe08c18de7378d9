package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fist-teleport/internal/coords"
	"fist-teleport/internal/modsim"
)

func init() {
	rootCmd.AddCommand(cmdSimulate)
}

var simulateScript string

func init() {
	cmdSimulate.Flags().StringVarP(&simulateScript, "script", "s", "", "Lua file defining handle(command, argument)")
}

// `fistctl simulate` plays the mod script: it answers bridge commands and
// prints coordinates pushed by the overlay until interrupted.
var cmdSimulate = &cobra.Command{
	Use:   "simulate",
	Short: "Stand in for the mod script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		handler := modsim.DefaultHandler()
		if simulateScript != "" {
			lh, err := modsim.NewLuaHandler(simulateScript)
			if err != nil {
				return err
			}
			defer lh.Close()
			handler = lh
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return simulate(ctx, cmd, e, handler)
	},
}

func simulate(ctx context.Context, cmd *cobra.Command, e *env, handler modsim.Handler) error {
	listener, err := modsim.ListenCoords(e.config.Coords.Address, e.log)
	if err != nil {
		return err
	}
	defer listener.Close()

	responder := modsim.NewResponder(e.config.Bridge.Dir, handler, e.log)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "answering commands in %s\n", e.config.Bridge.Dir)
	fmt.Fprintf(out, "listening for coordinates on %s\n", listener.Addr())

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return responder.Run(gctx)
	})
	g.Go(func() error {
		return listener.Serve(gctx, func(c coords.Coord) {
			label := "-"
			if c.Label != nil {
				label = *c.Label
			}
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "coord x=%g y=%g label=%s\n", c.X, c.Y, label)
		})
	})

	err = g.Wait()
	e.log.Info("Simulator stopped", zap.Int("served", responder.Served()))
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
