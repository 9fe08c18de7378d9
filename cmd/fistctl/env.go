package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fist-teleport/internal/bridge"
	"fist-teleport/internal/config"
	"fist-teleport/internal/coords"
	"fist-teleport/internal/logging"
)

// env is the settings and logger shared by every subcommand
type env struct {
	config config.Config
	log    *zap.Logger
}

func loadEnv() (*env, error) {
	svc, err := config.New(configDir)
	if err != nil {
		return nil, err
	}
	cfg := svc.Get()

	level := cfg.Log.Level
	if !verbose {
		// keep the terminal quiet unless asked
		level = "warn"
	}
	log, err := logging.New(logging.Options{Level: level, File: cfg.Log.File, Verbose: verbose})
	if err != nil {
		return nil, err
	}
	return &env{config: cfg, log: log}, nil
}

func (e *env) bridge() *bridge.Client {
	return bridge.New(bridge.Options{
		Dir:          e.config.Bridge.Dir,
		Timeout:      e.config.Bridge.Timeout,
		PollInterval: e.config.Bridge.PollInterval,
		Logger:       e.log,
	})
}

func (e *env) pusher() *coords.Pusher {
	return coords.New(coords.Options{
		Address:      e.config.Coords.Address,
		DialTimeout:  e.config.Coords.DialTimeout,
		WriteTimeout: e.config.Coords.WriteTimeout,
		Logger:       e.log,
	})
}

func (e *env) close() {
	_ = e.log.Sync()
}

// waitFor runs fn behind a spinner on stderr
func waitFor(cmd *cobra.Command, label string, fn func() (string, error)) (string, error) {
	spin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	spin.Suffix = " " + label
	spin.Start()
	defer spin.Stop()
	return fn()
}

// bridgeCommand sends one command over the bridge and prints the reply
func bridgeCommand(cmd *cobra.Command, label string, send func(*bridge.Client) (string, error)) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	client := e.bridge()
	reply, err := waitFor(cmd, label, func() (string, error) {
		return send(client)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
