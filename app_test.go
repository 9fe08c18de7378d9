package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fist-teleport/internal/config"
	"fist-teleport/internal/coords"
	"fist-teleport/internal/modsim"
	"fist-teleport/internal/points"
)

// newTestApp writes settings pointing every channel into a temp dir
func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, string) {
	t.Helper()
	configDir := t.TempDir()
	bridgeDir := filepath.Join(t.TempDir(), config.BridgeDirName)

	cfg := config.Config{
		Bridge: config.BridgeConfig{Dir: bridgeDir, Timeout: 2 * time.Second, PollInterval: 10 * time.Millisecond},
		Coords: config.CoordsConfig{Address: "127.0.0.1:1", DialTimeout: time.Second, WriteTimeout: time.Second},
		Log:    config.LogConfig{Level: "error"},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	data, err := yaml.Marshal(&cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "settings.yaml"), data, 0644))

	app, err := NewApp(configDir)
	require.NoError(t, err)
	return app, bridgeDir
}

func TestApp_ScanAndTeleport(t *testing.T) {
	app, bridgeDir := newTestApp(t, nil)

	r := modsim.NewResponder(bridgeDir, modsim.DefaultHandler(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	raw, err := app.ScanSavePoints()
	require.NoError(t, err)
	var saves []modsim.SavePoint
	require.NoError(t, json.Unmarshal([]byte(raw), &saves))
	assert.Equal(t, modsim.SampleSavePoints, saves)

	reply, err := app.TeleportToSavepoint("Tower Lift")
	require.NoError(t, err)
	assert.Equal(t, "OK Tower Lift", reply)
}

func TestApp_PushCoord(t *testing.T) {
	l, err := modsim.ListenCoords("127.0.0.1:0", nil)
	require.NoError(t, err)

	app, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.Coords.Address = l.Addr().String()
	})

	var (
		mu  sync.Mutex
		got []coords.Coord
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Serve(ctx, func(c coords.Coord) {
			mu.Lock()
			got = append(got, c)
			mu.Unlock()
		})
	}()

	require.NoError(t, app.PushCoord(12.5, -3, nil))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, coords.Coord{X: 12.5, Y: -3}, got[0])
}

func TestApp_PushCoordWithoutListener(t *testing.T) {
	l, err := modsim.ListenCoords("127.0.0.1:0", nil)
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	app, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.Coords.Address = addr
	})

	label := "Gate"
	assert.NoError(t, app.PushCoord(1, 2, &label))
}

func TestApp_InGamePoints(t *testing.T) {
	app, _ := newTestApp(t, nil)

	got, err := app.GetInGamePoints()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, app.UpdateInGamePoints(`{"points":[]}`))
	got, err = app.GetInGamePoints()
	require.NoError(t, err)
	assert.Equal(t, `{"points":[]}`, got)

	err = app.UpdateInGamePoints(`not json`)
	assert.ErrorIs(t, err, points.ErrInvalidJSON)
}

func TestApp_WindowCallsBeforeStartup(t *testing.T) {
	app, _ := newTestApp(t, nil)

	_, err := app.SetWindowOpacity(0.5)
	assert.Error(t, err)
	assert.Error(t, app.SaveCurrentWindowPosition())
	assert.Equal(t, 100, app.GetOpacityPercent())
	assert.False(t, app.GamepadConnected())
	assert.False(t, app.OnBeforeClose(context.Background()))
}

func TestApp_GamepadDisabled(t *testing.T) {
	app, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.Gamepad.Enabled = false
	})

	assert.Nil(t, app.newGamepadPoller(func(any) {}))
}

func TestApp_GamepadUnknownBackend(t *testing.T) {
	app, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.Gamepad.Enabled = true
		cfg.Gamepad.Backend = "steering-wheel"
	})

	assert.Nil(t, app.newGamepadPoller(func(any) {}))
}
