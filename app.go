package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"fist-teleport/internal/bridge"
	"fist-teleport/internal/config"
	"fist-teleport/internal/coords"
	"fist-teleport/internal/gamepad"
	"fist-teleport/internal/logging"
	"fist-teleport/internal/placement"
	"fist-teleport/internal/points"
	"fist-teleport/internal/window"
)

// App struct
type App struct {
	ctx     context.Context
	config  *config.Service
	log     *zap.Logger
	bridge  *bridge.Client
	coords  *coords.Pusher
	points  *points.Store
	window  *window.Controller
	gamepad *gamepad.Poller
}

// NewApp loads settings from configDir (empty for the per-user default) and
// builds the services that do not need a window.
func NewApp(configDir string) (*App, error) {
	configSvc, err := config.New(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := configSvc.Get()

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	return &App{
		ctx:    context.Background(),
		config: configSvc,
		log:    log,
		bridge: bridge.New(bridge.Options{
			Dir:          cfg.Bridge.Dir,
			Timeout:      cfg.Bridge.Timeout,
			PollInterval: cfg.Bridge.PollInterval,
			Logger:       log,
		}),
		coords: coords.New(coords.Options{
			Address:      cfg.Coords.Address,
			DialTimeout:  cfg.Coords.DialTimeout,
			WriteTimeout: cfg.Coords.WriteTimeout,
			Logger:       log,
		}),
		points: points.NewStore(configSvc.PointsPath()),
	}, nil
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("Starting", zap.String("config", a.config.Path()), zap.String("bridge_dir", a.bridge.Dir()))

	a.window = window.New(
		window.NewNative(ctx, windowTitle),
		placement.NewStore(a.config.GeometryPath()),
		a.config,
		a.log,
	)
	a.window.Initialize()

	a.gamepad = a.newGamepadPoller(func(payload any) {
		runtime.EventsEmit(ctx, gamepad.EventName, payload)
	})
	if a.gamepad != nil {
		a.gamepad.Start()
	}
}

func (a *App) newGamepadPoller(emit gamepad.Emitter) *gamepad.Poller {
	cfg := a.config.Get().Gamepad
	if !cfg.Enabled {
		a.log.Info("Gamepad input disabled in settings")
		return nil
	}

	mapping := gamepad.MappingFromConfig(cfg.Buttons, cfg.StickAxis, cfg.DPadAxis)
	opener, err := gamepad.NewOpener(cfg.Backend, mapping)
	if err != nil {
		a.log.Warn("Gamepad backend unavailable", zap.String("backend", cfg.Backend), zap.Error(err))
		return nil
	}

	return gamepad.New(gamepad.Options{
		Opener:       opener,
		Emit:         emit,
		PollInterval: cfg.PollInterval,
		Threshold:    cfg.AxisThreshold,
		Logger:       a.log,
	})
}

// OnBeforeClose saves the window placement. Closing is never prevented.
func (a *App) OnBeforeClose(ctx context.Context) bool {
	if a.window != nil {
		if err := a.window.SaveCurrentPosition(); err != nil {
			a.log.Warn("Failed to save window geometry", zap.Error(err))
		}
	}
	return false
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	if a.gamepad != nil {
		a.gamepad.Stop()
	}
	if a.config != nil {
		if err := a.config.Save(); err != nil {
			a.log.Warn("Failed to save settings", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// PushCoord sends a coordinate to the mod's listener. A missing listener is not an error.
func (a *App) PushCoord(x, y float64, label *string) error {
	return a.coords.Push(a.ctx, coords.Coord{X: x, Y: y, Label: label})
}

// ScanSavePoints asks the mod for the save points on the current map
func (a *App) ScanSavePoints() (string, error) {
	return a.bridge.ScanSavePoints(a.ctx)
}

// TeleportToSavepoint asks the mod to teleport to the named save point
func (a *App) TeleportToSavepoint(name string) (string, error) {
	return a.bridge.Teleport(a.ctx, name)
}

// SetWindowOpacity applies a raw opacity and reports whether the platform
// supports native translucency.
func (a *App) SetWindowOpacity(opacity float64) (bool, error) {
	if a.window == nil {
		return false, fmt.Errorf("window not ready")
	}
	return a.window.SetOpacity(opacity)
}

// GetOpacityPercent returns the persisted opacity percentage
func (a *App) GetOpacityPercent() int {
	if a.window == nil {
		return window.DefaultOpacityPercent
	}
	return a.window.OpacityPercent()
}

// SetOpacityPercent stores and applies an opacity percentage
func (a *App) SetOpacityPercent(percent float64) (int, error) {
	if a.window == nil {
		return 0, fmt.Errorf("window not ready")
	}
	return a.window.SetOpacityPercent(percent)
}

// SaveCurrentWindowPosition persists the current window geometry
func (a *App) SaveCurrentWindowPosition() error {
	if a.window == nil {
		return fmt.Errorf("window not ready")
	}
	return a.window.SaveCurrentPosition()
}

// UpdateInGamePoints validates and stores the in-game points document
func (a *App) UpdateInGamePoints(pointsJSON string) error {
	if err := a.points.Update(pointsJSON); err != nil {
		return err
	}
	a.log.Info("In-game points updated", zap.String("path", a.points.Path()), zap.Int("bytes", len(pointsJSON)))
	return nil
}

// GetInGamePoints returns the stored points document, empty if none was saved
func (a *App) GetInGamePoints() (string, error) {
	raw, err := a.points.Load()
	if errors.Is(err, points.ErrNoPoints) {
		return "", nil
	}
	return raw, err
}

// GamepadConnected reports whether a controller is attached
func (a *App) GamepadConnected() bool {
	return a.gamepad != nil && a.gamepad.Connected()
}
