package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"fist-teleport/internal/logging"
	"fist-teleport/internal/window"
)

//go:embed all:frontend/dist
var assets embed.FS

const windowTitle = "FIST Teleport"

func main() {
	// Create an instance of the app structure
	app, err := NewApp(os.Getenv("FIST_TELEPORT_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	opts := &options.App{
		Title:     windowTitle,
		Width:     window.DefaultWidth,
		Height:    window.DefaultHeight,
		MinWidth:  window.DefaultWidth,
		MinHeight: window.DefaultHeight,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Logger:           logging.NewWailsAdapter(app.log),
		OnStartup:        app.OnStartup,
		OnBeforeClose:    app.OnBeforeClose,
		OnShutdown:       app.OnShutdown,
		Bind:             []interface{}{app},
	}
	applyPlatformOptions(opts)

	// Create application with options
	if err := wails.Run(opts); err != nil {
		app.log.Error("Error starting application", zap.Error(err))
		_ = app.log.Sync()
		os.Exit(1)
	}
}
