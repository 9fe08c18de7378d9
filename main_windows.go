//go:build windows

package main

import (
	"github.com/wailsapp/wails/v2/pkg/options"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"
)

// applyPlatformOptions enables the translucent webview layered opacity relies on
func applyPlatformOptions(opts *options.App) {
	opts.Windows = &wailswindows.Options{
		WebviewIsTransparent: true,
		WindowIsTranslucent:  true,
	}
}
