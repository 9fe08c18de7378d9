//go:build !windows

package main

import (
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
)

// applyPlatformOptions keeps the webview transparent; opacity itself is a no-op here
func applyPlatformOptions(opts *options.App) {
	opts.Linux = &linux.Options{
		WindowIsTranslucent: true,
	}
	opts.Mac = &mac.Options{
		WebviewIsTransparent: true,
		WindowIsTranslucent:  true,
	}
}
