//go:build !windows

package window

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"fist-teleport/internal/placement"
)

// nativeWindow drives the overlay through the Wails runtime only
type nativeWindow struct {
	ctx context.Context
}

// NewNative returns the runtime backend. The title is unused off Windows.
func NewNative(ctx context.Context, title string) Native {
	return &nativeWindow{ctx: ctx}
}

func (n *nativeWindow) Position() (int, int, error) {
	x, y := runtime.WindowGetPosition(n.ctx)
	return x, y, nil
}

func (n *nativeWindow) Size() (int, int, error) {
	w, h := runtime.WindowGetSize(n.ctx)
	return w, h, nil
}

func (n *nativeWindow) SetPosition(x, y int) error {
	runtime.WindowSetPosition(n.ctx, x, y)
	return nil
}

func (n *nativeWindow) SetSize(width, height int) error {
	runtime.WindowSetSize(n.ctx, width, height)
	return nil
}

func (n *nativeWindow) SetMinSize(width, height int) error {
	runtime.WindowSetMinSize(n.ctx, width, height)
	return nil
}

// Monitors is unsupported because the runtime does not report screen origins
func (n *nativeWindow) Monitors() ([]placement.Monitor, error) {
	return nil, ErrUnsupported
}

func (n *nativeWindow) SetOpacity(opacity float64) (bool, error) {
	return false, nil
}
