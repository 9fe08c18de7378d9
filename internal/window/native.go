package window

import (
	"errors"

	"fist-teleport/internal/placement"
)

var (
	// ErrUnsupported is returned by native calls the platform cannot serve
	ErrUnsupported = errors.New("not supported on this platform")
	// ErrWindowNotFound is returned when the overlay window handle cannot be resolved
	ErrWindowNotFound = errors.New("overlay window not found")
)

// Native is the platform window backend
type Native interface {
	// Position returns the outer top-left corner
	Position() (int, int, error)
	// Size returns the outer size
	Size() (int, int, error)
	SetPosition(x, y int) error
	SetSize(width, height int) error
	SetMinSize(width, height int) error
	Monitors() ([]placement.Monitor, error)
	// SetOpacity applies an already clamped opacity and reports whether
	// native translucency took effect.
	SetOpacity(opacity float64) (bool, error)
}
