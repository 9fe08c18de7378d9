// Package window restores the overlay placement and applies its opacity.
package window

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"fist-teleport/internal/config"
	"fist-teleport/internal/placement"
)

const (
	DefaultOpacity = 0.7
	MinOpacity     = 0.3
	MaxOpacity     = 1.0

	// opaqueThreshold is where translucency is switched off entirely
	opaqueThreshold = 0.999

	DefaultWidth  = 1280
	DefaultHeight = 900

	MinOpacityPercent     = 40
	MaxOpacityPercent     = 100
	DefaultOpacityPercent = 100
)

// ClampOpacity limits opacity to [MinOpacity, MaxOpacity]. NaN maps to DefaultOpacity.
func ClampOpacity(opacity float64) float64 {
	if math.IsNaN(opacity) {
		return DefaultOpacity
	}
	return math.Max(MinOpacity, math.Min(MaxOpacity, opacity))
}

// IsOpaque reports whether opacity is treated as fully opaque
func IsOpaque(opacity float64) bool {
	return opacity >= opaqueThreshold
}

// OpaqueBackground is the webview background used when the window is opaque
func OpaqueBackground() (r, g, b, a uint8) {
	return 12, 13, 17, 255
}

// SanitizePercent rounds and clamps a UI opacity percentage
func SanitizePercent(percent float64) int {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return DefaultOpacityPercent
	}
	p := int(math.Round(percent))
	if p < MinOpacityPercent {
		return MinOpacityPercent
	}
	if p > MaxOpacityPercent {
		return MaxOpacityPercent
	}
	return p
}

// Controller manages the overlay window geometry and opacity
type Controller struct {
	native   Native
	geometry *placement.Store
	config   *config.Service
	log      *zap.Logger

	mu      sync.Mutex
	opacity float64
}

// New creates a new window controller
func New(native Native, geometry *placement.Store, configSvc *config.Service, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		native:   native,
		geometry: geometry,
		config:   configSvc,
		log:      log.With(zap.String("component", "window")),
		opacity:  DefaultOpacity,
	}
}

// Initialize applies the minimum size, the saved placement and the startup
// opacity. Every step logs its failure and carries on.
func (c *Controller) Initialize() {
	if err := c.native.SetMinSize(DefaultWidth, DefaultHeight); err != nil {
		c.log.Warn("Failed to set minimum size", zap.Error(err))
	}

	c.restoreGeometry()

	if _, err := c.SetOpacity(c.startupOpacity()); err != nil {
		c.log.Warn("Failed to apply startup opacity", zap.Error(err))
	}
}

func (c *Controller) restoreGeometry() {
	saved, err := c.geometry.Load()
	if err != nil {
		if !errors.Is(err, placement.ErrNoGeometry) {
			c.log.Warn("Failed to load window geometry", zap.Error(err))
		}
		if err := c.native.SetSize(DefaultWidth, DefaultHeight); err != nil {
			c.log.Warn("Failed to apply default size", zap.Error(err))
		}
		return
	}

	if err := c.native.SetSize(saved.Width, saved.Height); err != nil {
		c.log.Warn("Failed to restore window size", zap.Error(err))
	}

	monitors, monitorsErr := c.native.Monitors()
	if monitorsErr != nil && !errors.Is(monitorsErr, ErrUnsupported) {
		c.log.Warn("Failed to list monitors", zap.Error(monitorsErr))
	}

	plan := placement.Plan(saved, monitors, monitorsErr)
	c.log.Info("Restoring window placement",
		zap.Stringer("action", plan.Action),
		zap.Int("x", plan.X),
		zap.Int("y", plan.Y),
		zap.Int("width", saved.Width),
		zap.Int("height", saved.Height),
	)

	if plan.Action == placement.LeavePosition {
		return
	}
	if err := c.native.SetPosition(plan.X, plan.Y); err != nil {
		c.log.Warn("Failed to restore window position", zap.Error(err))
	}
}

// startupOpacity is the persisted percentage, or DefaultOpacity without one
func (c *Controller) startupOpacity() float64 {
	if c.config == nil {
		return DefaultOpacity
	}
	percent := c.config.Get().Window.OpacityPercent
	if percent <= 0 {
		return DefaultOpacity
	}
	return float64(SanitizePercent(float64(percent))) / 100
}

// SetOpacity clamps and applies the window opacity. The result reports
// whether native translucency was applied.
func (c *Controller) SetOpacity(opacity float64) (bool, error) {
	clamped := ClampOpacity(opacity)

	c.mu.Lock()
	defer c.mu.Unlock()

	applied, err := c.native.SetOpacity(clamped)
	if err != nil {
		return false, fmt.Errorf("failed to set window opacity: %w", err)
	}
	c.opacity = clamped
	c.log.Debug("Window opacity set", zap.Float64("opacity", clamped), zap.Bool("applied", applied))
	return applied, nil
}

// Opacity returns the last applied opacity
func (c *Controller) Opacity() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opacity
}

// OpacityPercent returns the persisted UI opacity percentage
func (c *Controller) OpacityPercent() int {
	if c.config == nil {
		return DefaultOpacityPercent
	}
	percent := c.config.Get().Window.OpacityPercent
	if percent <= 0 {
		return DefaultOpacityPercent
	}
	return SanitizePercent(float64(percent))
}

// SetOpacityPercent sanitizes, persists and applies a UI opacity percentage.
// It returns the stored value.
func (c *Controller) SetOpacityPercent(percent float64) (int, error) {
	p := SanitizePercent(percent)

	if c.config != nil {
		cfg := c.config.Get()
		cfg.Window.OpacityPercent = p
		if err := c.config.UpdateWindow(cfg.Window); err != nil {
			return p, fmt.Errorf("failed to save opacity: %w", err)
		}
	}

	if _, err := c.SetOpacity(float64(p) / 100); err != nil {
		return p, err
	}
	return p, nil
}

// SaveCurrentPosition persists the current outer position and size
func (c *Controller) SaveCurrentPosition() error {
	x, y, err := c.native.Position()
	if err != nil {
		return fmt.Errorf("failed to read window position: %w", err)
	}
	w, h, err := c.native.Size()
	if err != nil {
		return fmt.Errorf("failed to read window size: %w", err)
	}

	g := placement.Geometry{X: x, Y: y, Width: w, Height: h}
	if err := c.geometry.Save(g); err != nil {
		return err
	}
	c.log.Info("Window geometry saved", zap.Int("x", x), zap.Int("y", y), zap.Int("width", w), zap.Int("height", h))
	return nil
}
