// Package placement persists the overlay window geometry and decides where a
// restored window may be placed given the currently attached monitors.
package placement

// Geometry is the outer window rectangle in physical pixels
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Monitor is a display rectangle in virtual-screen coordinates
type Monitor struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Primary bool `json:"primary"`
}

// Overlaps reports whether the geometry shares any area with the monitor
func (g Geometry) Overlaps(m Monitor) bool {
	right := g.X + g.Width
	bottom := g.Y + g.Height
	monitorRight := m.X + m.Width
	monitorBottom := m.Y + m.Height

	return g.X < monitorRight &&
		right > m.X &&
		g.Y < monitorBottom &&
		bottom > m.Y
}

// InBounds reports whether the window is at least partially visible on any
// monitor. With no monitors to check against the position is assumed valid.
func InBounds(g Geometry, monitors []Monitor) bool {
	if len(monitors) == 0 {
		return true
	}
	for _, m := range monitors {
		if g.Overlaps(m) {
			return true
		}
	}
	return false
}

// Primary returns the primary monitor, falling back to the first one
func Primary(monitors []Monitor) (Monitor, bool) {
	for _, m := range monitors {
		if m.Primary {
			return m, true
		}
	}
	if len(monitors) > 0 {
		return monitors[0], true
	}
	return Monitor{}, false
}

// Center returns the top-left corner that centers a w×h window on m
func Center(m Monitor, w, h int) (int, int) {
	return m.X + (m.Width-w)/2, m.Y + (m.Height-h)/2
}

// Action says what to do with the window position on restore
type Action int

const (
	// KeepSaved moves the window to the saved position
	KeepSaved Action = iota
	// CenterPrimary moves the window to the center of the primary monitor
	CenterPrimary
	// LeavePosition restores only the size
	LeavePosition
)

// String returns the action name used in logs
func (a Action) String() string {
	switch a {
	case KeepSaved:
		return "keep_saved"
	case CenterPrimary:
		return "center_primary"
	case LeavePosition:
		return "leave_position"
	default:
		return "unknown"
	}
}

// RestorePlan is the outcome of Plan
type RestorePlan struct {
	Action Action
	X, Y   int
}

// Plan decides where a saved geometry should be restored. A monitor listing
// error counts as "cannot check", which keeps the saved position.
func Plan(saved Geometry, monitors []Monitor, monitorsErr error) RestorePlan {
	if monitorsErr != nil || InBounds(saved, monitors) {
		return RestorePlan{Action: KeepSaved, X: saved.X, Y: saved.Y}
	}

	primary, ok := Primary(monitors)
	if !ok {
		return RestorePlan{Action: LeavePosition}
	}

	x, y := Center(primary, saved.Width, saved.Height)
	return RestorePlan{Action: CenterPrimary, X: x, Y: y}
}
