package placement

import (
	"errors"
	"testing"
)

var (
	left    = Monitor{X: -1920, Y: 0, Width: 1920, Height: 1080}
	primary = Monitor{X: 0, Y: 0, Width: 2560, Height: 1440, Primary: true}
)

func TestInBounds(t *testing.T) {
	tests := []struct {
		name     string
		geometry Geometry
		monitors []Monitor
		want     bool
	}{
		{"no monitors", Geometry{X: 99999, Y: 99999, Width: 10, Height: 10}, nil, true},
		{"fully inside", Geometry{X: 100, Y: 100, Width: 1280, Height: 900}, []Monitor{primary}, true},
		{"partially visible", Geometry{X: 2500, Y: 1400, Width: 1280, Height: 900}, []Monitor{primary}, true},
		{"on secondary", Geometry{X: -1500, Y: 50, Width: 1280, Height: 900}, []Monitor{left, primary}, true},
		{"touching right edge", Geometry{X: 2560, Y: 0, Width: 1280, Height: 900}, []Monitor{primary}, false},
		{"touching bottom edge", Geometry{X: 0, Y: 1440, Width: 1280, Height: 900}, []Monitor{primary}, false},
		{"detached monitor", Geometry{X: -3000, Y: 0, Width: 1000, Height: 900}, []Monitor{primary}, false},
	}

	for _, tc := range tests {
		if got := InBounds(tc.geometry, tc.monitors); got != tc.want {
			t.Errorf("%s: InBounds = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestPrimary(t *testing.T) {
	if _, ok := Primary(nil); ok {
		t.Error("Expected no primary monitor for empty list")
	}

	m, ok := Primary([]Monitor{left, primary})
	if !ok || !m.Primary {
		t.Errorf("Primary = %+v, %v; want the primary monitor", m, ok)
	}

	m, ok = Primary([]Monitor{left})
	if !ok || m != left {
		t.Errorf("Primary fallback = %+v, %v; want first monitor", m, ok)
	}
}

func TestCenter(t *testing.T) {
	x, y := Center(primary, 1280, 900)
	if x != 640 || y != 270 {
		t.Errorf("Center = (%d, %d); want (640, 270)", x, y)
	}

	x, y = Center(left, 1280, 900)
	if x != -1600 || y != 90 {
		t.Errorf("Center on offset monitor = (%d, %d); want (-1600, 90)", x, y)
	}
}

func TestPlan(t *testing.T) {
	saved := Geometry{X: -3000, Y: 40, Width: 1280, Height: 900}

	plan := Plan(saved, []Monitor{primary}, nil)
	if plan.Action != CenterPrimary || plan.X != 640 || plan.Y != 270 {
		t.Errorf("Plan out of bounds = %+v; want center on primary", plan)
	}

	plan = Plan(saved, nil, errors.New("no monitor api"))
	if plan.Action != KeepSaved || plan.X != saved.X || plan.Y != saved.Y {
		t.Errorf("Plan with monitor error = %+v; want saved position", plan)
	}

	inside := Geometry{X: 10, Y: 20, Width: 1280, Height: 900}
	plan = Plan(inside, []Monitor{primary}, nil)
	if plan.Action != KeepSaved || plan.X != 10 || plan.Y != 20 {
		t.Errorf("Plan in bounds = %+v; want saved position", plan)
	}
}

func TestAction_String(t *testing.T) {
	if CenterPrimary.String() != "center_primary" {
		t.Errorf("unexpected action name %q", CenterPrimary.String())
	}
	if Action(42).String() != "unknown" {
		t.Errorf("unexpected action name %q", Action(42).String())
	}
}
