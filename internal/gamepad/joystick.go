package gamepad

import (
	"github.com/0xcafed00d/joystick"
)

const (
	maxJoysticks = 4
	axisRange    = 32767.0
	hatDeadzone  = axisRange / 2
)

// joystickDevice reads a controller through the generic joystick driver
type joystickDevice struct {
	js      joystick.Joystick
	mapping Mapping
}

// JoystickOpener probes joystick ids 0-3 and returns the first one present
func JoystickOpener(mapping Mapping) Opener {
	return func() (Device, error) {
		for i := 0; i < maxJoysticks; i++ {
			js, err := joystick.Open(i)
			if err == nil {
				return &joystickDevice{js: js, mapping: mapping}, nil
			}
		}
		return nil, ErrNoDevice
	}
}

func (d *joystickDevice) Name() string {
	return d.js.Name()
}

func (d *joystickDevice) Read() (Snapshot, error) {
	state, err := d.js.Read()
	if err != nil {
		return Snapshot{}, err
	}
	return normalizeJoystick(state, d.mapping), nil
}

func (d *joystickDevice) Close() {
	d.js.Close()
}

func normalizeJoystick(state joystick.State, m Mapping) Snapshot {
	snap := Snapshot{Pressed: make(map[Button]bool, len(Buttons))}

	for b, bit := range m.Buttons {
		if bit < 0 || bit > 31 {
			continue
		}
		if state.Buttons&(1<<uint(bit)) != 0 {
			snap.Pressed[b] = true
		}
	}

	if m.StickAxis >= 0 && m.StickAxis < len(state.AxisData) {
		snap.LeftX = clampUnit(float64(state.AxisData[m.StickAxis]) / axisRange)
	}

	if m.DPadAxis >= 0 && m.DPadAxis < len(state.AxisData) {
		hat := float64(state.AxisData[m.DPadAxis])
		if hat < -hatDeadzone {
			snap.Pressed[ButtonDPadLeft] = true
		}
		if hat > hatDeadzone {
			snap.Pressed[ButtonDPadRight] = true
		}
	}

	return snap
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
