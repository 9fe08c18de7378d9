package gamepad

import "errors"

// ErrNoDevice is returned by an Opener when no controller is attached
var ErrNoDevice = errors.New("no controller found")

// Snapshot is one normalized controller reading
type Snapshot struct {
	Pressed map[Button]bool
	LeftX   float64 // [-1, 1]
}

// Device is an open controller
type Device interface {
	Name() string
	Read() (Snapshot, error)
	Close()
}

// Opener finds and opens a controller
type Opener func() (Device, error)

// Mapping binds joystick inputs to normalized buttons
type Mapping struct {
	Buttons   map[Button]int // button bit index
	StickAxis int
	DPadAxis  int // hat X axis, negative disables
}

// DefaultMapping matches an XInput-style pad on the generic joystick driver
func DefaultMapping() Mapping {
	return Mapping{
		Buttons: map[Button]int{
			ButtonA: 0,
			ButtonB: 1,
		},
		StickAxis: 0,
		DPadAxis:  6,
	}
}

// MappingFromConfig builds a mapping from settings, ignoring unknown names
func MappingFromConfig(buttons map[string]int, stickAxis, dpadAxis int) Mapping {
	m := Mapping{
		Buttons:   make(map[Button]int, len(buttons)),
		StickAxis: stickAxis,
		DPadAxis:  dpadAxis,
	}
	for name, bit := range buttons {
		for _, b := range Buttons {
			if string(b) == name {
				m.Buttons[b] = bit
			}
		}
	}
	return m
}
