//go:build windows

package gamepad

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	xinput             = windows.NewLazySystemDLL("xinput1_4.dll")
	procXInputGetState = xinput.NewProc("XInputGetState")
)

const (
	xinputDPadLeft  = 0x0004
	xinputDPadRight = 0x0008
	xinputA         = 0x1000
	xinputB         = 0x2000

	xinputMaxUsers = 4
)

type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  byte
	RightTrigger byte
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

func xinputGetState(index uint32) (*xinputState, error) {
	var state xinputState
	r, _, _ := procXInputGetState.Call(uintptr(index), uintptr(unsafe.Pointer(&state)))
	if r != 0 {
		return nil, windows.Errno(r)
	}
	return &state, nil
}

// xinputDevice reads an XInput controller slot
type xinputDevice struct {
	index uint32
}

// XInputOpener returns the first connected XInput user slot
func XInputOpener() Opener {
	return func() (Device, error) {
		if err := procXInputGetState.Find(); err != nil {
			return nil, fmt.Errorf("xinput unavailable: %w", err)
		}
		for i := uint32(0); i < xinputMaxUsers; i++ {
			if _, err := xinputGetState(i); err == nil {
				return &xinputDevice{index: i}, nil
			}
		}
		return nil, ErrNoDevice
	}
}

func (d *xinputDevice) Name() string {
	return fmt.Sprintf("XInput controller %d", d.index)
}

func (d *xinputDevice) Read() (Snapshot, error) {
	state, err := xinputGetState(d.index)
	if err != nil {
		return Snapshot{}, err
	}
	return normalizeXInput(state.Gamepad), nil
}

func (d *xinputDevice) Close() {}

func normalizeXInput(pad xinputGamepad) Snapshot {
	snap := Snapshot{Pressed: make(map[Button]bool, len(Buttons))}
	bits := map[Button]uint16{
		ButtonA:         xinputA,
		ButtonB:         xinputB,
		ButtonDPadLeft:  xinputDPadLeft,
		ButtonDPadRight: xinputDPadRight,
	}
	for b, mask := range bits {
		if pad.Buttons&mask != 0 {
			snap.Pressed[b] = true
		}
	}
	snap.LeftX = clampUnit(float64(pad.ThumbLX) / axisRange)
	return snap
}

func platformOpener(backend string, mapping Mapping) (Opener, error) {
	switch backend {
	case "", "auto", "xinput":
		return XInputOpener(), nil
	case "joystick":
		return JoystickOpener(mapping), nil
	default:
		return nil, fmt.Errorf("unknown gamepad backend %q", backend)
	}
}
