//go:build !windows

package gamepad

import "fmt"

func platformOpener(backend string, mapping Mapping) (Opener, error) {
	switch backend {
	case "", "auto", "joystick":
		return JoystickOpener(mapping), nil
	case "xinput":
		return nil, fmt.Errorf("xinput backend is only available on Windows")
	default:
		return nil, fmt.Errorf("unknown gamepad backend %q", backend)
	}
}
