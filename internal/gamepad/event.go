package gamepad

// Button is a normalized controller button name as seen by the UI
type Button string

const (
	ButtonA         Button = "A"
	ButtonB         Button = "B"
	ButtonDPadLeft  Button = "DPAD_LEFT"
	ButtonDPadRight Button = "DPAD_RIGHT"
)

// Buttons lists the forwarded buttons in a stable order
var Buttons = []Button{ButtonA, ButtonB, ButtonDPadLeft, ButtonDPadRight}

// AxisLeftX is the only forwarded axis
const AxisLeftX = "left_x"

// EventName is the frontend event carrying every payload below
const EventName = "gamepad-event"

// ButtonEvent reports a press or release
type ButtonEvent struct {
	Type   string `json:"type"` // "button"
	Button Button `json:"button"`
	State  string `json:"state"` // "pressed" or "released"
}

// AxisEvent reports a change of the quantized stick direction
type AxisEvent struct {
	Type      string `json:"type"` // "axis"
	Axis      string `json:"axis"`
	Direction int    `json:"direction"` // -1, 0 or 1
}

// ConnectionEvent reports a controller appearing or disappearing
type ConnectionEvent struct {
	Type  string `json:"type"` // "connection"
	State string `json:"state"`
	Name  string `json:"name,omitempty"`
}

// Emitter forwards a payload to the UI
type Emitter func(payload any)

func buttonEvent(b Button, pressed bool) ButtonEvent {
	state := "released"
	if pressed {
		state = "pressed"
	}
	return ButtonEvent{Type: "button", Button: b, State: state}
}

func axisEvent(direction int) AxisEvent {
	return AxisEvent{Type: "axis", Axis: AxisLeftX, Direction: direction}
}

// Direction quantizes a normalized axis value against threshold
func Direction(value, threshold float64) int {
	switch {
	case value > threshold:
		return 1
	case value < -threshold:
		return -1
	default:
		return 0
	}
}
