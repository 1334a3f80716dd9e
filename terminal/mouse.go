package terminal

import "strings"

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonCenter
)

// MouseWheelDirection is the direction of one wheel notch
type MouseWheelDirection uint8

const (
	WheelNone MouseWheelDirection = iota
	WheelLeft
	WheelRight
	WheelUp
	WheelDown
)

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "Left"
	case MouseButtonRight:
		return "Right"
	case MouseButtonCenter:
		return "Center"
	default:
		return "None"
	}
}

// String returns human-readable direction name
func (d MouseWheelDirection) String() string {
	switch d {
	case WheelLeft:
		return "Left"
	case WheelRight:
		return "Right"
	case WheelUp:
		return "Up"
	case WheelDown:
		return "Down"
	default:
		return "None"
	}
}

// ParseMouseButton accepts the names produced by MouseButton.String, case-insensitive
func ParseMouseButton(s string) (MouseButton, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return MouseButtonLeft, true
	case "right":
		return MouseButtonRight, true
	case "center", "middle":
		return MouseButtonCenter, true
	case "none":
		return MouseButtonNone, true
	}
	return MouseButtonNone, false
}

// ParseWheelDirection accepts the names produced by MouseWheelDirection.String, case-insensitive
func ParseWheelDirection(s string) (MouseWheelDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return WheelLeft, true
	case "right":
		return WheelRight, true
	case "up":
		return WheelUp, true
	case "down":
		return WheelDown, true
	}
	return WheelNone, false
}
