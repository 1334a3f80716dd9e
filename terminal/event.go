package terminal

import (
	"fmt"

	"github.com/lixenwraith/gridterm/graphics"
)

// EventType distinguishes SystemEvent variants
type EventType uint8

const (
	EventNone EventType = iota
	EventAppClose
	EventKeyPressed
	EventKeyModifierChanged
	EventResize
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseDoubleClick
	EventMouseMove
	EventMouseWheel
	EventPaste // bracketed paste text
	EventError // reader failure
)

var eventTypeNames = [...]string{
	EventNone:               "None",
	EventAppClose:           "AppClose",
	EventKeyPressed:         "KeyPressed",
	EventKeyModifierChanged: "KeyModifierChanged",
	EventResize:             "Resize",
	EventMouseButtonDown:    "MouseButtonDown",
	EventMouseButtonUp:      "MouseButtonUp",
	EventMouseDoubleClick:   "MouseDoubleClick",
	EventMouseMove:          "MouseMove",
	EventMouseWheel:         "MouseWheel",
	EventPaste:              "Paste",
	EventError:              "Error",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// SystemEvent is a normalized input or lifecycle event
// Only the fields relevant to Type are set
type SystemEvent struct {
	Type EventType

	// EventKeyPressed
	Key  Key
	Char rune // 0 when the key has no printable character

	// EventKeyModifierChanged
	Modifier    KeyModifier
	OldModifier KeyModifier

	// EventResize
	Size graphics.Size

	// Mouse events, cell coordinates
	X, Y      int
	Button    MouseButton
	Direction MouseWheelDirection

	// EventPaste
	Text string

	// EventError
	Err error
}

// String formats the event for logs and the demo
func (e SystemEvent) String() string {
	switch e.Type {
	case EventKeyPressed:
		if e.Char >= 0x20 {
			return fmt.Sprintf("KeyPressed(%s, %q)", e.Key, e.Char)
		}
		return fmt.Sprintf("KeyPressed(%s)", e.Key)
	case EventKeyModifierChanged:
		return fmt.Sprintf("KeyModifierChanged(%q -> %q)", e.OldModifier.String(), e.Modifier.String())
	case EventResize:
		return fmt.Sprintf("Resize(%dx%d)", e.Size.Width, e.Size.Height)
	case EventMouseButtonDown, EventMouseButtonUp, EventMouseDoubleClick, EventMouseMove:
		return fmt.Sprintf("%s(%d,%d,%s)", e.Type, e.X, e.Y, e.Button)
	case EventMouseWheel:
		return fmt.Sprintf("MouseWheel(%d,%d,%s)", e.X, e.Y, e.Direction)
	case EventPaste:
		return fmt.Sprintf("Paste(%q)", e.Text)
	case EventError:
		return fmt.Sprintf("Error(%v)", e.Err)
	default:
		return e.Type.String()
	}
}

// Constructors keep backend code terse

func keyEvent(k Key, ch rune) SystemEvent {
	return SystemEvent{Type: EventKeyPressed, Key: k, Char: ch}
}

func resizeEvent(w, h int) SystemEvent {
	return SystemEvent{Type: EventResize, Size: graphics.Size{Width: w, Height: h}}
}

func mouseEvent(t EventType, x, y int, b MouseButton) SystemEvent {
	return SystemEvent{Type: t, X: x, Y: y, Button: b}
}

func wheelEvent(x, y int, d MouseWheelDirection) SystemEvent {
	return SystemEvent{Type: EventMouseWheel, X: x, Y: y, Direction: d}
}
