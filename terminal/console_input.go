package terminal

// Win32 console input record constants
const (
	consoleKeyEvent          = 0x0001
	consoleMouseEvent        = 0x0002
	consoleWindowBufferEvent = 0x0004

	rightAltPressed  = 0x0001
	leftAltPressed   = 0x0002
	rightCtrlPressed = 0x0004
	leftCtrlPressed  = 0x0008
	shiftPressed     = 0x0010

	fromLeft1stButtonPressed = 0x0001
	rightmostButtonPressed   = 0x0002

	mouseMoved    = 0x0001
	doubleClick   = 0x0002
	mouseWheeled  = 0x0004
	mouseHWheeled = 0x0008

	enableWindowInput   = 0x0008
	enableMouseInput    = 0x0010
	enableExtendedFlags = 0x0080
)

// keyEventRecord has the layout of KEY_EVENT_RECORD
type keyEventRecord struct {
	KeyDown         int32
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	UnicodeChar     uint16
	ControlKeyState uint32
}

// mouseEventRecord has the layout of MOUSE_EVENT_RECORD
type mouseEventRecord struct {
	X, Y            int16
	ButtonState     uint32
	ControlKeyState uint32
	EventFlags      uint32
}

// smallRect has the layout of SMALL_RECT
type smallRect struct {
	Left, Top, Right, Bottom int16
}

// virtualKeyCode translates a Win32 virtual key to a KeyCode
func virtualKeyCode(vk uint16) KeyCode {
	switch {
	case vk >= '0' && vk <= '9':
		return KeyN0 + KeyCode(vk-'0')
	case vk >= 'A' && vk <= 'Z':
		return KeyA + KeyCode(vk-'A')
	case vk >= 0x70 && vk <= 0x7B:
		return KeyF1 + KeyCode(vk-0x70)
	}
	switch vk {
	case 0x08:
		return KeyBackspace
	case 0x09:
		return KeyTab
	case 0x0D:
		return KeyEnter
	case 0x1B:
		return KeyEscape
	case 0x20:
		return KeySpace
	case 0x21:
		return KeyPageUp
	case 0x22:
		return KeyPageDown
	case 0x23:
		return KeyEnd
	case 0x24:
		return KeyHome
	case 0x25:
		return KeyLeft
	case 0x26:
		return KeyUp
	case 0x27:
		return KeyRight
	case 0x28:
		return KeyDown
	case 0x2D:
		return KeyInsert
	case 0x2E:
		return KeyDelete
	}
	return KeyNone
}

// consoleDecoder converts console input records, keeping modifier and mouse state between records
type consoleDecoder struct {
	modifier KeyModifier
	lastX    int
	lastY    int
	hasLast  bool
	visible  smallRect
}

// decodeKey handles a KEY_EVENT record
// Key releases are ignored, a record with neither code nor character reports a modifier change
func (d *consoleDecoder) decodeKey(rec keyEventRecord) (SystemEvent, bool) {
	var ch rune
	if rec.UnicodeChar >= 32 && rec.KeyDown != 0 {
		ch = rune(rec.UnicodeChar)
	}
	code := virtualKeyCode(rec.VirtualKeyCode)

	var mod KeyModifier
	if rec.ControlKeyState&(leftAltPressed|rightAltPressed) != 0 {
		mod |= ModAlt
	}
	if rec.ControlKeyState&(leftCtrlPressed|rightCtrlPressed) != 0 {
		mod |= ModCtrl
	}
	if rec.ControlKeyState&shiftPressed != 0 {
		mod |= ModShift
	}
	if mod&(ModAlt|ModCtrl) != 0 {
		ch = 0
	}

	if code != KeyNone || ch != 0 {
		if rec.KeyDown == 0 {
			return SystemEvent{}, false
		}
		return keyEvent(Key{Code: code, Modifier: mod}, ch), true
	}

	if d.modifier == mod {
		return SystemEvent{}, false
	}
	old := d.modifier
	d.modifier = mod
	return SystemEvent{Type: EventKeyModifierChanged, Modifier: mod, OldModifier: old}, true
}

// decodeMouse handles a MOUSE_EVENT record, coordinates are made relative to the visible window
func (d *consoleDecoder) decodeMouse(rec mouseEventRecord) (SystemEvent, bool) {
	x := int(rec.X) - int(d.visible.Left)
	y := int(rec.Y) - int(d.visible.Top)

	if rec.EventFlags == mouseMoved {
		if d.hasLast && x == d.lastX && y == d.lastY {
			return SystemEvent{}, false
		}
		d.lastX, d.lastY, d.hasLast = x, y, true
	}

	var button MouseButton
	switch {
	case rec.ButtonState&fromLeft1stButtonPressed != 0:
		button = MouseButtonLeft
	case rec.ButtonState&rightmostButtonPressed != 0:
		button = MouseButtonRight
	case rec.ButtonState > 0:
		button = MouseButtonCenter
	}

	// The wheel delta is the signed high word of ButtonState
	negative := rec.ButtonState >= 0x80000000

	switch rec.EventFlags {
	case 0:
		if rec.ButtonState != 0 {
			return mouseEvent(EventMouseButtonDown, x, y, button), true
		}
		return mouseEvent(EventMouseButtonUp, x, y, button), true
	case doubleClick:
		return mouseEvent(EventMouseDoubleClick, x, y, button), true
	case mouseMoved:
		return mouseEvent(EventMouseMove, x, y, button), true
	case mouseHWheeled:
		if negative {
			return wheelEvent(x, y, WheelLeft), true
		}
		return wheelEvent(x, y, WheelRight), true
	case mouseWheeled:
		if negative {
			return wheelEvent(x, y, WheelDown), true
		}
		return wheelEvent(x, y, WheelUp), true
	}
	return SystemEvent{}, false
}

// decodeResize adopts a new visible window and reports its size
func (d *consoleDecoder) decodeResize(window smallRect) SystemEvent {
	d.visible = window
	return resizeEvent(int(window.Right)-int(window.Left)+1, int(window.Bottom)-int(window.Top)+1)
}
