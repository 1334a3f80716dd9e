package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleDecoderKeys(t *testing.T) {
	var d consoleDecoder

	ev, ok := d.decodeKey(keyEventRecord{KeyDown: 1, VirtualKeyCode: 'A', UnicodeChar: 'a'})
	require.True(t, ok)
	assert.Equal(t, keyEvent(Key{Code: KeyA}, 'a'), ev)

	_, ok = d.decodeKey(keyEventRecord{KeyDown: 0, VirtualKeyCode: 'A', UnicodeChar: 'a'})
	assert.False(t, ok)

	ev, ok = d.decodeKey(keyEventRecord{KeyDown: 1, VirtualKeyCode: 'C', UnicodeChar: 3, ControlKeyState: leftCtrlPressed})
	require.True(t, ok)
	assert.Equal(t, keyEvent(Key{Code: KeyC, Modifier: ModCtrl}, 0), ev)

	ev, ok = d.decodeKey(keyEventRecord{KeyDown: 1, VirtualKeyCode: 'X', UnicodeChar: 'x', ControlKeyState: rightAltPressed})
	require.True(t, ok)
	assert.Equal(t, rune(0), ev.Char)
	assert.Equal(t, "Alt+X", ev.Key.String())

	ev, ok = d.decodeKey(keyEventRecord{KeyDown: 1, VirtualKeyCode: 0x70})
	require.True(t, ok)
	assert.Equal(t, keyEvent(Key{Code: KeyF1}, 0), ev)
}

func TestConsoleDecoderModifierChange(t *testing.T) {
	var d consoleDecoder

	// VK_SHIFT carries no key code
	ev, ok := d.decodeKey(keyEventRecord{KeyDown: 1, VirtualKeyCode: 0x10, ControlKeyState: shiftPressed})
	require.True(t, ok)
	assert.Equal(t, SystemEvent{Type: EventKeyModifierChanged, Modifier: ModShift, OldModifier: ModNone}, ev)

	_, ok = d.decodeKey(keyEventRecord{KeyDown: 1, VirtualKeyCode: 0x10, ControlKeyState: shiftPressed})
	assert.False(t, ok)

	ev, ok = d.decodeKey(keyEventRecord{KeyDown: 0, VirtualKeyCode: 0x10})
	require.True(t, ok)
	assert.Equal(t, SystemEvent{Type: EventKeyModifierChanged, Modifier: ModNone, OldModifier: ModShift}, ev)
}

func TestConsoleDecoderMouse(t *testing.T) {
	d := consoleDecoder{visible: smallRect{Left: 2, Top: 10, Right: 81, Bottom: 34}}

	ev, ok := d.decodeMouse(mouseEventRecord{X: 5, Y: 12, ButtonState: fromLeft1stButtonPressed})
	require.True(t, ok)
	assert.Equal(t, mouseEvent(EventMouseButtonDown, 3, 2, MouseButtonLeft), ev)

	ev, ok = d.decodeMouse(mouseEventRecord{X: 5, Y: 12})
	require.True(t, ok)
	assert.Equal(t, mouseEvent(EventMouseButtonUp, 3, 2, MouseButtonNone), ev)

	ev, ok = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, ButtonState: 0x4, EventFlags: mouseMoved})
	require.True(t, ok)
	assert.Equal(t, mouseEvent(EventMouseMove, 4, 2, MouseButtonCenter), ev)

	_, ok = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, EventFlags: mouseMoved})
	assert.False(t, ok)

	ev, ok = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, ButtonState: rightmostButtonPressed, EventFlags: doubleClick})
	require.True(t, ok)
	assert.Equal(t, mouseEvent(EventMouseDoubleClick, 4, 2, MouseButtonRight), ev)

	ev, _ = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, ButtonState: 0xFF880000, EventFlags: mouseWheeled})
	assert.Equal(t, wheelEvent(4, 2, WheelDown), ev)
	ev, _ = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, ButtonState: 0x00780000, EventFlags: mouseWheeled})
	assert.Equal(t, wheelEvent(4, 2, WheelUp), ev)
	ev, _ = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, ButtonState: 0xFF880000, EventFlags: mouseHWheeled})
	assert.Equal(t, wheelEvent(4, 2, WheelLeft), ev)
	ev, _ = d.decodeMouse(mouseEventRecord{X: 6, Y: 12, ButtonState: 0x00780000, EventFlags: mouseHWheeled})
	assert.Equal(t, wheelEvent(4, 2, WheelRight), ev)
}

func TestConsoleDecoderResize(t *testing.T) {
	var d consoleDecoder
	ev := d.decodeResize(smallRect{Left: 0, Top: 5, Right: 119, Bottom: 34})
	assert.Equal(t, resizeEvent(120, 30), ev)
	assert.Equal(t, int16(5), d.visible.Top)
}
