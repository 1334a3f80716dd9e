package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/graphics"
	"github.com/lixenwraith/gridterm/terminal"
)

type fakeClipboard struct {
	text string
	set  bool
}

func (c *fakeClipboard) ClipboardText() (string, bool) { return c.text, c.set }
func (c *fakeClipboard) SetClipboardText(text string) {
	c.text = text
	c.set = text != ""
}

func mouse(t terminal.EventType, x, y int) terminal.SystemEvent {
	return terminal.SystemEvent{Type: t, X: x, Y: y, Button: terminal.MouseButtonLeft}
}

func key(code terminal.KeyCode, mod terminal.KeyModifier) terminal.SystemEvent {
	return terminal.SystemEvent{Type: terminal.EventKeyPressed, Key: terminal.NewKey(code, mod)}
}

func row(s *graphics.Surface, y int) []rune {
	return []rune(s.Lines()[y])
}

func TestDemoInitialFrame(t *testing.T) {
	s := graphics.NewSurface(40, 12)
	d := newDemo(&fakeClipboard{})
	require.True(t, d.handle(terminal.SystemEvent{Type: terminal.EventNone}, s))

	assert.Equal(t, "[X]", string(row(s, 6)[20:23]))
	assert.Equal(t, " 40x12 | Marker: (20,6) | Drag: false   ", s.Lines()[11])
	assert.Equal(t, strings.Repeat("─", 40), s.Lines()[1])
	assert.False(t, s.Cursor().Visible())
}

func TestDemoDragMarker(t *testing.T) {
	s := graphics.NewSurface(40, 12)
	d := newDemo(&fakeClipboard{})
	d.handle(terminal.SystemEvent{Type: terminal.EventNone}, s)

	d.handle(mouse(terminal.EventMouseButtonDown, 21, 6), s)
	assert.True(t, d.dragging)
	d.handle(mouse(terminal.EventMouseMove, 10, 3), s)
	assert.Contains(t, s.Lines()[11], "Drag: true")
	d.handle(mouse(terminal.EventMouseButtonUp, 10, 3), s)

	assert.False(t, d.dragging)
	assert.Equal(t, graphics.Point{X: 10, Y: 3}, d.marker)
	assert.Equal(t, "[X]", string(row(s, 3)[10:13]))
}

func TestDemoDragClampsToScreen(t *testing.T) {
	s := graphics.NewSurface(40, 12)
	d := newDemo(&fakeClipboard{})
	d.handle(terminal.SystemEvent{Type: terminal.EventNone}, s)
	d.handle(mouse(terminal.EventMouseButtonDown, 20, 6), s)
	d.handle(mouse(terminal.EventMouseMove, 39, 20), s)
	assert.Equal(t, graphics.Point{X: 37, Y: 11}, d.marker)
}

func TestDemoPressOutsideMarkerDoesNotDrag(t *testing.T) {
	s := graphics.NewSurface(40, 12)
	d := newDemo(&fakeClipboard{})
	d.handle(terminal.SystemEvent{Type: terminal.EventNone}, s)
	d.handle(mouse(terminal.EventMouseButtonDown, 2, 2), s)
	d.handle(mouse(terminal.EventMouseMove, 5, 5), s)
	assert.Equal(t, graphics.Point{X: 20, Y: 6}, d.marker)
}

func TestDemoClipboard(t *testing.T) {
	s := graphics.NewSurface(60, 14)
	clip := &fakeClipboard{}
	d := newDemo(clip)

	d.handle(key(terminal.KeyV, terminal.ModCtrl), s)
	assert.Equal(t, "CLIPBOARD: empty", d.lastLog())

	d.handle(terminal.SystemEvent{Type: terminal.EventResize, Size: graphics.Size{Width: 60, Height: 14}}, s)
	d.handle(key(terminal.KeyY, terminal.ModCtrl), s)
	assert.Equal(t, "RESIZE: 60x14", clip.text)

	d.handle(key(terminal.KeyV, terminal.ModCtrl), s)
	assert.Equal(t, `CLIPBOARD: "RESIZE: 60x14"`, d.lastLog())
	assert.Contains(t, s.Lines()[2+len(d.log)-1], `CLIPBOARD: "RESIZE: 60x14"`)
}

func TestDemoLogIsBounded(t *testing.T) {
	s := graphics.NewSurface(40, 20)
	d := newDemo(&fakeClipboard{})
	for i := 0; i < demoLogSize+5; i++ {
		d.handle(key(terminal.KeyA, terminal.ModNone), s)
	}
	assert.Len(t, d.log, demoLogSize)
}

func TestDemoQuitKeys(t *testing.T) {
	s := graphics.NewSurface(40, 12)
	d := newDemo(&fakeClipboard{})
	assert.False(t, d.handle(key(terminal.KeyC, terminal.ModCtrl), s))
	assert.False(t, d.handle(key(terminal.KeyQ, terminal.ModCtrl), s))
	assert.False(t, d.handle(terminal.SystemEvent{Type: terminal.EventAppClose}, s))
	assert.True(t, d.handle(key(terminal.KeyQ, terminal.ModNone), s))
}
