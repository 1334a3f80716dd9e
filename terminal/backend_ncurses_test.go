//go:build !js

package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/graphics"
)

func newSimBackend(t *testing.T, w, h int) (*ncursesBackend, tcell.SimulationScreen, chan SystemEvent) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	events := make(chan SystemEvent, 1)
	cfg := Config{Clipboard: &MemoryClipboard{}, Logger: discardLogger()}
	b, err := newNcursesWithScreen(sim, cfg, events, discardLogger())
	require.NoError(t, err)
	sim.SetSize(w, h)
	b.OnResize(graphics.Size{Width: w, Height: h})
	t.Cleanup(func() { b.Close() })
	return b, sim, events
}

func nextEvent(t *testing.T, events <-chan SystemEvent) SystemEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return SystemEvent{}
	}
}

// nextNonResize skips resize notifications caused by SetSize
func nextNonResize(t *testing.T, events <-chan SystemEvent) SystemEvent {
	t.Helper()
	for {
		ev := nextEvent(t, events)
		if ev.Type != EventResize {
			return ev
		}
	}
}

func TestNcursesUpdateScreen(t *testing.T) {
	b, sim, _ := newSimBackend(t, 6, 2)

	s := graphics.NewSurface(6, 2)
	s.WriteString(0, 0, "Hi", graphics.NewAttribute(graphics.Yellow, graphics.DarkBlue, graphics.Bold), false)
	s.Set(0, 1, graphics.WithChar('世'))
	s.SetCursor(3, 1)
	b.UpdateScreen(s)

	cells, w, h := sim.GetContents()
	require.Equal(t, 6, w)
	require.Equal(t, 2, h)
	assert.Equal(t, []rune{'H'}, cells[0].Runes)
	assert.Equal(t, []rune{'i'}, cells[1].Runes)
	assert.Equal(t, []rune{'世'}, cells[6].Runes)

	fg, bg, attr := cells[0].Style.Decompose()
	assert.Equal(t, tcell.PaletteColor(11), fg)
	assert.Equal(t, tcell.PaletteColor(4), bg)
	assert.NotZero(t, attr&tcell.AttrBold)

	x, y, visible := sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
}

func TestNcursesSizeMismatchPanics(t *testing.T) {
	b, _, _ := newSimBackend(t, 6, 2)
	assert.Panics(t, func() { b.UpdateScreen(graphics.NewSurface(5, 2)) })
}

func TestNcursesKeyEvents(t *testing.T) {
	_, sim, events := newSimBackend(t, 10, 5)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	ev := nextNonResize(t, events)
	assert.Equal(t, keyEvent(Key{Code: KeyQ}, 'q'), ev)

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModAlt)
	ev = nextNonResize(t, events)
	assert.Equal(t, keyEvent(Key{Code: KeyX, Modifier: ModAlt}, 0), ev)

	sim.InjectKey(tcell.KeyF5, 0, tcell.ModCtrl)
	ev = nextNonResize(t, events)
	assert.Equal(t, "Ctrl+F5", ev.Key.String())

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	ev = nextNonResize(t, events)
	assert.Equal(t, "Ctrl+C", ev.Key.String())
}

func TestNcursesMouseEvents(t *testing.T) {
	_, sim, events := newSimBackend(t, 10, 5)

	sim.InjectMouse(2, 3, tcell.Button1, tcell.ModNone)
	assert.Equal(t, mouseEvent(EventMouseButtonDown, 2, 3, MouseButtonLeft), nextNonResize(t, events))

	sim.InjectMouse(4, 3, tcell.Button1, tcell.ModNone)
	assert.Equal(t, mouseEvent(EventMouseMove, 4, 3, MouseButtonLeft), nextNonResize(t, events))

	sim.InjectMouse(4, 3, tcell.ButtonNone, tcell.ModNone)
	assert.Equal(t, mouseEvent(EventMouseButtonUp, 4, 3, MouseButtonLeft), nextNonResize(t, events))

	sim.InjectMouse(4, 3, tcell.WheelDown, tcell.ModNone)
	assert.Equal(t, wheelEvent(4, 3, WheelDown), nextNonResize(t, events))
}

func TestTcellConverterPaste(t *testing.T) {
	c := tcellConverter{now: time.Now}
	assert.Empty(t, c.convert(tcell.NewEventPaste(true)))
	assert.Empty(t, c.convert(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.Empty(t, c.convert(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Empty(t, c.convert(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone)))
	out := c.convert(tcell.NewEventPaste(false))
	require.Len(t, out, 1)
	assert.Equal(t, SystemEvent{Type: EventPaste, Text: "a\nb"}, out[0])
}

func TestColorPairsStyle(t *testing.T) {
	p := newColorPairs()
	st := p.style(graphics.NewCharacter('x', graphics.Transparent, graphics.Transparent, graphics.Underline))
	fg, bg, _ := st.Decompose()
	assert.Equal(t, tcell.PaletteColor(15), fg)
	assert.Equal(t, tcell.PaletteColor(0), bg)
}
