package terminal

import (
	"math/bits"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/graphics"
)

func TestAnsiCursorPosition(t *testing.T) {
	f := NewAnsiFormatter(64, false)
	f.SetCursorPosition(35, 14)
	assert.Equal(t, "\x1b[15;36H", f.Text())

	f.Clear()
	f.SetCursorPosition(-2, -3)
	assert.Equal(t, "\x1b[-2;-1H", f.Text())

	f.Clear()
	f.SetCursorPosition(1234, 0)
	assert.Equal(t, "\x1b[1;1235H", f.Text())
}

func TestAnsiColors(t *testing.T) {
	f := NewAnsiFormatter(64, false)
	f.SetColor(graphics.Silver, graphics.DarkRed)
	assert.Equal(t, "\x1b[38;2;196;196;196m\x1b[48;2;128;0;0m", f.Text())

	f.Clear()
	f.SetForegroundColor(graphics.Transparent)
	assert.Equal(t, "\x1b[38;2;0;0;0m", f.Text())
}

// allColors is every Color value including Transparent
func allColors() []graphics.Color {
	colors := make([]graphics.Color, 0, graphics.PaletteSize+1)
	for c := graphics.Black; c <= graphics.Transparent; c++ {
		colors = append(colors, c)
	}
	return colors
}

func TestAnsiColorCallsAreIndependent(t *testing.T) {
	setters := map[string]func(*AnsiFormatter, graphics.Color){
		"foreground": (*AnsiFormatter).SetForegroundColor,
		"background": (*AnsiFormatter).SetBackgroundColor,
	}
	for _, schema := range []bool{false, true} {
		for name, set := range setters {
			single := func(c graphics.Color) string {
				f := NewAnsiFormatter(32, schema)
				set(f, c)
				return f.Text()
			}
			for _, c1 := range allColors() {
				for _, c2 := range allColors() {
					f := NewAnsiFormatter(64, schema)
					set(f, c1)
					set(f, c2)
					require.Equal(t, single(c1)+single(c2), f.Text(), "%s schema=%v %s then %s", name, schema, c1, c2)
				}
			}
		}
	}
}

func TestAnsiCharFlagCallsAreIndependent(t *testing.T) {
	const flagSets = 1 << 7
	single := func(flags, old graphics.CharFlags) string {
		f := NewAnsiFormatter(64, false)
		f.UpdateCharFlags(flags, old)
		return f.Text()
	}
	for a := graphics.CharFlags(0); a < flagSets; a++ {
		for b := graphics.CharFlags(0); b < flagSets; b++ {
			f := NewAnsiFormatter(128, false)
			f.UpdateCharFlags(a, graphics.NoFlags)
			f.UpdateCharFlags(b, a)
			require.Equal(t, single(a, graphics.NoFlags)+single(b, a), f.Text(), "flags %s then %s", a, b)
			require.Equal(t, bits.OnesCount16(uint16(a^b)), strings.Count(single(b, a), "\x1b["), "transition %s -> %s", a, b)
		}
	}
}

func TestAnsiColorSchema(t *testing.T) {
	f := NewAnsiFormatter(64, true)
	f.SetColor(graphics.Yellow, graphics.DarkBlue)
	assert.Equal(t, "\x1b[93m\x1b[44m", f.Text())

	f.Clear()
	f.SetColor(graphics.Transparent, graphics.Transparent)
	assert.Empty(t, f.Text())
}

func TestAnsiModes(t *testing.T) {
	f := NewAnsiFormatter(64, false)
	f.EnableMouseEvents()
	assert.Equal(t, "\x1b[?1000h\x1b[?1002h\x1b[?1003h\x1b[?1006h", f.Text())

	f.Clear()
	f.DisableMouseEvents()
	assert.Equal(t, "\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l", f.Text())

	f.Clear()
	f.ResetScreen()
	f.HideCursor()
	f.ShowCursor()
	assert.Equal(t, "\x1b[0m\x1b[2J\x1b[3J\x1b[H\x1b[?25l\x1b[?25h", f.Text())
}

func TestAnsiWriteChar(t *testing.T) {
	f := NewAnsiFormatter(8, false)
	f.WriteChar('a')
	f.WriteChar('\t')
	f.WriteChar('é')
	assert.Equal(t, "a é", f.Text())
}

func TestAnsiCharFlags(t *testing.T) {
	f := NewAnsiFormatter(64, false)
	f.UpdateCharFlags(graphics.Bold|graphics.Underline, graphics.Bold)
	assert.Equal(t, "\x1b[4m", f.Text())

	f.Clear()
	f.UpdateCharFlags(graphics.Italic, graphics.Bold|graphics.Italic)
	assert.Equal(t, "\x1b[22m", f.Text())

	f.Clear()
	f.UpdateCharFlags(graphics.CurlyUnderline|graphics.StrikeThrough, graphics.NoFlags)
	assert.Equal(t, "\x1b[9m\x1b[4:3m", f.Text())

	f.Clear()
	f.UpdateCharFlags(graphics.Bold, graphics.Bold)
	assert.Empty(t, f.Text())

	f.Clear()
	f.SetCharFlags(graphics.Bold)
	assert.Equal(t, "\x1b[1m\x1b[23m\x1b[24m\x1b[29m\x1b[24m\x1b[24m\x1b[24m", f.Text())
}

func TestAnsiRenderHello(t *testing.T) {
	s := graphics.NewSurface(5, 1)
	s.WriteString(0, 0, "Hello", graphics.AttributeWithColor(graphics.Red, graphics.Blue), false)

	f := NewAnsiFormatter(256, false)
	f.Render(s, graphics.Point{})
	assert.Equal(t,
		"\x1b[0m\x1b[?25l\x1b[1;1H\x1b[38;2;255;0;0m\x1b[48;2;0;0;255mHello\x1b[?25l",
		f.Text())
	assert.Equal(t, "Hello", ansi.Strip(f.Text()))
}

func TestAnsiRenderCursorAndFlags(t *testing.T) {
	s := graphics.NewSurface(5, 1)
	s.WriteString(0, 0, "Hello", graphics.AttributeWithColor(graphics.Red, graphics.Blue), false)
	s.WriteString(2, 0, "ll", graphics.NewAttribute(graphics.Pink, graphics.DarkGreen, graphics.Bold), false)
	s.SetCursor(2, 0)

	f := NewAnsiFormatter(256, false)
	f.Render(s, graphics.Point{})
	assert.Equal(t,
		"\x1b[0m\x1b[?25l\x1b[1;1H\x1b[38;2;255;0;0m\x1b[48;2;0;0;255mHe"+
			"\x1b[38;2;255;0;255m\x1b[48;2;0;128;0m\x1b[1mll"+
			"\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m\x1b[22mo"+
			"\x1b[1;3H\x1b[?25h",
		f.Text())
}

func TestAnsiRenderRows(t *testing.T) {
	s := graphics.NewSurface(2, 2)
	s.Clear(graphics.NewCharacter('x', graphics.White, graphics.Black, graphics.NoFlags))

	f := NewAnsiFormatter(256, false)
	f.Render(s, graphics.Point{X: 0, Y: 3})
	assert.Equal(t,
		"\x1b[0m\x1b[?25l\x1b[4;1H\x1b[38;2;255;255;255m\x1b[48;2;0;0;0mxx\x1b[5;1Hxx\x1b[?25l",
		f.Text())
}

func TestAnsiRenderWideGlyph(t *testing.T) {
	s := graphics.NewSurface(3, 1)
	s.Clear(graphics.NewCharacter('.', graphics.White, graphics.Black, graphics.NoFlags))
	s.Set(0, 0, graphics.WithChar('世'))

	f := NewAnsiFormatter(256, false)
	f.Render(s, graphics.Point{})
	assert.Equal(t,
		"\x1b[0m\x1b[?25l\x1b[1;1H\x1b[38;2;255;255;255m\x1b[48;2;0;0;0m  \x1b[1;1H世\x1b[1;3H.\x1b[?25l",
		f.Text())
	assert.Equal(t, "  世.", ansi.Strip(f.Text()))
}

func TestAnsiRenderReusesBuffer(t *testing.T) {
	s := graphics.NewSurface(4, 1)
	f := NewAnsiFormatter(0, false)
	f.Render(s, graphics.Point{})
	first := f.Text()
	f.Render(s, graphics.Point{})
	assert.Equal(t, first, f.Text())
}
