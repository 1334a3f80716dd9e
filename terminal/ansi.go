// @focus: #terminal { ansi }
package terminal

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/gridterm/graphics"
)

// Pre-allocated ANSI sequence fragments
const (
	csiReset       = "\x1b[0m"
	csiResetScreen = "\x1b[0m\x1b[2J\x1b[3J\x1b[H"
	csiRIS         = "\x1bc" // Reset to Initial State (emergency)

	// Cursor control
	csiCursorHide = "\x1b[?25l"
	csiCursorShow = "\x1b[?25h"

	// Screen modes
	csiAltScreenEnter = "\x1b[?1049h"
	csiAltScreenExit  = "\x1b[?1049l"
	// DECAWM: ?7l keeps the cursor at the right edge so the bottom-right cell never scrolls
	csiAutoWrapOn  = "\x1b[?7h"
	csiAutoWrapOff = "\x1b[?7l"

	// Mouse: click, drag, any motion, SGR extended coordinates
	csiMouseOn  = "\x1b[?1000h\x1b[?1002h\x1b[?1003h\x1b[?1006h"
	csiMouseOff = "\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l"

	csiPasteOn  = "\x1b[?2004h"
	csiPasteOff = "\x1b[?2004l"

	// Color prefixes, followed by R;G;Bm
	csiFgRGB = "\x1b[38;2;"
	csiBgRGB = "\x1b[48;2;"
)

// ansiRGB is the truecolor triple emitted for each color
var ansiRGB = [...]string{
	graphics.Black:       "0;0;0",
	graphics.DarkBlue:    "0;0;128",
	graphics.DarkGreen:   "0;128;0",
	graphics.Teal:        "0;128;128",
	graphics.DarkRed:     "128;0;0",
	graphics.Magenta:     "128;0;128",
	graphics.Olive:       "128;128;0",
	graphics.Silver:      "196;196;196",
	graphics.Gray:        "128;128;128",
	graphics.Blue:        "0;0;255",
	graphics.Green:       "0;255;0",
	graphics.Aqua:        "0;255;255",
	graphics.Red:         "255;0;0",
	graphics.Pink:        "255;0;255",
	graphics.Yellow:      "255;255;0",
	graphics.White:       "255;255;255",
	graphics.Transparent: "0;0;0",
}

// ansiFg16 is the SGR foreground code per color, background adds 10
var ansiFg16 = [graphics.PaletteSize]int{
	graphics.Black:     30,
	graphics.DarkBlue:  34,
	graphics.DarkGreen: 32,
	graphics.Teal:      36,
	graphics.DarkRed:   31,
	graphics.Magenta:   35,
	graphics.Olive:     33,
	graphics.Silver:    37,
	graphics.Gray:      90,
	graphics.Blue:      94,
	graphics.Green:     92,
	graphics.Aqua:      96,
	graphics.Red:       91,
	graphics.Pink:      95,
	graphics.Yellow:    93,
	graphics.White:     97,
}

// flagSequences lists set/reset sequences in emission order
var flagSequences = [...]struct {
	flag       graphics.CharFlags
	set, reset string
}{
	{graphics.Bold, "\x1b[1m", "\x1b[22m"},
	{graphics.Italic, "\x1b[3m", "\x1b[23m"},
	{graphics.Underline, "\x1b[4m", "\x1b[24m"},
	{graphics.StrikeThrough, "\x1b[9m", "\x1b[29m"},
	{graphics.DoubleUnderline, "\x1b[21m", "\x1b[24m"},
	{graphics.DottedUnderline, "\x1b[4:4m", "\x1b[24m"},
	{graphics.CurlyUnderline, "\x1b[4:3m", "\x1b[24m"},
}

// AnsiFormatter accumulates escape sequences for one frame
// The zero value is ready to use with truecolor output
type AnsiFormatter struct {
	buf         []byte
	colorSchema bool
}

// NewAnsiFormatter preallocates capacity bytes
// useColorSchema selects 16-color SGR codes instead of truecolor
func NewAnsiFormatter(capacity int, useColorSchema bool) *AnsiFormatter {
	return &AnsiFormatter{
		buf:         make([]byte, 0, capacity),
		colorSchema: useColorSchema,
	}
}

func (f *AnsiFormatter) Text() string {
	return string(f.buf)
}

// Bytes returns the internal buffer, valid until the next write
func (f *AnsiFormatter) Bytes() []byte {
	return f.buf
}

func (f *AnsiFormatter) Len() int {
	return len(f.buf)
}

// Clear empties the buffer, keeping its capacity
func (f *AnsiFormatter) Clear() {
	f.buf = f.buf[:0]
}

func (f *AnsiFormatter) WriteString(s string) {
	f.buf = append(f.buf, s...)
}

// WriteChar appends a glyph, control characters become a space
func (f *AnsiFormatter) WriteChar(r rune) {
	if r < 0x20 {
		f.buf = append(f.buf, ' ')
		return
	}
	f.buf = utf8.AppendRune(f.buf, r)
}

func (f *AnsiFormatter) EnableMouseEvents()  { f.WriteString(csiMouseOn) }
func (f *AnsiFormatter) DisableMouseEvents() { f.WriteString(csiMouseOff) }
func (f *AnsiFormatter) HideCursor()         { f.WriteString(csiCursorHide) }
func (f *AnsiFormatter) ShowCursor()         { f.WriteString(csiCursorShow) }
func (f *AnsiFormatter) ResetColor()         { f.WriteString(csiReset) }

// ResetScreen resets attributes, clears screen and scrollback, homes the cursor
func (f *AnsiFormatter) ResetScreen() { f.WriteString(csiResetScreen) }

// SetCursorPosition moves to the 0-indexed cell (x, y)
func (f *AnsiFormatter) SetCursorPosition(x, y int) {
	f.buf = append(f.buf, "\x1b["...)
	f.writeInt(y + 1)
	f.buf = append(f.buf, ';')
	f.writeInt(x + 1)
	f.buf = append(f.buf, 'H')
}

func (f *AnsiFormatter) SetForegroundColor(c graphics.Color) {
	f.writeColor(c, csiFgRGB, 0)
}

func (f *AnsiFormatter) SetBackgroundColor(c graphics.Color) {
	f.writeColor(c, csiBgRGB, 10)
}

func (f *AnsiFormatter) SetColor(fg, bg graphics.Color) {
	f.SetForegroundColor(fg)
	f.SetBackgroundColor(bg)
}

func (f *AnsiFormatter) writeColor(c graphics.Color, rgbPrefix string, offset16 int) {
	if f.colorSchema {
		if c >= graphics.PaletteSize {
			return
		}
		f.buf = append(f.buf, "\x1b["...)
		f.writeInt(ansiFg16[c] + offset16)
		f.buf = append(f.buf, 'm')
		return
	}
	if int(c) >= len(ansiRGB) {
		c = graphics.Transparent
	}
	f.buf = append(f.buf, rgbPrefix...)
	f.buf = append(f.buf, ansiRGB[c]...)
	f.buf = append(f.buf, 'm')
}

// UpdateCharFlags emits only the flags that differ from old
func (f *AnsiFormatter) UpdateCharFlags(flags, old graphics.CharFlags) {
	changed := flags ^ old
	if changed == 0 {
		return
	}
	for _, s := range flagSequences {
		if changed&s.flag == 0 {
			continue
		}
		if flags&s.flag != 0 {
			f.WriteString(s.set)
		} else {
			f.WriteString(s.reset)
		}
	}
}

// SetCharFlags emits a set or reset for every flag
func (f *AnsiFormatter) SetCharFlags(flags graphics.CharFlags) {
	for _, s := range flagSequences {
		if flags&s.flag != 0 {
			f.WriteString(s.set)
		} else {
			f.WriteString(s.reset)
		}
	}
}

// Render replaces the buffer with a full frame of s drawn at origin
func (f *AnsiFormatter) Render(s *graphics.Surface, origin graphics.Point) {
	f.Clear()
	f.ResetColor()
	f.HideCursor()

	w, h := s.Width(), s.Height()
	chars := s.Chars()

	// Nothing is known about the terminal state at frame start
	fg, bg := graphics.Color(0xFF), graphics.Color(0xFF)
	flags := graphics.NoFlags

	for y := 0; y < h; y++ {
		f.SetCursorPosition(origin.X, y+origin.Y)
		row := chars[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			ch := row[x]
			if ch.Fg != fg {
				f.SetForegroundColor(ch.Fg)
				fg = ch.Fg
			}
			if ch.Bg != bg {
				f.SetBackgroundColor(ch.Bg)
				bg = ch.Bg
			}
			if ch.Flags != flags {
				f.UpdateCharFlags(ch.Flags, flags)
				flags = ch.Flags
			}
			if ch.Code >= 0x20 && runewidth.RuneWidth(ch.Code) == 2 && x+1 < w {
				f.buf = append(f.buf, ' ', ' ')
				f.SetCursorPosition(x+origin.X, y+origin.Y)
				f.WriteChar(ch.Code)
				x++
				f.SetCursorPosition(x+1+origin.X, y+origin.Y)
				continue
			}
			f.WriteChar(ch.Code)
		}
	}

	cur := s.Cursor()
	if cur.Visible() {
		f.SetCursorPosition(cur.X+origin.X, cur.Y+origin.Y)
		f.ShowCursor()
	} else {
		f.HideCursor()
	}
}

// writeInt appends n in decimal without allocation, negatives keep their sign
func (f *AnsiFormatter) writeInt(n int) {
	if n < 0 {
		f.buf = append(f.buf, '-')
		n = -n
	}
	if n < 10 {
		f.buf = append(f.buf, byte(n)+'0')
		return
	}
	if n < 100 {
		f.buf = append(f.buf, byte(n/10)+'0', byte(n%10)+'0')
		return
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte(n%10) + '0'
		n /= 10
	}
	f.buf = append(f.buf, tmp[i:]...)
}
