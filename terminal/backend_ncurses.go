//go:build !js

package terminal

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/graphics"
)

// cursesColorIndex is the curses palette slot of each color
var cursesColorIndex = [graphics.PaletteSize]int{
	graphics.Black:     0,
	graphics.DarkRed:   1,
	graphics.DarkGreen: 2,
	graphics.Olive:     3,
	graphics.DarkBlue:  4,
	graphics.Magenta:   5,
	graphics.Teal:      6,
	graphics.Silver:    7,
	graphics.Gray:      8,
	graphics.Red:       9,
	graphics.Green:     10,
	graphics.Yellow:    11,
	graphics.Blue:      12,
	graphics.Pink:      13,
	graphics.Aqua:      14,
	graphics.White:     15,
}

// colorPairs holds one style per (background, foreground) pair, index b*16+f
type colorPairs [graphics.PaletteSize * graphics.PaletteSize]tcell.Style

func newColorPairs() *colorPairs {
	var p colorPairs
	for b := 0; b < graphics.PaletteSize; b++ {
		for f := 0; f < graphics.PaletteSize; f++ {
			p[b*graphics.PaletteSize+f] = tcell.StyleDefault.
				Foreground(tcell.PaletteColor(f)).
				Background(tcell.PaletteColor(b))
		}
	}
	return &p
}

// style resolves a cell to its pair plus attribute bits
func (p *colorPairs) style(ch graphics.Character) tcell.Style {
	f, b := cursesColorIndex[graphics.White], cursesColorIndex[graphics.Black]
	if ch.Fg < graphics.PaletteSize {
		f = cursesColorIndex[ch.Fg]
	}
	if ch.Bg < graphics.PaletteSize {
		b = cursesColorIndex[ch.Bg]
	}
	st := p[b*graphics.PaletteSize+f]
	if ch.Flags == graphics.NoFlags {
		return st
	}
	if ch.Flags.Contains(graphics.Bold) {
		st = st.Bold(true)
	}
	if ch.Flags.Contains(graphics.Italic) {
		st = st.Italic(true)
	}
	if ch.Flags.Contains(graphics.StrikeThrough) {
		st = st.StrikeThrough(true)
	}
	switch {
	case ch.Flags.Contains(graphics.CurlyUnderline):
		st = st.Underline(tcell.UnderlineStyleCurly)
	case ch.Flags.Contains(graphics.DottedUnderline):
		st = st.Underline(tcell.UnderlineStyleDotted)
	case ch.Flags.Contains(graphics.DoubleUnderline):
		st = st.Underline(tcell.UnderlineStyleDouble)
	case ch.Flags.Contains(graphics.Underline):
		st = st.Underline(true)
	}
	return st
}

// ncursesBackend renders through a tcell screen
type ncursesBackend struct {
	clipboardAccess

	log    logrus.FieldLogger
	screen tcell.Screen
	pairs  *colorPairs
	size   graphics.Size

	events chan<- SystemEvent
	stopCh chan struct{}

	closeOnce sync.Once
	finiOnce  sync.Once
}

func newNcurses(cfg Config, events chan<- SystemEvent, log logrus.FieldLogger) (Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, newError(InitializationFailure, "create screen", errors.Wrap(err, "tcell"))
	}
	return newNcursesWithScreen(screen, cfg, events, log)
}

// newNcursesWithScreen initializes screen and starts the reader goroutine
func newNcursesWithScreen(screen tcell.Screen, cfg Config, events chan<- SystemEvent, log logrus.FieldLogger) (*ncursesBackend, error) {
	if err := screen.Init(); err != nil {
		return nil, newError(InitializationFailure, "init screen", errors.Wrap(err, "tcell"))
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.EnableMouse(tcell.MouseButtonEvents, tcell.MouseDragEvents, tcell.MouseMotionEvents)
	screen.EnablePaste()
	screen.HideCursor()
	if cfg.Title != "" {
		screen.SetTitle(cfg.Title)
	}
	screen.Clear()

	b := &ncursesBackend{
		clipboardAccess: clipboardAccess{provider: cfg.Clipboard, log: log},
		log:             log,
		screen:          screen,
		pairs:           newColorPairs(),
		events:          events,
		stopCh:          make(chan struct{}),
	}
	if cfg.Size != nil {
		b.size = *cfg.Size
	} else {
		w, h := screen.Size()
		b.size = graphics.Size{Width: w, Height: h}
	}

	goSafe(log, b.fini, b.readLoop)
	return b, nil
}

func (b *ncursesBackend) UpdateScreen(s *graphics.Surface) {
	checkSurfaceSize(s, b.size)
	w, h := s.Width(), s.Height()
	chars := s.Chars()
	for y := 0; y < h; y++ {
		row := chars[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			ch := row[x]
			code := ch.Code
			if code < 0x20 {
				code = ' '
			}
			b.screen.SetContent(x, y, code, nil, b.pairs.style(ch))
			if cw := runewidth.RuneWidth(code); cw > 1 {
				x += cw - 1
			}
		}
	}
	cur := s.Cursor()
	if cur.Visible() {
		b.screen.ShowCursor(cur.X, cur.Y)
	} else {
		b.screen.HideCursor()
	}
	b.screen.Show()
}

func (b *ncursesBackend) OnResize(size graphics.Size) {
	b.size = size
	b.screen.Sync()
	b.log.WithFields(logrus.Fields{"width": size.Width, "height": size.Height}).Debug("resize")
}

func (b *ncursesBackend) Size() graphics.Size {
	return b.size
}

func (b *ncursesBackend) QuerySystemEvent() (SystemEvent, bool) {
	return SystemEvent{}, false
}

func (b *ncursesBackend) IsSingleThreaded() bool {
	return false
}

func (b *ncursesBackend) Close() error {
	b.closeOnce.Do(func() {
		close(b.stopCh)
		b.fini()
		b.log.Info("ncurses backend closed")
	})
	return nil
}

// fini restores the terminal, PollEvent returns nil afterwards
func (b *ncursesBackend) fini() {
	b.finiOnce.Do(func() {
		b.screen.DisableMouse()
		b.screen.DisablePaste()
		b.screen.Fini()
	})
}

func (b *ncursesBackend) send(ev SystemEvent) bool {
	select {
	case b.events <- ev:
		return true
	case <-b.stopCh:
		return false
	}
}

// readLoop converts tcell events until the screen is finalized
func (b *ncursesBackend) readLoop() {
	conv := tcellConverter{now: time.Now}
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		for _, se := range conv.convert(ev) {
			if !b.send(se) {
				return
			}
		}
	}
}

// tcellConverter keeps the state needed to diff mouse buttons and collect pastes
type tcellConverter struct {
	now     func() time.Time
	buttons tcell.ButtonMask
	x, y    int
	clicks  clickTracker

	inPaste bool
	paste   []rune
}

func (c *tcellConverter) convert(ev tcell.Event) []SystemEvent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if c.inPaste {
			if ev.Key() == tcell.KeyRune {
				c.paste = append(c.paste, ev.Rune())
			} else if ev.Key() == tcell.KeyEnter {
				c.paste = append(c.paste, '\n')
			}
			return nil
		}
		k, ch, ok := convertTcellKey(ev)
		if !ok {
			return nil
		}
		return []SystemEvent{keyEvent(k, ch)}
	case *tcell.EventMouse:
		return c.convertMouse(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		return []SystemEvent{resizeEvent(w, h)}
	case *tcell.EventPaste:
		if ev.Start() {
			c.inPaste = true
			c.paste = c.paste[:0]
			return nil
		}
		if ev.End() && c.inPaste {
			c.inPaste = false
			return []SystemEvent{{Type: EventPaste, Text: string(c.paste)}}
		}
	}
	return nil
}

const tcellButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

func (c *tcellConverter) convertMouse(ev *tcell.EventMouse) []SystemEvent {
	x, y := ev.Position()
	btns := ev.Buttons()
	var out []SystemEvent

	switch {
	case btns&tcell.WheelUp != 0:
		out = append(out, wheelEvent(x, y, WheelUp))
	case btns&tcell.WheelDown != 0:
		out = append(out, wheelEvent(x, y, WheelDown))
	case btns&tcell.WheelLeft != 0:
		out = append(out, wheelEvent(x, y, WheelLeft))
	case btns&tcell.WheelRight != 0:
		out = append(out, wheelEvent(x, y, WheelRight))
	}

	pressed := btns & tcellButtons
	prev := c.buttons
	moved := x != c.x || y != c.y
	c.buttons, c.x, c.y = pressed, x, y

	if pressed == prev {
		if moved {
			out = append(out, mouseEvent(EventMouseMove, x, y, tcellButton(pressed)))
		}
		return out
	}

	for _, m := range [...]tcell.ButtonMask{tcell.Button1, tcell.Button2, tcell.Button3} {
		switch {
		case pressed&m != 0 && prev&m == 0:
			btn := tcellButton(m)
			out = append(out, mouseEvent(EventMouseButtonDown, x, y, btn))
			if c.clicks.press(x, y, btn, c.now()) {
				out = append(out, mouseEvent(EventMouseDoubleClick, x, y, btn))
			}
		case pressed&m == 0 && prev&m != 0:
			out = append(out, mouseEvent(EventMouseButtonUp, x, y, tcellButton(m)))
		}
	}
	return out
}

// tcellButton maps the primary button of a mask
func tcellButton(m tcell.ButtonMask) MouseButton {
	switch {
	case m&tcell.Button1 != 0:
		return MouseButtonLeft
	case m&tcell.Button2 != 0:
		return MouseButtonRight
	case m&tcell.Button3 != 0:
		return MouseButtonCenter
	}
	return MouseButtonNone
}

var tcellSpecialKeys = map[tcell.Key]KeyCode{
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyTab:        KeyTab,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyRight:      KeyRight,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
}

func tcellModifier(m tcell.ModMask) KeyModifier {
	var km KeyModifier
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		km |= ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		km |= ModCtrl
	}
	if m&tcell.ModShift != 0 {
		km |= ModShift
	}
	return km
}

// convertTcellKey maps a tcell key event, the character is dropped when Alt or Ctrl is held
func convertTcellKey(ev *tcell.EventKey) (Key, rune, bool) {
	mods := tcellModifier(ev.Modifiers())
	key := ev.Key()

	switch {
	case key == tcell.KeyRune:
		r := ev.Rune()
		k := KeyFromRune(r)
		k.Modifier |= mods &^ ModShift
		if k.Modifier&(ModAlt|ModCtrl) != 0 && k.Code != KeyNone {
			r = 0
		}
		return k, r, true
	case key == tcell.KeyBacktab:
		return Key{Code: KeyTab, Modifier: mods | ModShift}, 0, true
	case key == tcell.KeyCtrlSpace:
		return Key{Code: KeySpace, Modifier: ModCtrl}, 0, true
	}

	if code, ok := tcellSpecialKeys[key]; ok {
		return Key{Code: code, Modifier: mods}, 0, true
	}
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return Key{Code: KeyA + KeyCode(key-tcell.KeyCtrlA), Modifier: mods | ModCtrl}, 0, true
	}
	return Key{}, 0, false
}
