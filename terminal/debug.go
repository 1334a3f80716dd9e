package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/graphics"
)

const (
	debugDefaultWidth  = 80
	debugDefaultHeight = 40
	debugMinSize       = 10
	debugMaxSize       = 1000
)

// ScriptReport exposes the progress of a scripted run
// The debug backend implements it
type ScriptReport interface {
	// Failures lists checks that failed while errors were disabled
	Failures() []string
	// Remaining is the number of commands not yet executed
	Remaining() int
}

// CheckFailure is the panic value raised by a failed script check
type CheckFailure struct {
	Msg string
}

func (e *CheckFailure) Error() string {
	return e.Msg
}

// debugBackend replays a script instead of reading a real terminal
// Single-threaded: the caller polls QuerySystemEvent and repaints when it returns false
type debugBackend struct {
	clipboardAccess

	log  logrus.FieldLogger
	out  io.Writer
	size graphics.Size

	commands []debugCommand
	next     int
	events   []SystemEvent

	mouse    graphics.Point
	modifier KeyModifier

	paint          bool
	paintDisabled  bool
	paintTitle     string
	errorsDisabled bool
	expectHash     *uint64
	expectCursor   *graphics.Point
	failures       []string

	formatter *AnsiFormatter
}

func newDebug(cfg Config, log logrus.FieldLogger) (Backend, error) {
	cmds, err := compileScript(cfg.DebugScript)
	if err != nil {
		return nil, newError(InvalidParameter, "compile debug script", err)
	}

	size := graphics.Size{Width: debugDefaultWidth, Height: debugDefaultHeight}
	if cfg.Size != nil {
		size = *cfg.Size
	}
	size = clampDebugSize(size)

	log.WithField("commands", len(cmds)).Debug("debug script compiled")
	return &debugBackend{
		clipboardAccess: clipboardAccess{provider: &MemoryClipboard{}, log: log},
		log:             log,
		out:             cfg.Output,
		size:            size,
		commands:        cmds,
		formatter:       NewAnsiFormatter(4096, false),
	}, nil
}

// clampDebugSize bounds both dimensions to debugMinSize..debugMaxSize
func clampDebugSize(size graphics.Size) graphics.Size {
	return graphics.Size{
		Width:  min(max(size.Width, debugMinSize), debugMaxSize),
		Height: min(max(size.Height, debugMinSize), debugMaxSize),
	}
}

func (d *debugBackend) queue(ev SystemEvent) {
	d.events = append(d.events, ev)
}

// dequeue pops the oldest queued event and tracks the state it implies
func (d *debugBackend) dequeue() (SystemEvent, bool) {
	if len(d.events) == 0 {
		return SystemEvent{}, false
	}
	ev := d.events[0]
	d.events = d.events[1:]

	switch ev.Type {
	case EventResize:
		d.size = ev.Size
	case EventMouseButtonDown, EventMouseButtonUp, EventMouseDoubleClick, EventMouseMove, EventMouseWheel:
		d.mouse = graphics.Point{X: ev.X, Y: ev.Y}
	case EventKeyModifierChanged:
		d.modifier = ev.Modifier
	}
	return ev, true
}

// QuerySystemEvent drains queued events, then runs the next command
// Commands that only change verification state report no event so the caller repaints
func (d *debugBackend) QuerySystemEvent() (SystemEvent, bool) {
	if ev, ok := d.dequeue(); ok {
		return ev, true
	}
	if d.next >= len(d.commands) {
		return SystemEvent{Type: EventAppClose}, true
	}
	cmd := d.commands[d.next]
	d.next++
	cmd.run(d)
	return d.dequeue()
}

func (d *debugBackend) IsSingleThreaded() bool {
	return true
}

func (d *debugBackend) Size() graphics.Size {
	return d.size
}

func (d *debugBackend) OnResize(size graphics.Size) {
	d.size = size
}

func (d *debugBackend) Close() error {
	return nil
}

func (d *debugBackend) Failures() []string {
	return d.failures
}

func (d *debugBackend) Remaining() int {
	return len(d.commands) - d.next
}

// failf panics with a CheckFailure, or records and prints the failure when errors are disabled
func (d *debugBackend) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !d.errorsDisabled {
		panic(&CheckFailure{Msg: msg})
	}
	d.failures = append(d.failures, msg)
	d.log.WithField("check", "failed").Warn(msg)
	fmt.Fprintf(d.out, "\x1b[91;40m[Error] %s\x1b[0m\n", msg)
}

func cursorPoint(s *graphics.Surface) graphics.Point {
	c := s.Cursor()
	if !c.Visible() {
		return hiddenCursor
	}
	return graphics.Point{X: c.X, Y: c.Y}
}

func describeCursor(p graphics.Point) string {
	if p.X < 0 {
		return "Hidden"
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// UpdateScreen verifies pending expectations and prints the frame when a Paint was requested
func (d *debugBackend) UpdateScreen(s *graphics.Surface) {
	checkSurfaceSize(s, d.size)
	hash := s.Hash()
	cursor := cursorPoint(s)

	if d.expectHash != nil {
		want := *d.expectHash
		d.expectHash = nil
		d.paint = false
		if want != hash {
			d.failf("Invalid hash for surface (expecting: 0x%X but found 0x%X)", want, hash)
		}
	}
	if d.expectCursor != nil {
		want := *d.expectCursor
		d.expectCursor = nil
		if want != cursor {
			d.failf("Invalid cursor position. Expecting the cursor to be %s, but found %s", describeCursor(want), describeCursor(cursor))
		}
	}

	if !d.paint {
		return
	}
	d.paint = false
	d.writeFrame(s, hash, cursor)
}

// writeFrame prints a bordered dump with rulers, the mouse row and column highlighted
func (d *debugBackend) writeFrame(s *graphics.Surface, hash uint64, cursor graphics.Point) {
	w := d.size.Width
	var sb strings.Builder
	rule := strings.Repeat("-", w+7)

	sb.WriteString("\n+" + strings.Repeat("=", w+7) + "+\n")
	header := func(label, value string) {
		pad := max(w+7-len(label)-runewidth.StringWidth(value), 0)
		sb.WriteString("|" + label + "\x1b[93;40m" + value + strings.Repeat(" ", pad) + "\x1b[0m|\n")
	}
	header(" Name  : ", d.paintTitle)
	header(" Hash  : ", fmt.Sprintf("0x%X", hash))
	if cursor.X < 0 {
		header(" Cursor: ", "Hidden")
	} else {
		header(" Cursor: ", fmt.Sprintf("%d,%d", cursor.X, cursor.Y))
	}
	sb.WriteString("|" + rule + "|\n")

	ruler := func(digit func(i int) byte) {
		sb.WriteString("|    | ")
		for i := 0; i < w; i++ {
			if i == d.mouse.X {
				sb.WriteString("\x1b[97m\x1b[41m")
			} else {
				sb.WriteString(csiReset)
			}
			sb.WriteByte(digit(i))
		}
		sb.WriteString(csiReset + " |\n")
	}
	ruler(func(i int) byte {
		if t := (i % 100) / 10; t != 0 {
			return byte('0' + t)
		}
		return ' '
	})
	ruler(func(i int) byte { return byte('0' + i%10) })
	sb.WriteString("|" + rule + "|\n")

	chars := s.Chars()
	f := d.formatter
	for y := 0; y < s.Height(); y++ {
		f.Clear()
		for x := 0; x < w; x++ {
			ch := chars[y*w+x]
			fg, bg := ch.Fg, ch.Bg
			if x == cursor.X && y == cursor.Y {
				fg, bg = bg, fg
			}
			f.SetColor(fg, bg)
			if ch.Code <= ' ' {
				f.WriteChar(' ')
			} else {
				f.WriteChar(ch.Code)
			}
			f.ResetColor()
		}
		if y == d.mouse.Y {
			fmt.Fprintf(&sb, "|\x1b[97m\x1b[41m%3d \x1b[0m| %s |\n", y, f.Text())
		} else {
			fmt.Fprintf(&sb, "|%3d | %s |\n", y, f.Text())
		}
	}
	sb.WriteString("|" + rule + "|\n")

	if _, err := io.WriteString(d.out, sb.String()); err != nil {
		d.log.WithError(err).Debug("frame dump failed")
	}
}
