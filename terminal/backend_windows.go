//go:build windows

package terminal

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/lixenwraith/gridterm/graphics"
)

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procReadConsoleInputW    = kernel32.NewProc("ReadConsoleInputW")
	procWriteConsoleOutputW  = kernel32.NewProc("WriteConsoleOutputW")
	procSetConsoleCursorInfo = kernel32.NewProc("SetConsoleCursorInfo")
	procSetConsoleTitleW     = kernel32.NewProc("SetConsoleTitleW")
)

// inputRecord has the layout of INPUT_RECORD
type inputRecord struct {
	EventType uint16
	_         uint16
	Event     [16]byte
}

// consoleCursorInfo has the layout of CONSOLE_CURSOR_INFO
type consoleCursorInfo struct {
	Size    uint32
	Visible int32
}

// packCoord passes a COORD by value
func packCoord(x, y int) uintptr {
	return uintptr(uint32(uint16(int16(x))) | uint32(uint16(int16(y)))<<16)
}

// windowsConsole writes CHAR_INFO blocks through the Win32 console API
type windowsConsole struct {
	clipboardAccess

	log      logrus.FieldLogger
	stdin    windows.Handle
	stdout   windows.Handle
	origMode uint32
	size     graphics.Size
	buffer   *charInfoBuffer

	// visible is shared with the reader goroutine, which updates it on resize
	mu      sync.Mutex
	visible smallRect

	events chan<- SystemEvent
	stopCh chan struct{}

	closeOnce   sync.Once
	restoreOnce sync.Once
}

func newWindowsConsole(cfg Config, events chan<- SystemEvent, log logrus.FieldLogger) (Backend, error) {
	stdin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil || stdin == windows.InvalidHandle {
		return nil, newError(InitializationFailure, "get stdin handle", errors.Wrap(err, "GetStdHandle"))
	}
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil || stdout == windows.InvalidHandle {
		return nil, newError(InitializationFailure, "get stdout handle", errors.Wrap(err, "GetStdHandle"))
	}

	var mode uint32
	if err := windows.GetConsoleMode(stdin, &mode); err != nil {
		return nil, newError(InitializationFailure, "get console mode", errors.Wrap(err, "GetConsoleMode"))
	}
	if err := windows.SetConsoleMode(stdin, enableWindowInput|enableMouseInput|enableExtendedFlags); err != nil {
		return nil, newError(InitializationFailure, "set console mode", errors.Wrap(err, "SetConsoleMode"))
	}

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(stdout, &info); err != nil {
		windows.SetConsoleMode(stdin, mode)
		return nil, newError(InitializationFailure, "query console buffer", errors.Wrap(err, "GetConsoleScreenBufferInfo"))
	}
	window := smallRect{Left: info.Window.Left, Top: info.Window.Top, Right: info.Window.Right, Bottom: info.Window.Bottom}
	size := graphics.Size{
		Width:  int(window.Right) - int(window.Left) + 1,
		Height: int(window.Bottom) - int(window.Top) + 1,
	}
	if cfg.Size != nil {
		size = *cfg.Size
	}
	if size.Width < 1 || size.Height < 1 {
		windows.SetConsoleMode(stdin, mode)
		return nil, newError(InitializationFailure, "console reports an empty window", nil)
	}

	b := &windowsConsole{
		clipboardAccess: clipboardAccess{provider: cfg.Clipboard, log: log},
		log:             log,
		stdin:           stdin,
		stdout:          stdout,
		origMode:        mode,
		size:            size,
		buffer:          newCharInfoBuffer(size),
		visible:         window,
		events:          events,
		stopCh:          make(chan struct{}),
	}
	if cfg.Title != "" {
		if p, err := windows.UTF16PtrFromString(cfg.Title); err == nil {
			procSetConsoleTitleW.Call(uintptr(unsafe.Pointer(p)))
		}
	}

	goSafe(log, b.restore, b.readLoop)
	return b, nil
}

func (b *windowsConsole) UpdateScreen(s *graphics.Surface) {
	checkSurfaceSize(s, b.size)
	b.buffer.encode(s)

	b.mu.Lock()
	vis := b.visible
	b.mu.Unlock()

	for i, blk := range b.buffer.blocks {
		cells := b.buffer.block(i)
		// Width counts both halves of each surrogate pair, the console folds a
		// pair into one column so the written row still ends at the window edge
		region := smallRect{
			Left:   vis.Left,
			Top:    vis.Top + int16(blk.Top),
			Right:  vis.Left + int16(blk.Width) - 1,
			Bottom: vis.Top + int16(blk.Top+blk.Rows) - 1,
		}
		r, _, err := procWriteConsoleOutputW.Call(
			uintptr(b.stdout),
			uintptr(unsafe.Pointer(&cells[0])),
			packCoord(blk.Width, blk.Rows),
			packCoord(0, 0),
			uintptr(unsafe.Pointer(&region)),
		)
		if r == 0 {
			b.log.WithError(err).Debug("WriteConsoleOutputW failed")
		}
	}

	cur := s.Cursor()
	info := consoleCursorInfo{Size: 10}
	if cur.Visible() {
		windows.SetConsoleCursorPosition(b.stdout, windows.Coord{X: vis.Left + int16(cur.X), Y: vis.Top + int16(cur.Y)})
		info.Visible = 1
	}
	procSetConsoleCursorInfo.Call(uintptr(b.stdout), uintptr(unsafe.Pointer(&info)))
}

func (b *windowsConsole) OnResize(size graphics.Size) {
	b.size = size
	b.buffer.resize(size)
	b.log.WithFields(logrus.Fields{"width": size.Width, "height": size.Height}).Debug("resize")
}

func (b *windowsConsole) Size() graphics.Size {
	return b.size
}

func (b *windowsConsole) QuerySystemEvent() (SystemEvent, bool) {
	return SystemEvent{}, false
}

func (b *windowsConsole) IsSingleThreaded() bool {
	return false
}

// Close restores the input mode
// The reader goroutine stays blocked in ReadConsoleInputW until the next console event
func (b *windowsConsole) Close() error {
	b.closeOnce.Do(func() {
		close(b.stopCh)
		b.restore()
		b.log.Info("windows console backend closed")
	})
	return nil
}

func (b *windowsConsole) restore() {
	b.restoreOnce.Do(func() {
		windows.SetConsoleMode(b.stdin, b.origMode)
		info := consoleCursorInfo{Size: 10, Visible: 1}
		procSetConsoleCursorInfo.Call(uintptr(b.stdout), uintptr(unsafe.Pointer(&info)))
	})
}

func (b *windowsConsole) send(ev SystemEvent) bool {
	select {
	case b.events <- ev:
		return true
	case <-b.stopCh:
		return false
	}
}

func (b *windowsConsole) readLoop() {
	b.mu.Lock()
	dec := consoleDecoder{visible: b.visible}
	b.mu.Unlock()

	var rec inputRecord
	var n uint32
	for {
		r, _, err := procReadConsoleInputW.Call(uintptr(b.stdin), uintptr(unsafe.Pointer(&rec)), 1, uintptr(unsafe.Pointer(&n)))
		select {
		case <-b.stopCh:
			return
		default:
		}
		if r == 0 {
			err = errors.Wrap(err, "ReadConsoleInputW")
			b.log.WithError(err).Error("input reader stopped")
			b.send(SystemEvent{Type: EventError, Err: err})
			return
		}
		if n != 1 {
			continue
		}

		var (
			ev SystemEvent
			ok bool
		)
		switch rec.EventType {
		case consoleKeyEvent:
			ev, ok = dec.decodeKey(*(*keyEventRecord)(unsafe.Pointer(&rec.Event[0])))
		case consoleMouseEvent:
			ev, ok = dec.decodeMouse(*(*mouseEventRecord)(unsafe.Pointer(&rec.Event[0])))
		case consoleWindowBufferEvent:
			var info windows.ConsoleScreenBufferInfo
			if err := windows.GetConsoleScreenBufferInfo(b.stdout, &info); err == nil {
				w := smallRect{Left: info.Window.Left, Top: info.Window.Top, Right: info.Window.Right, Bottom: info.Window.Bottom}
				ev, ok = dec.decodeResize(w), true
				b.mu.Lock()
				b.visible = w
				b.mu.Unlock()
			}
		}
		if ok && !b.send(ev) {
			return
		}
	}
}
