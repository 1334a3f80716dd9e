//go:build unix

package terminal

import (
	"bufio"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/gridterm/graphics"
)

// termiosBackend drives a POSIX terminal in raw mode with full-frame ANSI output
type termiosBackend struct {
	clipboardAccess

	log       logrus.FieldLogger
	inFd      int
	outFd     int
	out       *bufio.Writer
	oldState  *term.State
	size      graphics.Size
	formatter *AnsiFormatter

	events chan<- SystemEvent
	winch  *winchWatcher
	stopCh chan struct{}

	closeOnce   sync.Once
	restoreOnce sync.Once
}

func newTermios(cfg Config, events chan<- SystemEvent, log logrus.FieldLogger) (Backend, error) {
	b := &termiosBackend{
		clipboardAccess: clipboardAccess{provider: cfg.Clipboard, log: log},
		log:             log,
		inFd:            int(os.Stdin.Fd()),
		outFd:           int(os.Stdout.Fd()),
		out:             bufio.NewWriterSize(cfg.Output, 64*1024),
		events:          events,
		stopCh:          make(chan struct{}),
	}

	if !term.IsTerminal(b.inFd) {
		return nil, newError(InitializationFailure, "stdin is not a terminal", nil)
	}

	if cfg.Size != nil {
		b.size = *cfg.Size
	} else {
		w, h, err := getTerminalSize(b.outFd)
		if err != nil {
			return nil, newError(InitializationFailure, "query terminal size", errors.Wrap(err, "TIOCGWINSZ"))
		}
		b.size = graphics.Size{Width: w, Height: h}
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return nil, newError(InitializationFailure, "enter raw mode", errors.Wrap(err, "termios"))
	}
	b.oldState = old

	colorSchema := cfg.UseColorSchema || !DetectTrueColor()
	b.formatter = NewAnsiFormatter(b.size.Width*b.size.Height*24, colorSchema)
	log.WithField("color_schema", colorSchema).Debug("termios raw mode enabled")

	// Enter alternate screen, disable auto-wrap, enable mouse and paste
	f := NewAnsiFormatter(128, false)
	f.WriteString(csiAltScreenEnter)
	f.WriteString(csiAutoWrapOff)
	f.EnableMouseEvents()
	f.WriteString(csiPasteOn)
	f.ResetScreen()
	f.HideCursor()
	if cfg.Title != "" {
		f.WriteString("\x1b]0;" + cfg.Title + "\x07")
	}
	b.write(f.Bytes())

	b.winch = newWinchWatcher(b.outFd)
	b.winch.start()
	goSafe(log, b.restore, b.readLoop)
	return b, nil
}

func (b *termiosBackend) write(p []byte) {
	b.out.Write(p)
	if err := b.out.Flush(); err != nil {
		b.log.WithError(err).Debug("terminal write failed")
	}
}

// UpdateScreen renders the whole surface in one buffered write
func (b *termiosBackend) UpdateScreen(s *graphics.Surface) {
	checkSurfaceSize(s, b.size)
	b.formatter.Render(s, graphics.Point{})
	b.write(b.formatter.Bytes())
}

func (b *termiosBackend) OnResize(size graphics.Size) {
	b.size = size
	b.write([]byte(csiReset + "\x1b[2J"))
	b.log.WithFields(logrus.Fields{"width": size.Width, "height": size.Height}).Debug("resize")
}

func (b *termiosBackend) Size() graphics.Size {
	return b.size
}

func (b *termiosBackend) QuerySystemEvent() (SystemEvent, bool) {
	return SystemEvent{}, false
}

func (b *termiosBackend) IsSingleThreaded() bool {
	return false
}

// Close restores the terminal
// The reader goroutine notices within one poll interval and exits
func (b *termiosBackend) Close() error {
	b.closeOnce.Do(func() {
		close(b.stopCh)
		b.winch.stop()
		b.restore()
		b.log.Info("termios backend closed")
	})
	return nil
}

// restore leaves raw mode and the alternate screen
func (b *termiosBackend) restore() {
	b.restoreOnce.Do(func() {
		f := NewAnsiFormatter(128, false)
		f.DisableMouseEvents()
		f.WriteString(csiPasteOff)
		f.ShowCursor()
		f.WriteString(csiAltScreenExit)
		f.WriteString(csiAutoWrapOn)
		f.ResetColor()
		b.write(f.Bytes())
		if b.oldState != nil {
			term.Restore(b.inFd, b.oldState)
		}
	})
}

// send blocks until the consumer takes ev or the backend closes
func (b *termiosBackend) send(ev SystemEvent) bool {
	select {
	case b.events <- ev:
		return true
	case <-b.stopCh:
		return false
	}
}

// readLoop is the single reader goroutine: stdin bytes and SIGWINCH both end up here
func (b *termiosBackend) readLoop() {
	parser := newInputParser(func(ev SystemEvent) { b.send(ev) })
	buf := make([]byte, 256)
	fds := []unix.PollFd{{Fd: int32(b.inFd), Events: unix.POLLIN}}
	timeout := int(escapeTimeout / time.Millisecond)

	for {
		select {
		case <-b.stopCh:
			return
		default:
		}

		if sz, ok := b.winch.poll(); ok {
			if !b.send(resizeEvent(sz.Width, sz.Height)) {
				return
			}
		}

		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			b.fail(errors.Wrap(err, "poll stdin"))
			return
		}
		if n == 0 {
			// Timeout, emit pending standalone ESC if present
			if parser.pending() {
				parser.flush()
			}
			continue
		}

		rn, err := unix.Read(b.inFd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			b.fail(errors.Wrap(err, "read stdin"))
			return
		}
		if rn == 0 {
			// EOF
			b.send(SystemEvent{Type: EventAppClose})
			return
		}
		parser.feed(buf[:rn])
	}
}

func (b *termiosBackend) fail(err error) {
	b.log.WithError(err).Error("input reader stopped")
	b.send(SystemEvent{Type: EventError, Err: err})
}
