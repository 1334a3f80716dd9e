//go:build js && wasm

package terminal

import (
	"sync"
	"syscall/js"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/graphics"
)

// webTerminal bridges to an xterm.js instance through global JS functions
// The page calls goTerminalInput(Uint8Array) and goTerminalResize(cols, rows),
// Go calls goTerminalWrite(Uint8Array)
type webTerminal struct {
	clipboardAccess

	log       logrus.FieldLogger
	size      graphics.Size
	formatter *AnsiFormatter

	inputCh  chan []byte
	resizeCh chan graphics.Size
	events   chan<- SystemEvent
	stopCh   chan struct{}

	callbacks []js.Func
	closeOnce sync.Once
}

func newWebTerminal(cfg Config, events chan<- SystemEvent, log logrus.FieldLogger) (Backend, error) {
	if js.Global().Get("goTerminalWrite").Type() != js.TypeFunction {
		return nil, newError(InitializationFailure, "goTerminalWrite is not defined by the page", nil)
	}

	b := &webTerminal{
		clipboardAccess: clipboardAccess{provider: cfg.Clipboard, log: log},
		log:             log,
		size:            graphics.Size{Width: 80, Height: 24},
		inputCh:         make(chan []byte, 256),
		resizeCh:        make(chan graphics.Size, 1),
		events:          events,
		stopCh:          make(chan struct{}),
	}

	if xterm := js.Global().Get("xterm"); !xterm.IsUndefined() {
		b.size = graphics.Size{Width: xterm.Get("cols").Int(), Height: xterm.Get("rows").Int()}
	}
	if cfg.Size != nil {
		b.size = *cfg.Size
	}
	b.formatter = NewAnsiFormatter(b.size.Width*b.size.Height*24, cfg.UseColorSchema)

	inputCb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			data := make([]byte, args[0].Length())
			js.CopyBytesToGo(data, args[0])
			select {
			case b.inputCh <- data:
			default:
				log.Debug("input buffer full, dropping chunk")
			}
		}
		return nil
	})
	resizeCb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) >= 2 {
			sz := graphics.Size{Width: args[0].Int(), Height: args[1].Int()}
			// Only the latest size matters
			select {
			case <-b.resizeCh:
			default:
			}
			b.resizeCh <- sz
		}
		return nil
	})
	b.callbacks = append(b.callbacks, inputCb, resizeCb)
	js.Global().Set("goTerminalInput", inputCb)
	js.Global().Set("goTerminalResize", resizeCb)

	f := NewAnsiFormatter(128, false)
	f.EnableMouseEvents()
	f.WriteString(csiPasteOn)
	f.ResetScreen()
	f.HideCursor()
	if cfg.Title != "" {
		js.Global().Get("document").Set("title", cfg.Title)
	}
	b.write(f.Bytes())

	goSafe(log, nil, b.readLoop)
	return b, nil
}

func (b *webTerminal) write(p []byte) {
	arr := js.Global().Get("Uint8Array").New(len(p))
	js.CopyBytesToJS(arr, p)
	js.Global().Call("goTerminalWrite", arr)
}

func (b *webTerminal) UpdateScreen(s *graphics.Surface) {
	checkSurfaceSize(s, b.size)
	b.formatter.Render(s, graphics.Point{})
	b.write(b.formatter.Bytes())
}

func (b *webTerminal) OnResize(size graphics.Size) {
	b.size = size
	b.write([]byte(csiReset + "\x1b[2J"))
}

func (b *webTerminal) Size() graphics.Size {
	return b.size
}

func (b *webTerminal) QuerySystemEvent() (SystemEvent, bool) {
	return SystemEvent{}, false
}

func (b *webTerminal) IsSingleThreaded() bool {
	return false
}

func (b *webTerminal) Close() error {
	b.closeOnce.Do(func() {
		close(b.stopCh)
		f := NewAnsiFormatter(64, false)
		f.DisableMouseEvents()
		f.WriteString(csiPasteOff)
		f.ShowCursor()
		f.ResetColor()
		b.write(f.Bytes())
		js.Global().Delete("goTerminalInput")
		js.Global().Delete("goTerminalResize")
		for _, cb := range b.callbacks {
			cb.Release()
		}
		b.log.Info("web terminal closed")
	})
	return nil
}

func (b *webTerminal) send(ev SystemEvent) bool {
	select {
	case b.events <- ev:
		return true
	case <-b.stopCh:
		return false
	}
}

// readLoop parses input chunks and forwards resizes, a pending ESC is flushed after escapeTimeout
func (b *webTerminal) readLoop() {
	parser := newInputParser(func(ev SystemEvent) { b.send(ev) })
	timer := time.NewTimer(escapeTimeout)
	timer.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case sz := <-b.resizeCh:
			if !b.send(resizeEvent(sz.Width, sz.Height)) {
				return
			}
		case data := <-b.inputCh:
			parser.feed(data)
			if parser.pending() {
				timer.Reset(escapeTimeout)
			}
		case <-timer.C:
			if parser.pending() {
				parser.flush()
			}
		}
	}
}
