package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Close cannot be called normally
func EmergencyReset(w io.Writer) {
	io.WriteString(w, csiMouseOff)
	io.WriteString(w, csiPasteOff)
	io.WriteString(w, csiCursorShow)
	io.WriteString(w, csiAltScreenExit)
	io.WriteString(w, csiReset)
	io.WriteString(w, csiAutoWrapOn)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios, best-effort in crash context
	resetTerminalMode()
}

// goSafe runs fn in a new goroutine
// A panic restores the terminal through restore, is logged with its stack, then re-raised
func goSafe(log logrus.FieldLogger, restore func(), fn func()) {
	go func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if restore != nil {
				restore()
			}
			stack := debug.Stack()
			log.WithField("stack", string(stack)).Errorf("reader goroutine crashed: %v", r)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
			panic(r)
		}()
		fn()
	}()
}
