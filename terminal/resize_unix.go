//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/lixenwraith/gridterm/graphics"
)

// winchWatcher collects SIGWINCH notifications for the reader goroutine to poll
type winchWatcher struct {
	fd    int
	sigCh chan os.Signal
}

func newWinchWatcher(fd int) *winchWatcher {
	return &winchWatcher{
		fd:    fd,
		sigCh: make(chan os.Signal, 1),
	}
}

// start begins listening for SIGWINCH
func (r *winchWatcher) start() {
	signal.Notify(r.sigCh, syscall.SIGWINCH)
}

// stop stops signal delivery
func (r *winchWatcher) stop() {
	signal.Stop(r.sigCh)
}

// poll returns the new size when a resize signal is pending
// Signals coalesce in the 1-slot channel so only the latest size is seen
func (r *winchWatcher) poll() (graphics.Size, bool) {
	select {
	case <-r.sigCh:
		w, h, err := getTerminalSize(r.fd)
		if err != nil || w <= 0 || h <= 0 {
			return graphics.Size{}, false
		}
		return graphics.Size{Width: w, Height: h}, true
	default:
		return graphics.Size{}, false
	}
}

// getTerminalSize returns the terminal size for a given fd
func getTerminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
