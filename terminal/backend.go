package terminal

import "github.com/lixenwraith/gridterm/graphics"

// Backend abstracts a concrete terminal
// Multi-threaded backends deliver events through the channel passed to New,
// single-threaded backends are polled with QuerySystemEvent
type Backend interface {
	// UpdateScreen presents the whole surface, panics on a size mismatch
	UpdateScreen(s *graphics.Surface)

	// OnResize adopts a new screen size
	OnResize(size graphics.Size)

	Size() graphics.Size

	// Clipboard
	ClipboardText() (string, bool)
	SetClipboardText(text string)
	HasClipboardText() bool

	// QuerySystemEvent returns the next event of a single-threaded backend
	QuerySystemEvent() (SystemEvent, bool)

	IsSingleThreaded() bool

	// Close restores the terminal, safe to call more than once
	Close() error
}

// checkSurfaceSize panics when a surface does not match the backend size
func checkSurfaceSize(s *graphics.Surface, size graphics.Size) {
	if s.Width() != size.Width || s.Height() != size.Height {
		panic(newError(InvalidParameter, "surface size does not match terminal size", nil))
	}
}
