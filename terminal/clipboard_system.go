//go:build !js

package terminal

import (
	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
)

// osClipboard delegates to the native clipboard (win32, pbcopy, xclip/xsel/wl-clipboard)
type osClipboard struct{}

func (osClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("no clipboard utility available")
	}
	text, err := clipboard.ReadAll()
	return text, errors.Wrap(err, "read clipboard")
}

func (osClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return errors.Wrap(clipboard.WriteAll(text), "write clipboard")
}

func systemClipboard() ClipboardProvider {
	return osClipboard{}
}
