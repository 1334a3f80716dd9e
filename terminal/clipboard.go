package terminal

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// ClipboardProvider is the text clipboard a backend reads and writes
type ClipboardProvider interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// MemoryClipboard keeps clipboard text in process
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *MemoryClipboard) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *MemoryClipboard) WriteAll(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

// clipboardAccess implements the clipboard part of Backend
// Provider failures are logged at debug level and reported as an empty clipboard
type clipboardAccess struct {
	provider ClipboardProvider
	log      logrus.FieldLogger
}

func (c clipboardAccess) ClipboardText() (string, bool) {
	text, err := c.provider.ReadAll()
	if err != nil {
		c.log.WithError(err).Debug("clipboard read failed")
		return "", false
	}
	if text == "" {
		return "", false
	}
	return text, true
}

func (c clipboardAccess) SetClipboardText(text string) {
	if err := c.provider.WriteAll(text); err != nil {
		c.log.WithError(err).Debug("clipboard write failed")
	}
}

func (c clipboardAccess) HasClipboardText() bool {
	_, ok := c.ClipboardText()
	return ok
}
