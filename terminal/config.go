package terminal

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/graphics"
)

// Type selects a backend implementation
type Type uint8

const (
	TypeDefault Type = iota // platform default
	TypeWindowsConsole
	TypeNcurses
	TypeTermios
	TypeWebTerminal
	TypeDebug
)

var typeNames = [...]string{
	TypeDefault:        "default",
	TypeWindowsConsole: "windows",
	TypeNcurses:        "ncurses",
	TypeTermios:        "termios",
	TypeWebTerminal:    "web",
	TypeDebug:          "debug",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// ParseType is the inverse of Type.String, case-insensitive
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "auto":
		return TypeDefault, nil
	case "console", "windowsconsole":
		return TypeWindowsConsole, nil
	case "tcell", "curses":
		return TypeNcurses, nil
	case "ansi", "raw":
		return TypeTermios, nil
	case "wasm", "webterminal":
		return TypeWebTerminal, nil
	}
	for i, n := range typeNames {
		if n == s {
			return Type(i), nil
		}
	}
	return TypeDefault, errors.Errorf("unknown backend type %q", s)
}

// Config drives backend selection and construction
type Config struct {
	Type Type

	// Size fixes the initial screen size, nil uses the terminal size
	Size *graphics.Size

	// DebugScript selects the debug backend when Type is TypeDefault
	DebugScript string

	// UseColorSchema switches ANSI output to the 16-color SGR palette
	UseColorSchema bool

	// Title is applied where the backend supports a window title
	Title string

	// Output receives rendered frames, defaults to os.Stdout
	// The debug backend writes its Paint dumps here
	Output io.Writer

	// Logger defaults to a logger discarding output
	Logger logrus.FieldLogger

	// Clipboard defaults to the system clipboard
	Clipboard ClipboardProvider
}

// withDefaults fills unset fields
func (c Config) withDefaults() Config {
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.Logger = l
	}
	if c.Clipboard == nil {
		c.Clipboard = systemClipboard()
	}
	return c
}

// validate rejects configurations no backend can honor
func (c Config) validate() error {
	if c.Size != nil && (c.Size.Width <= 0 || c.Size.Height <= 0) {
		return newError(InvalidParameter, "size width and height must be positive", nil)
	}
	if int(c.Type) >= len(typeNames) {
		return newError(InvalidParameter, "unknown backend type", nil)
	}
	return nil
}
