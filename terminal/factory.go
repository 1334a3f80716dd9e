package terminal

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

// New builds a backend from cfg
// Resolution: explicit Type, then DebugScript, then the platform default
// Multi-threaded backends send events to events, which must not be nil for them
func New(cfg Config, events chan<- SystemEvent) (Backend, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	t := resolveType(cfg, runtime.GOOS)
	log := cfg.Logger.WithField("backend", t.String())

	if t != TypeDebug && events == nil {
		return nil, newError(InvalidParameter, "event channel required for "+t.String()+" backend", nil)
	}

	var (
		b   Backend
		err error
	)
	switch t {
	case TypeDebug:
		b, err = newDebug(cfg, log)
	case TypeWindowsConsole:
		b, err = newWindowsConsole(cfg, events, log)
	case TypeNcurses:
		b, err = newNcurses(cfg, events, log)
	case TypeTermios:
		b, err = newTermios(cfg, events, log)
	case TypeWebTerminal:
		b, err = newWebTerminal(cfg, events, log)
	default:
		err = newError(Unsupported, "no backend for "+t.String(), nil)
	}
	if err != nil {
		log.WithError(err).Error("backend init failed")
		return nil, err
	}

	sz := b.Size()
	log.WithFields(logrus.Fields{"width": sz.Width, "height": sz.Height}).Info("backend ready")
	return b, nil
}

// resolveType applies the selection order for the given GOOS
func resolveType(cfg Config, goos string) Type {
	if cfg.Type != TypeDefault {
		return cfg.Type
	}
	if cfg.DebugScript != "" {
		return TypeDebug
	}
	switch goos {
	case "windows":
		return TypeWindowsConsole
	case "linux":
		return TypeNcurses
	case "js":
		return TypeWebTerminal
	default:
		return TypeTermios
	}
}
