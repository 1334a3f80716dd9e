package terminal

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/gridterm/graphics"
)

// Handler reacts to one event by drawing on the surface
// Returning false ends Run
type Handler func(ev SystemEvent, s *graphics.Surface) bool

// Session owns a backend and the surface it presents
// It satisfies the service lifecycle used by the CLI: Init opens the backend, Stop closes it
type Session struct {
	cfg     Config
	log     logrus.FieldLogger
	backend Backend
	surface *graphics.Surface
	events  chan SystemEvent

	mu      sync.Mutex
	running bool
}

// NewSession prepares a session, no terminal state changes until Init
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// Name implements Service
func (s *Session) Name() string {
	return "terminal"
}

// Dependencies implements Service
func (s *Session) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: Config (optional, replaces the one given to NewSession)
func (s *Session) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(Config); ok {
			s.cfg = cfg
		}
	}
	s.cfg = s.cfg.withDefaults()
	s.log = s.cfg.Logger

	// One slot of back-pressure between the reader goroutine and the loop
	s.events = make(chan SystemEvent, 1)
	b, err := New(s.cfg, s.events)
	if err != nil {
		return err
	}
	s.backend = b
	sz := b.Size()
	s.surface = graphics.NewSurface(sz.Width, sz.Height)
	return nil
}

// Start implements Service, the backend reader is already running after Init
func (s *Session) Start() error {
	if s.backend == nil {
		return errors.New("terminal session not initialized")
	}
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	return nil
}

// Stop implements Service, idempotent
func (s *Session) Stop() error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

func (s *Session) Backend() Backend {
	return s.backend
}

func (s *Session) Surface() *graphics.Surface {
	return s.surface
}

// Next returns the next event
// Single-threaded backends are polled and yield EventNone when the screen should be repainted
func (s *Session) Next(ctx context.Context) (SystemEvent, error) {
	if err := ctx.Err(); err != nil {
		return SystemEvent{}, err
	}
	if s.backend.IsSingleThreaded() {
		if ev, ok := s.backend.QuerySystemEvent(); ok {
			return ev, nil
		}
		return SystemEvent{Type: EventNone}, nil
	}
	select {
	case ev := <-s.events:
		return ev, nil
	case <-ctx.Done():
		return SystemEvent{}, ctx.Err()
	}
}

// Paint presents the surface
func (s *Session) Paint() {
	s.backend.UpdateScreen(s.surface)
}

// applyResize resizes surface and backend before the handler draws the next frame
// The backend gets the surface size after clamping so the two always agree
func (s *Session) applyResize(size graphics.Size) {
	if size.Width < 1 || size.Height < 1 {
		return
	}
	s.surface.Resize(size.Width, size.Height)
	s.backend.OnResize(s.surface.Size())
}

// Run feeds events to handler and repaints after each one
// It returns nil on EventAppClose or when handler returns false, ctx.Err on cancellation,
// and the reader error when the backend reports EventError
func (s *Session) Run(ctx context.Context, handler Handler) error {
	if s.backend == nil {
		return errors.New("terminal session not initialized")
	}
	handler(SystemEvent{Type: EventNone}, s.surface)
	s.Paint()

	for {
		ev, err := s.Next(ctx)
		if err != nil {
			return err
		}
		switch ev.Type {
		case EventResize:
			s.applyResize(ev.Size)
		case EventError:
			s.log.WithError(ev.Err).Error("backend reported an error")
			return errors.Wrap(ev.Err, "terminal input")
		case EventAppClose:
			handler(ev, s.surface)
			return nil
		}

		if !handler(ev, s.surface) {
			return nil
		}
		s.Paint()
	}
}
