package service

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type state uint8

const (
	registered state = iota
	initialized
	started
)

var stateNames = [...]string{"registered", "initialized", "started"}

func (s state) String() string {
	return stateNames[s]
}

// entry is one registered service and how far its lifecycle has progressed
type entry struct {
	svc   Service
	args  []any
	state state
}

// Hub owns a set of services and drives them through Init, Start and Stop
// Services run in dependency order, ties keep registration order
type Hub struct {
	mu      sync.Mutex
	log     logrus.FieldLogger
	entries []*entry
	byName  map[string]*entry
	order   []*entry // nil until computed
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{log: log, byName: make(map[string]*entry)}
}

// Register adds svc, initArgs are passed to its Init
func (h *Hub) Register(svc Service, initArgs ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.byName[name]; exists {
		return errors.Errorf("service already registered: %s", name)
	}
	e := &entry{svc: svc, args: initArgs}
	h.entries = append(h.entries, e)
	h.byName[name] = e
	h.order = nil
	return nil
}

func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.byName[name]; ok {
		return e.svc, true
	}
	return nil, false
}

// MustGet returns the service registered as name converted to T
// It panics when the service is missing or has another type
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic("service not found: " + name)
	}
	typed, ok := svc.(T)
	if !ok {
		panic(errors.Errorf("service %s: type mismatch, got %T", name, svc))
	}
	return typed
}

// InitAll initializes every registered service
// A failure stops the services initialized so far, newest first
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order, err := h.resolve()
	if err != nil {
		return err
	}
	for _, e := range order {
		if e.state >= initialized {
			continue
		}
		if err := e.svc.Init(e.args...); err != nil {
			h.rollback()
			return errors.Wrapf(err, "service %s init failed", e.svc.Name())
		}
		e.state = initialized
		h.log.WithField("service", e.svc.Name()).Debug("service initialized")
	}
	return nil
}

// StartAll starts every initialized service, with the same rollback as InitAll
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.order {
		if e.state != initialized {
			continue
		}
		if err := e.svc.Start(); err != nil {
			h.rollback()
			return errors.Wrapf(err, "service %s start failed", e.svc.Name())
		}
		e.state = started
		h.log.WithField("service", e.svc.Name()).Debug("service started")
	}
	return nil
}

// StopAll stops every initialized or started service in reverse dependency order
// Stop errors are logged, every service gets its Stop call
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rollback()
}

func (h *Hub) rollback() {
	for i := len(h.order) - 1; i >= 0; i-- {
		e := h.order[i]
		if e.state == registered {
			continue
		}
		if err := e.svc.Stop(); err != nil {
			h.log.WithError(err).WithFields(logrus.Fields{
				"service": e.svc.Name(),
				"state":   e.state.String(),
			}).Warn("service stop failed")
		}
		e.state = registered
	}
}

// resolve orders services so each follows its dependencies, depth first from registration order
func (h *Hub) resolve() ([]*entry, error) {
	if h.order != nil {
		return h.order, nil
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[*entry]int, len(h.entries))
	order := make([]*entry, 0, len(h.entries))
	var path []string

	var visit func(e *entry) error
	visit = func(e *entry) error {
		name := e.svc.Name()
		switch marks[e] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("circular dependency: %s -> %s", strings.Join(path, " -> "), name)
		}
		marks[e] = visiting
		path = append(path, name)
		for _, dep := range e.svc.Dependencies() {
			d, ok := h.byName[dep]
			if !ok {
				return errors.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		marks[e] = done
		order = append(order, e)
		return nil
	}

	for _, e := range h.entries {
		if err := visit(e); err != nil {
			return nil, err
		}
	}
	h.order = order
	return order, nil
}
