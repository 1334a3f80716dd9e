package service

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	name    string
	deps    []string
	initErr error
	journal *[]string
	args    []any
}

func (s *recordingService) Name() string           { return s.name }
func (s *recordingService) Dependencies() []string { return s.deps }
func (s *recordingService) Init(args ...any) error {
	s.args = args
	*s.journal = append(*s.journal, "init "+s.name)
	return s.initErr
}
func (s *recordingService) Start() error {
	*s.journal = append(*s.journal, "start "+s.name)
	return nil
}
func (s *recordingService) Stop() error {
	*s.journal = append(*s.journal, "stop "+s.name)
	return nil
}

func newTestHub() *Hub {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewHub(l)
}

func TestHubLifecycleOrder(t *testing.T) {
	var journal []string
	h := newTestHub()
	require.NoError(t, h.Register(&recordingService{name: "replay", deps: []string{"terminal"}, journal: &journal}))
	require.NoError(t, h.Register(&recordingService{name: "terminal", journal: &journal}, "cfg"))

	require.NoError(t, h.InitAll())
	require.NoError(t, h.StartAll())
	h.StopAll()

	assert.Equal(t, []string{
		"init terminal", "init replay",
		"start terminal", "start replay",
		"stop replay", "stop terminal",
	}, journal)

	term := MustGet[*recordingService](h, "terminal")
	assert.Equal(t, []any{"cfg"}, term.args)
}

func TestHubDuplicateRegistration(t *testing.T) {
	var journal []string
	h := newTestHub()
	require.NoError(t, h.Register(&recordingService{name: "terminal", journal: &journal}))
	assert.Error(t, h.Register(&recordingService{name: "terminal", journal: &journal}))
}

func TestHubInitRollback(t *testing.T) {
	var journal []string
	h := newTestHub()
	boom := errors.New("no tty")
	require.NoError(t, h.Register(&recordingService{name: "a", journal: &journal}))
	require.NoError(t, h.Register(&recordingService{name: "b", deps: []string{"a"}, initErr: boom, journal: &journal}))

	err := h.InitAll()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init a", "init b", "stop a"}, journal)
}

func TestHubDependencyErrors(t *testing.T) {
	var journal []string
	h := newTestHub()
	require.NoError(t, h.Register(&recordingService{name: "a", deps: []string{"missing"}, journal: &journal}))
	assert.ErrorContains(t, h.InitAll(), "unregistered service: missing")

	h = newTestHub()
	require.NoError(t, h.Register(&recordingService{name: "a", deps: []string{"b"}, journal: &journal}))
	require.NoError(t, h.Register(&recordingService{name: "b", deps: []string{"a"}, journal: &journal}))
	assert.ErrorContains(t, h.InitAll(), "circular dependency")
}

func TestMustGetPanics(t *testing.T) {
	h := newTestHub()
	assert.Panics(t, func() { MustGet[*recordingService](h, "absent") })
}

func TestHubCycleNamesPath(t *testing.T) {
	var journal []string
	h := newTestHub()
	require.NoError(t, h.Register(&recordingService{name: "a", deps: []string{"b"}, journal: &journal}))
	require.NoError(t, h.Register(&recordingService{name: "b", deps: []string{"a"}, journal: &journal}))
	assert.ErrorContains(t, h.InitAll(), "a -> b -> a")
	assert.Empty(t, journal)
}

func TestHubStopAllClosesInitializedServices(t *testing.T) {
	var journal []string
	h := newTestHub()
	require.NoError(t, h.Register(&recordingService{name: "terminal", journal: &journal}))
	require.NoError(t, h.InitAll())
	h.StopAll()
	h.StopAll()
	assert.Equal(t, []string{"init terminal", "stop terminal"}, journal)
}

func TestHubRegistrationOrderBreaksTies(t *testing.T) {
	var journal []string
	h := newTestHub()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, h.Register(&recordingService{name: name, journal: &journal}))
	}
	require.NoError(t, h.InitAll())
	assert.Equal(t, []string{"init c", "init a", "init b"}, journal)
}
