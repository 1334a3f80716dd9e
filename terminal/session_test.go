package terminal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gridterm/graphics"
)

// channelBackend is a multi-threaded backend whose events are pushed by the test
type channelBackend struct {
	clipboardAccess
	size    graphics.Size
	frames  int
	resized []graphics.Size
	closed  bool
}

func (b *channelBackend) UpdateScreen(s *graphics.Surface) {
	checkSurfaceSize(s, b.size)
	b.frames++
}
func (b *channelBackend) OnResize(size graphics.Size) {
	b.size = size
	b.resized = append(b.resized, size)
}
func (b *channelBackend) Size() graphics.Size                   { return b.size }
func (b *channelBackend) QuerySystemEvent() (SystemEvent, bool) { return SystemEvent{}, false }
func (b *channelBackend) IsSingleThreaded() bool                { return false }
func (b *channelBackend) Close() error {
	b.closed = true
	return nil
}

func newChannelSession(w, h int) (*Session, *channelBackend, chan SystemEvent) {
	events := make(chan SystemEvent, 8)
	b := &channelBackend{
		clipboardAccess: clipboardAccess{provider: &MemoryClipboard{}, log: discardLogger()},
		size:            graphics.Size{Width: w, Height: h},
	}
	s := &Session{
		log:     discardLogger(),
		backend: b,
		surface: graphics.NewSurface(w, h),
		events:  events,
	}
	return s, b, events
}

func TestSessionRunWithDebugScript(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(Config{
		DebugScript: "Key.TypeText(hi)\nResize(20,12)\nPaint(done)",
		Size:        &graphics.Size{Width: 30, Height: 10},
		Output:      &out,
		Logger:      discardLogger(),
	})
	require.NoError(t, s.Init())
	require.NoError(t, s.Start())
	defer s.Stop()

	var typed []rune
	var sawClose bool
	err := s.Run(context.Background(), func(ev SystemEvent, surf *graphics.Surface) bool {
		switch ev.Type {
		case EventKeyPressed:
			typed = append(typed, ev.Char)
			surf.WriteString(0, 0, string(typed), graphics.DefaultAttribute, false)
		case EventAppClose:
			sawClose = true
		}
		return true
	})
	require.NoError(t, err)
	assert.True(t, sawClose)
	assert.Equal(t, "hi", string(typed))
	assert.Equal(t, graphics.Size{Width: 20, Height: 12}, s.Surface().Size())
	assert.Contains(t, out.String(), "done")

	report, ok := s.Backend().(ScriptReport)
	require.True(t, ok)
	assert.Zero(t, report.Remaining())
}

func TestSessionNextSingleThreadedRepaint(t *testing.T) {
	s := NewSession(Config{DebugScript: "Paint", Logger: discardLogger()})
	require.NoError(t, s.Init())

	ev, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventNone, ev.Type)

	ev, err = s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventAppClose, ev.Type)
}

func TestSessionHandlerStops(t *testing.T) {
	s, b, events := newChannelSession(10, 5)
	events <- keyEvent(Key{Code: KeyQ}, 'q')
	events <- keyEvent(Key{Code: KeyX}, 'x')

	var seen int
	err := s.Run(context.Background(), func(ev SystemEvent, _ *graphics.Surface) bool {
		if ev.Type == EventNone {
			return true
		}
		seen++
		return ev.Key.Code != KeyQ
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
	assert.Equal(t, 1, b.frames)
}

func TestSessionResizeBeforePaint(t *testing.T) {
	s, b, events := newChannelSession(10, 5)
	events <- resizeEvent(40, 20)
	events <- SystemEvent{Type: EventAppClose}

	err := s.Run(context.Background(), func(ev SystemEvent, surf *graphics.Surface) bool {
		if ev.Type == EventResize {
			assert.Equal(t, graphics.Size{Width: 40, Height: 20}, surf.Size())
		}
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []graphics.Size{{Width: 40, Height: 20}}, b.resized)
	assert.Equal(t, 2, b.frames)
}

func TestSessionOversizedResizeKeepsBackendInStep(t *testing.T) {
	s, b, events := newChannelSession(10, 5)
	events <- resizeEvent(20000, 20)
	events <- SystemEvent{Type: EventAppClose}

	err := s.Run(context.Background(), func(SystemEvent, *graphics.Surface) bool { return true })
	require.NoError(t, err)
	want := graphics.Size{Width: graphics.MaxSurfaceWidth, Height: 20}
	assert.Equal(t, want, s.Surface().Size())
	assert.Equal(t, []graphics.Size{want}, b.resized)
}

func TestSessionDebugScriptOversizedResize(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(Config{
		DebugScript: "Resize(20000,20)\nPaint('x')",
		Output:      &out,
		Logger:      discardLogger(),
	})
	require.NoError(t, s.Init())
	defer s.Stop()

	require.NotPanics(t, func() {
		require.NoError(t, s.Run(context.Background(), func(SystemEvent, *graphics.Surface) bool { return true }))
	})
	assert.Equal(t, graphics.Size{Width: debugMaxSize, Height: 20}, s.Surface().Size())
	assert.Equal(t, s.Surface().Size(), s.Backend().Size())
}

func TestSessionContextCancel(t *testing.T) {
	s, _, _ := newChannelSession(10, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, func(SystemEvent, *graphics.Surface) bool { return true })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionReaderError(t *testing.T) {
	s, _, events := newChannelSession(10, 5)
	boom := errors.New("read failed")
	events <- SystemEvent{Type: EventError, Err: boom}

	err := s.Run(context.Background(), func(SystemEvent, *graphics.Surface) bool { return true })
	assert.ErrorIs(t, err, boom)
}

func TestSessionStopClosesBackend(t *testing.T) {
	s, b, _ := newChannelSession(10, 5)
	require.NoError(t, s.Stop())
	assert.True(t, b.closed)
	require.NoError(t, s.Stop())
}

func TestSessionNotInitialized(t *testing.T) {
	s := NewSession(Config{})
	assert.Error(t, s.Start())
	assert.Error(t, s.Run(context.Background(), nil))
	assert.NoError(t, s.Stop())
}
