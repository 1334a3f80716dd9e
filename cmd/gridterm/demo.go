package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/graphics"
	"github.com/lixenwraith/gridterm/terminal"
)

const (
	demoLogSize = 10
	demoTitle   = "Input Test - Press keys, move mouse, drag the [X] - Ctrl+Y copies, Ctrl+V pastes, Ctrl+Q quits"
)

var (
	demoBackground = graphics.NewCharacter(' ', graphics.Silver, graphics.Black, graphics.NoFlags)
	demoTitleAttr  = graphics.NewAttribute(graphics.White, graphics.DarkBlue, graphics.Bold)
	demoLineAttr   = graphics.AttributeWithColor(graphics.Gray, graphics.Black)
	demoTextAttr   = graphics.AttributeWithColor(graphics.Silver, graphics.Black)
	demoMarkerAttr = graphics.NewAttribute(graphics.Green, graphics.Black, graphics.Bold)
	demoDragAttr   = graphics.NewAttribute(graphics.Yellow, graphics.Black, graphics.Bold)
)

// clipboard is the part of a backend the demo copies to and pastes from
type clipboard interface {
	ClipboardText() (string, bool)
	SetClipboardText(text string)
}

// demo echoes events into a rolling log and lets the mouse drag a marker
type demo struct {
	clip     clipboard
	log      []string
	marker   graphics.Point
	placed   bool
	dragging bool
}

func newDemo(clip clipboard) *demo {
	return &demo{clip: clip, log: make([]string, 0, demoLogSize)}
}

func (d *demo) addLog(s string) {
	if len(d.log) >= demoLogSize {
		copy(d.log, d.log[1:])
		d.log = d.log[:demoLogSize-1]
	}
	d.log = append(d.log, s)
}

func (d *demo) lastLog() string {
	if len(d.log) == 0 {
		return ""
	}
	return d.log[len(d.log)-1]
}

func (d *demo) onMarker(x, y int) bool {
	return y == d.marker.Y && x >= d.marker.X && x < d.marker.X+3
}

func (d *demo) clampMarker(w, h int) {
	d.marker.X = max(min(d.marker.X, w-3), 0)
	d.marker.Y = max(min(d.marker.Y, h-1), 0)
}

// handle is a terminal.Handler
func (d *demo) handle(ev terminal.SystemEvent, s *graphics.Surface) bool {
	if !d.placed {
		d.marker = graphics.Point{X: s.Width() / 2, Y: s.Height() / 2}
		d.placed = true
	}

	switch ev.Type {
	case terminal.EventNone:
	case terminal.EventAppClose:
		return false
	case terminal.EventKeyPressed:
		switch ev.Key {
		case terminal.NewKey(terminal.KeyC, terminal.ModCtrl), terminal.NewKey(terminal.KeyQ, terminal.ModCtrl):
			return false
		case terminal.NewKey(terminal.KeyY, terminal.ModCtrl):
			text := d.lastLog()
			d.clip.SetClipboardText(text)
			d.addLog(fmt.Sprintf("COPY: %q", text))
		case terminal.NewKey(terminal.KeyV, terminal.ModCtrl):
			if text, ok := d.clip.ClipboardText(); ok {
				d.addLog(fmt.Sprintf("CLIPBOARD: %q", text))
			} else {
				d.addLog("CLIPBOARD: empty")
			}
		default:
			d.addLog(ev.String())
		}
	case terminal.EventMouseButtonDown:
		d.addLog(ev.String())
		if ev.Button == terminal.MouseButtonLeft && d.onMarker(ev.X, ev.Y) {
			d.dragging = true
		}
	case terminal.EventMouseButtonUp:
		d.addLog(ev.String())
		d.dragging = false
	case terminal.EventMouseMove:
		if d.dragging {
			d.marker = graphics.Point{X: ev.X, Y: ev.Y}
			d.clampMarker(s.Width(), s.Height())
		}
	case terminal.EventResize:
		d.addLog(fmt.Sprintf("RESIZE: %dx%d", ev.Size.Width, ev.Size.Height))
		d.clampMarker(ev.Size.Width, ev.Size.Height)
	default:
		d.addLog(ev.String())
	}

	d.draw(s)
	return true
}

func (d *demo) draw(s *graphics.Surface) {
	w, h := s.Width(), s.Height()
	s.Clear(demoBackground)

	s.FillHorizontalLineWithSize(0, 0, w, graphics.WithAttributes(' ', demoTitleAttr))
	s.WriteText(demoTitle, graphics.TextFormat{X: w / 2, Y: 0, Attr: demoTitleAttr, Align: graphics.AlignCenter, Width: w})
	s.DrawHorizontalLineWithSize(0, 1, w, graphics.LineSingle, demoLineAttr)

	for i, entry := range d.log {
		y := 2 + i
		if y >= h-2 {
			break
		}
		s.WriteString(1, y, entry, demoTextAttr, false)
	}

	attr := demoMarkerAttr
	if d.dragging {
		attr = demoDragAttr
	}
	s.WriteString(d.marker.X, d.marker.Y, "[X]", attr, false)

	s.DrawHorizontalLineWithSize(0, h-2, w, graphics.LineSingle, demoLineAttr)
	status := fmt.Sprintf("%dx%d | Marker: (%d,%d) | Drag: %v", w, h, d.marker.X, d.marker.Y, d.dragging)
	s.WriteString(1, h-1, status, demoLineAttr, false)
	s.HideCursor()
}

func newDemoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Echo input events and drag a marker with the mouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, opts)
		},
	}
}

func runDemo(cmd *cobra.Command, opts *options) error {
	f, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	log, logFile := setupLogging(f.Log, opts.debug)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := f.ToTerminal(log)
	if err != nil {
		return err
	}
	sess, hub, err := openSession(cfg, log)
	if err != nil {
		return err
	}
	defer hub.StopAll()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	d := newDemo(sess.Backend())
	err = sess.Run(ctx, d.handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
