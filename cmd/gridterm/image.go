package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/graphics"
	"github.com/lixenwraith/gridterm/terminal"
)

var renderMethods = map[string]graphics.RenderMethod{
	"small": graphics.SmallBlocks,
	"large": graphics.LargeBlocks,
	"gray":  graphics.GrayScale,
}

var scales = map[string]graphics.Scale{
	"100": graphics.NoScale,
	"50":  graphics.Scale50,
	"33":  graphics.Scale33,
	"25":  graphics.Scale25,
	"20":  graphics.Scale20,
	"10":  graphics.Scale10,
	"5":   graphics.Scale5,
}

type imageOptions struct {
	method string
	scale  string
	print  bool
}

func newImageCmd(opts *options) *cobra.Command {
	iopts := &imageOptions{}
	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Render a PNG or JPEG image with character blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd, opts, iopts, args[0])
		},
	}
	cmd.Flags().StringVarP(&iopts.method, "method", "m", "small", "render method: small, large, gray")
	cmd.Flags().StringVar(&iopts.scale, "scale", "100", "scale percent: 100, 50, 33, 25, 20, 10, 5")
	cmd.Flags().BoolVarP(&iopts.print, "print", "p", false, "write ANSI rows to stdout instead of opening the terminal")
	return cmd
}

// loadImage decodes path and converts it to a graphics.Image
func loadImage(path string) (*graphics.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer fh.Close()

	src, _, err := image.Decode(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return graphics.ImageFromImage(src)
}

func parseRender(method, scale string) (graphics.RenderMethod, graphics.Scale, error) {
	m, ok := renderMethods[strings.ToLower(method)]
	if !ok {
		return 0, 0, errors.Errorf("unknown render method %q", method)
	}
	sc, ok := scales[strings.TrimSuffix(scale, "%")]
	if !ok {
		return 0, 0, errors.Errorf("unsupported scale %q", scale)
	}
	return m, sc, nil
}

// renderImage draws img on a surface of exactly its render size
func renderImage(img *graphics.Image, method graphics.RenderMethod, scale graphics.Scale) *graphics.Surface {
	sz := img.RenderSize(method, scale)
	s := graphics.NewSurface(max(sz.Width, 1), max(sz.Height, 1))
	s.DrawImage(0, 0, img, method, scale)
	return s
}

// writeAnsi prints the surface row by row with SGR colors
func writeAnsi(w io.Writer, s *graphics.Surface, useColorSchema bool) error {
	f := terminal.NewAnsiFormatter(s.Width()*24, useColorSchema)
	chars := s.Chars()
	for y := 0; y < s.Height(); y++ {
		f.Clear()
		for x := 0; x < s.Width(); x++ {
			ch := chars[y*s.Width()+x]
			f.SetColor(ch.Fg, ch.Bg)
			if ch.Code < ' ' {
				f.WriteChar(' ')
			} else {
				f.WriteChar(ch.Code)
			}
		}
		f.ResetColor()
		f.WriteString("\n")
		if _, err := w.Write(f.Bytes()); err != nil {
			return errors.Wrap(err, "write image")
		}
	}
	return nil
}

func runImage(cmd *cobra.Command, opts *options, iopts *imageOptions, path string) error {
	f, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	log, logFile := setupLogging(f.Log, opts.debug)
	if logFile != nil {
		defer logFile.Close()
	}

	method, scale, err := parseRender(iopts.method, iopts.scale)
	if err != nil {
		return err
	}
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	log.WithField("size", fmt.Sprintf("%dx%d", img.Width(), img.Height())).Debug("image loaded")

	picture := renderImage(img, method, scale)
	if iopts.print {
		return writeAnsi(cmd.OutOrStdout(), picture, f.ColorSchema)
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

	err = sess.Run(ctx, func(ev terminal.SystemEvent, s *graphics.Surface) bool {
		if ev.Type == terminal.EventKeyPressed || ev.Type == terminal.EventAppClose {
			return false
		}
		s.Clear(graphics.DefaultCharacter)
		x := max((s.Width()-picture.Width())/2, 0)
		y := max((s.Height()-picture.Height())/2, 0)
		s.DrawSurface(x, y, picture)
		s.HideCursor()
		return true
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
