// Command gridterm drives the terminal backends from the command line
//
// Subcommands:
//
//	demo    interactive input echo with a draggable marker (default)
//	script  replays a debug script headlessly against the demo
//	image   renders a PNG or JPEG with the character quantizer
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/config"
	"github.com/lixenwraith/gridterm/service"
	"github.com/lixenwraith/gridterm/terminal"
)

// options holds the persistent flags shared by every subcommand
type options struct {
	configPath  string
	backend     string
	size        string
	title       string
	debug       bool
	colorSchema bool
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mGRIDTERM CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(2)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "gridterm: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "gridterm",
		Short: "Character-grid terminal rendering toolkit",
		Long: `gridterm renders character surfaces through interchangeable terminal backends:
the Windows console, a tcell screen, raw termios with ANSI output, an xterm.js
bridge and a headless debug backend driven by scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, opts)
		},
	}

	addPersistentFlags(root, opts)
	root.AddCommand(newDemoCmd(opts), newScriptCmd(opts), newImageCmd(opts))
	return root
}

func addPersistentFlags(cmd *cobra.Command, opts *options) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	pf.StringVarP(&opts.backend, "backend", "b", "", "backend: auto, windows, ncurses, termios, web, debug")
	pf.StringVarP(&opts.size, "size", "s", "", "fixed screen size as WxH")
	pf.StringVar(&opts.title, "title", "", "window title where supported")
	pf.BoolVar(&opts.debug, "debug", false, "write a debug log")
	pf.BoolVar(&opts.colorSchema, "color-schema", false, "use the 16-color SGR palette instead of true color")
}

// resolve loads the config file, then applies the flags the user set explicitly
func (o *options) resolve(cmd *cobra.Command) (config.File, error) {
	f := config.Default()
	if o.configPath != "" {
		var err error
		if f, err = config.Load(o.configPath); err != nil {
			return config.File{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		f.Backend = o.backend
	}
	if flags.Changed("size") {
		w, h, err := parseSize(o.size)
		if err != nil {
			return config.File{}, err
		}
		f.Width, f.Height = w, h
	}
	if flags.Changed("title") {
		f.Title = o.title
	}
	if flags.Changed("color-schema") {
		f.ColorSchema = o.colorSchema
	}
	if o.debug {
		f.Log.Debug = true
	}
	return f, f.Validate()
}

// parseSize reads "WxH"
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.Errorf("invalid size %q, expecting WxH", s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w < 1 || h < 1 {
		return 0, 0, errors.Errorf("invalid size %q, expecting positive WxH", s)
	}
	return w, h, nil
}

// openSession registers a terminal session in a service hub and starts it
// The caller stops the hub, which closes the backend
func openSession(cfg terminal.Config, log logrus.FieldLogger) (*terminal.Session, *service.Hub, error) {
	sess := terminal.NewSession(cfg)
	hub := service.NewHub(log)
	if err := hub.Register(sess); err != nil {
		return nil, nil, err
	}
	if err := hub.InitAll(); err != nil {
		return nil, nil, errors.Wrap(err, "open terminal")
	}
	if err := hub.StartAll(); err != nil {
		hub.StopAll()
		return nil, nil, errors.Wrap(err, "start terminal")
	}
	return sess, hub, nil
}

// signalContext cancels on SIGINT and SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
