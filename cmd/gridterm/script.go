package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridterm/terminal"
)

// scriptResult summarizes a replay
type scriptResult struct {
	failures  []string
	remaining int
	aborted   bool // a check failed with errors enabled
}

func (r scriptResult) passed() bool {
	return len(r.failures) == 0
}

func newScriptCmd(opts *options) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Replay a debug script against the demo without a terminal",
		Long: `script runs the demo on the debug backend, feeding it the events the script
describes and checking surface hashes and cursor positions where requested.
Frames requested with Paint are written to stdout unless --quiet is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, opts, args[0], quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress Paint frame dumps")
	return cmd
}

func runScript(cmd *cobra.Command, opts *options, path string, quiet bool) error {
	f, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	log, logFile := setupLogging(f.Log, opts.debug)
	if logFile != nil {
		defer logFile.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read script")
	}
	cfg, err := f.ToTerminal(log)
	if err != nil {
		return err
	}
	cfg.Type = terminal.TypeDebug
	cfg.DebugScript = string(data)
	cfg.Output = cmd.OutOrStdout()
	if quiet {
		cfg.Output = io.Discard
	}

	res, err := replay(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), path, res)
	if !res.passed() {
		return errors.Errorf("script %s: %d check(s) failed", path, len(res.failures))
	}
	return nil
}

// replay runs the demo until the script is exhausted or a check aborts it
func replay(ctx context.Context, cfg terminal.Config, log logrus.FieldLogger) (res scriptResult, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sess, hub, err := openSession(cfg, log)
	if err != nil {
		return scriptResult{}, err
	}
	defer hub.StopAll()

	defer func() {
		if r := recover(); r != nil {
			cf, ok := r.(*terminal.CheckFailure)
			if !ok {
				panic(r)
			}
			res.aborted = true
			res.failures = append(res.failures, cf.Msg)
		}
		if report, ok := sess.Backend().(terminal.ScriptReport); ok {
			res.failures = append(append([]string(nil), report.Failures()...), res.failures...)
			res.remaining = report.Remaining()
		}
	}()

	d := newDemo(sess.Backend())
	err = sess.Run(ctx, d.handle)
	return res, err
}

func printReport(w io.Writer, path string, res scriptResult) {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	note := color.New(color.FgYellow)

	if res.passed() {
		pass.Fprint(w, "PASS")
	} else {
		fail.Fprint(w, "FAIL")
	}
	fmt.Fprintf(w, " %s\n", path)

	for _, msg := range res.failures {
		fail.Fprint(w, "  - ")
		fmt.Fprintln(w, msg)
	}
	if res.aborted {
		note.Fprintln(w, "  script aborted at the first failed check")
	}
	if res.remaining > 0 {
		note.Fprintf(w, "  %d command(s) not executed\n", res.remaining)
	}
}
