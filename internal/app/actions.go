package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/kk-code-lab/ccc/internal/proc"
	"github.com/skratchdot/open-golang/open"
)

// Hooks for tests.
var (
	openTTY         = func() (*os.File, error) { return os.OpenFile("/dev/tty", os.O_RDWR, 0) }
	openWithSystem  = open.Start
	openWithApp     = open.StartWith
	writeClipboard  = clipboard.WriteAll
	clipboardBroken = func() bool { return clipboard.Unsupported }
)

// runInteractive hands the terminal to argv and takes it back afterwards.
// The listing is reloaded since the child may have changed the directory.
func (a *Application) runInteractive(ctx context.Context, argv []string, dir string, runner *proc.Runner) error {
	if len(argv) == 0 {
		return proc.ErrNoCommand
	}

	stdio := proc.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	if tty, err := openTTY(); err == nil {
		defer tty.Close()
		stdio = proc.Stdio{In: tty, Out: tty, Err: tty}
	}

	if err := a.term.Suspend(); err != nil {
		return fmt.Errorf("suspend terminal: %w", err)
	}
	res, runErr := runner.Run(ctx, argv, dir, stdio)
	if err := a.term.Resume(); err != nil {
		return fmt.Errorf("resume terminal: %w", err)
	}

	a.refreshGeometry()
	_ = a.sess.Reload()
	a.previewer.Invalidate()

	if runErr != nil {
		return runErr
	}
	if res.ExitCode != 0 {
		a.sess.SetStatus("%s exited with status %d", filepath.Base(argv[0]), res.ExitCode)
	}
	return nil
}

func (a *Application) editSelection(ctx context.Context) {
	cur, ok := a.sess.Current()
	if !ok {
		return
	}
	if cur.Navigable() {
		a.sess.SetStatus("%s is a directory", cur.Name)
		return
	}
	if len(a.cmds.Editor) == 0 {
		a.sess.SetStatus("no editor found, set $EDITOR")
		return
	}
	argv := append(append([]string(nil), a.cmds.Editor...), cur.Path)
	if err := a.runInteractive(ctx, argv, a.sess.Cwd, a.runner); err != nil {
		a.sess.SetStatus("editor: %v", err)
	}
}

func (a *Application) runShell(ctx context.Context) {
	if len(a.cmds.Shell) == 0 {
		a.sess.SetStatus("no shell found, set $SHELL")
		return
	}
	runner := a.runner.WithEnv("CCC_SHELL=1")
	if err := a.runInteractive(ctx, a.cmds.Shell, a.sess.Cwd, runner); err != nil {
		a.sess.SetStatus("shell: %v", err)
	}
}

func (a *Application) openSelection() {
	cur, ok := a.sess.Current()
	if !ok {
		return
	}
	var err error
	if a.cfg.Opener != "" {
		err = openWithApp(cur.Path, a.cfg.Opener)
	} else {
		err = openWithSystem(cur.Path)
	}
	if err != nil {
		a.logger.WithError(err).WithField("path", cur.Path).Warn("open")
		a.sess.SetStatus("open failed: %v", err)
		return
	}
	a.sess.SetStatus("opened %s", cur.Name)
}

// yankPath puts the selected path on the clipboard, through the configured
// program when there is one.
func (a *Application) yankPath(ctx context.Context) {
	cur, ok := a.sess.Current()
	if !ok {
		return
	}
	path := filepath.Clean(cur.Path)

	if len(a.cmds.Clipboard) > 0 {
		res, err := a.runner.Run(ctx, a.cmds.Clipboard, a.sess.Cwd, proc.Stdio{In: strings.NewReader(path)})
		switch {
		case err != nil:
			a.sess.SetStatus("clipboard: %v", err)
		case res.ExitCode != 0:
			a.sess.SetStatus("clipboard: %s exited with status %d", filepath.Base(a.cmds.Clipboard[0]), res.ExitCode)
		default:
			a.sess.SetStatus("copied %s", path)
		}
		return
	}

	if clipboardBroken() {
		a.sess.SetStatus("no clipboard available")
		return
	}
	if err := writeClipboard(path); err != nil {
		a.sess.SetStatus("clipboard: %v", err)
		return
	}
	a.sess.SetStatus("copied %s", path)
}
