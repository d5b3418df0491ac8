package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kk-code-lab/ccc/internal/config"
	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/kk-code-lab/ccc/internal/proc"
	"github.com/kk-code-lab/ccc/internal/state"
	"github.com/kk-code-lab/ccc/internal/term"
	"github.com/kk-code-lab/ccc/internal/ui/input"
	"github.com/kk-code-lab/ccc/internal/ui/render"
	"github.com/kk-code-lab/ccc/internal/watch"
	"github.com/sirupsen/logrus"
)

// Terminal is the part of term.Session the application drives.
type Terminal interface {
	ReadByteTimeout(d time.Duration) (byte, error)
	Screen() *term.Screen
	Geometry() (term.Geometry, error)
	TakeResize() bool
	Wake()
	Suspend() error
	Resume() error
}

// Options configures NewApplication.
type Options struct {
	// Dir is the starting directory; empty means the working directory.
	Dir    string
	Config *config.Config
	Logger logrus.FieldLogger
	// Terminal overrides the controlling terminal, mainly for tests. When
	// nil, /dev/tty is opened and owned by the application.
	Terminal Terminal
	// Commands overrides command resolution from Config.
	Commands *config.Commands
}

// Application is a running browser: the terminal, the session, and the
// pieces that turn keys into state changes and state into frames.
type Application struct {
	cfg    *config.Config
	cmds   config.Commands
	logger logrus.FieldLogger

	term     Terminal
	closeTTY func() error

	sess      *state.Session
	decoder   *input.Decoder
	handler   *input.Handler
	renderer  *render.Renderer
	previewer *render.Previewer
	runner    *proc.Runner
	watcher   *watch.Watcher

	geometry    term.Geometry
	splitOffset int
	prompt      *prompt
	quit        bool
}

// NewApplication prepares the terminal and loads the starting directory.
// Conditions that make the UI unusable (no terminal, unsupported TERM, a
// window below the minimum size) are returned as errors.
func NewApplication(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	keymap, err := cfg.Keymap()
	if err != nil {
		return nil, err
	}
	hide, err := state.CompileHidePatterns(cfg.HidePatterns)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:         cfg,
		logger:      logger,
		runner:      proc.NewRunner(logger),
		handler:     input.NewHandler(keymap),
		splitOffset: cfg.SplitOffset,
	}
	if opts.Commands != nil {
		a.cmds = *opts.Commands
	} else {
		a.cmds = cfg.Resolve()
	}

	a.term = opts.Terminal
	if a.term == nil {
		if err := checkTermEnv(os.Getenv("TERM")); err != nil {
			return nil, err
		}
		tty, err := term.Open(logger)
		if err != nil {
			return nil, err
		}
		if err := tty.Enter(); err != nil {
			_ = tty.Close()
			return nil, err
		}
		a.term = tty
		a.closeTTY = tty.Close
	}

	g, err := a.term.Geometry()
	if err == nil {
		err = g.CheckMinimum(cfg.MinRows, cfg.MinCols)
	}
	if err != nil {
		a.closeTerminal()
		return nil, err
	}
	a.geometry = g

	a.sess = state.NewSession(state.Options{
		ShowHidden:  cfg.ShowHidden,
		ShowDetails: cfg.ShowDetails,
		ShowIcons:   cfg.ShowIcons,
		DirsSize:    cfg.DirsSize,
		Hide:        hide,
		Logger:      logger,
	})
	a.decoder = input.NewDecoder(a.term)
	a.previewer = render.NewPreviewer(a.runner, a.cmds.Preview, a.sess.ListDir, logger)
	a.renderer = render.NewRenderer(a.term.Screen(), a.previewer, logger)

	dir := opts.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			a.closeTerminal()
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	// A directory that can not be read still starts the UI; the status
	// line reports it.
	_ = a.sess.Load(dir)

	if cfg.Watch {
		w, err := watch.New(a.term.Wake, logger)
		if err != nil {
			logger.WithError(err).Warn("directory watching disabled")
		} else {
			a.watcher = w
			a.syncWatcher()
		}
	}
	return a, nil
}

// checkTermEnv rejects terminals that can not display colors or move the
// cursor.
func checkTermEnv(termEnv string) error {
	switch strings.TrimSpace(termEnv) {
	case "":
		return fmt.Errorf("%w: TERM is not set", term.ErrNotTerminal)
	case "dumb":
		return fmt.Errorf("%w: TERM=dumb does not support colors", term.ErrNotTerminal)
	}
	return nil
}

// Session exposes the browser state.
func (a *Application) Session() *state.Session {
	return a.sess
}

// CurrentPath returns the directory the browser is showing.
func (a *Application) CurrentPath() string {
	return a.sess.Cwd
}

// Close stops the watcher and restores the terminal if the application owns
// it.
func (a *Application) Close() error {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.WithError(err).Debug("close watcher")
		}
		a.watcher = nil
	}
	return a.closeTerminal()
}

func (a *Application) closeTerminal() error {
	if a.closeTTY == nil {
		return nil
	}
	err := a.closeTTY()
	a.closeTTY = nil
	return err
}

func (a *Application) syncWatcher() {
	if a.watcher == nil || a.sess.LoadErr != nil || a.watcher.Dir() == a.sess.Cwd {
		return
	}
	if err := a.watcher.Watch(a.sess.Cwd); err != nil {
		a.logger.WithError(err).WithField("path", a.sess.Cwd).Debug("watch directory")
	}
}

func (a *Application) redraw(ctx context.Context) error {
	return a.renderer.Redraw(ctx, render.Frame{
		Session:     a.sess,
		Geometry:    a.geometry,
		SplitOffset: a.splitOffset,
		Keymap:      a.handler.Keymap(),
		Prompt:      a.promptLine(),
		MinRows:     a.cfg.MinRows,
		MinCols:     a.cfg.MinCols,
	})
}

// refreshGeometry re-queries the window size. A failed query keeps the last
// known size.
func (a *Application) refreshGeometry() {
	g, err := a.term.Geometry()
	if err != nil {
		a.logger.WithError(err).Warn("query terminal size")
		return
	}
	a.geometry = g
}

// pageSize is the number of listing rows in the current geometry.
func (a *Application) pageSize() int {
	if n := a.geometry.Rows - 1; n > 0 {
		return n
	}
	return 1
}
