package state

import (
	"fmt"

	"github.com/gobwas/glob"
	fsutil "github.com/kk-code-lab/ccc/internal/fs"
	"github.com/kk-code-lab/ccc/internal/icons"
	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/sirupsen/logrus"
)

// readDirFn mirrors fs.ReadDir but is overridable in tests.
var readDirFn = fsutil.ReadDir

// Options configures a new Session.
type Options struct {
	ShowHidden  bool
	ShowDetails bool
	ShowIcons   bool
	DirsSize    bool
	Icons       *icons.Table
	Hide        []glob.Glob
	Logger      logrus.FieldLogger
}

// Session is the browser state: the current directory, its listing, the
// selection, and the marks. It is owned by the event loop and is not safe for
// concurrent use.
type Session struct {
	Cwd      string
	PrevDir  string
	Selected int

	Store *EntryStore
	Marks *MarkSet

	ShowHidden  bool
	ShowDetails bool
	ShowIcons   bool
	DirsSize    bool
	HelpVisible bool

	Status   string
	LoadErr  error
	Icons    *icons.Table
	Hide     []glob.Glob
	findLast string

	logger logrus.FieldLogger
}

// NewSession returns a session with nothing loaded yet.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	table := opts.Icons
	if table == nil {
		table = icons.MustBuiltin()
	}
	return &Session{
		Store:       NewEntryStore(initialCapacity),
		Marks:       NewMarkSet(),
		ShowHidden:  opts.ShowHidden,
		ShowDetails: opts.ShowDetails,
		ShowIcons:   opts.ShowIcons,
		DirsSize:    opts.DirsSize,
		Icons:       table,
		Hide:        opts.Hide,
		logger:      logger,
	}
}

// SetStatus replaces the status message.
func (s *Session) SetStatus(format string, args ...any) {
	s.Status = fmt.Sprintf(format, args...)
}

// ClearStatus removes the status message.
func (s *Session) ClearStatus() {
	s.Status = ""
}

func (s *Session) rebuildOptions() RebuildOptions {
	return RebuildOptions{
		ShowHidden: s.ShowHidden,
		DirsSize:   s.DirsSize,
		Icons:      s.Icons,
		Hide:       s.Hide,
	}
}

// ListDir builds a fresh store for dir with the session's filters. The session
// itself is not touched, so callers can use it for previews.
func (s *Session) ListDir(dir string) (*EntryStore, error) {
	listing, err := readDirFn(dir)
	if err != nil {
		return nil, err
	}
	store := NewEntryStore(initialCapacity)
	opts := s.rebuildOptions()
	opts.DirsSize = false
	store.Rebuild(listing, opts)
	return store, nil
}

// CompileHidePatterns turns shell-style patterns into matchers.
func CompileHidePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("hide pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}
