package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load makes dir the current directory and reads it. When the directory can
// not be read the listing is left empty, the error is kept on LoadErr, and a
// status message describes it; the session stays usable either way.
func (s *Session) Load(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = filepath.Clean(dir)
	}
	s.Cwd = abs
	s.Selected = 0
	return s.Reload()
}

// Reload rebuilds the listing of the current directory from scratch. The
// selection follows the previously selected path when it still exists.
func (s *Session) Reload() error {
	var keep string
	if cur, ok := s.Current(); ok {
		keep = cur.Path
	}

	listing, err := readDirFn(s.Cwd)
	if err != nil {
		s.Store.Reset()
		s.Selected = 0
		s.LoadErr = err
		s.SetStatus("cannot read %s: %v", s.Cwd, err)
		s.logger.WithError(err).WithField("dir", s.Cwd).Warn("read directory")
		return fmt.Errorf("read %s: %w", s.Cwd, err)
	}

	s.LoadErr = nil
	s.Store.Rebuild(listing, s.rebuildOptions())
	s.logger.WithField("dir", s.Cwd).WithField("entries", s.Store.Len()).Debug("rebuilt listing")

	if keep != "" {
		if idx := s.Store.Index(keep); idx >= 0 {
			s.Selected = idx
			return nil
		}
	}
	s.clampSelection()
	return nil
}

// ChangeDir moves into dir. On failure the current directory is kept.
func (s *Session) ChangeDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		s.SetStatus("cannot open %s: %v", abs, err)
		return fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		s.SetStatus("%s is not a directory", abs)
		return fmt.Errorf("%s: not a directory", abs)
	}
	if _, err := readDirFn(abs); err != nil {
		s.SetStatus("cannot read %s: %v", abs, err)
		return fmt.Errorf("read %s: %w", abs, err)
	}

	if abs != s.Cwd {
		s.PrevDir = s.Cwd
	}
	s.Cwd = abs
	s.Selected = 0
	s.ClearStatus()
	return s.Reload()
}

// Enter descends into the selected entry when it is a directory or a link to
// one. It reports whether the directory changed.
func (s *Session) Enter() bool {
	cur, ok := s.Current()
	if !ok || !cur.Navigable() {
		return false
	}
	return s.ChangeDir(cur.Path) == nil
}

// GoParent moves to the parent directory and selects the directory that was
// just left.
func (s *Session) GoParent() bool {
	parent := filepath.Dir(s.Cwd)
	if parent == s.Cwd {
		return false
	}
	child := s.Cwd
	if err := s.ChangeDir(parent); err != nil {
		return false
	}
	s.SelectPath(child)
	return true
}

// GoBack returns to the previously visited directory.
func (s *Session) GoBack() bool {
	if s.PrevDir == "" {
		return false
	}
	return s.ChangeDir(s.PrevDir) == nil
}
