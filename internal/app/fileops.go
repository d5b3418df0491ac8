package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/kk-code-lab/ccc/internal/state"
)

var errExists = errors.New("destination exists")

func pluralize(n int, noun string) string {
	return english.Plural(n, noun, "")
}

// bulk runs op for every marked entry, then clears the marks and reloads.
func (a *Application) bulk(verb string, op func(e state.Entry) error) {
	entries := a.sess.Marks.Entries()
	var failed int
	var firstErr error
	for _, e := range entries {
		if err := op(e); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			a.logger.WithError(err).WithField("path", e.Path).Warnf("%s failed", verb)
		}
	}

	a.sess.ClearMarks()
	_ = a.sess.Reload()
	a.previewer.Invalidate()

	done := len(entries) - failed
	if firstErr != nil {
		a.sess.SetStatus("%s %s, %d failed: %v", verb, pluralize(done, "item"), failed, firstErr)
		return
	}
	a.sess.SetStatus("%s %s", verb, pluralize(done, "item"))
}

func (a *Application) trashMarked() {
	dir := a.cfg.TrashDir
	if dir == "" {
		a.sess.SetStatus("no trash directory configured")
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.sess.SetStatus("cannot create %s: %v", dir, err)
		return
	}
	a.bulk("trashed", func(e state.Entry) error {
		return movePath(e.Path, uniqueDest(dir, filepath.Base(e.Path)))
	})
}

func (a *Application) moveMarked() {
	cwd := a.sess.Cwd
	a.bulk("moved", func(e state.Entry) error {
		dst := filepath.Join(cwd, filepath.Base(e.Path))
		if dst == e.Path {
			return nil
		}
		if exists(dst) {
			return fmt.Errorf("%s: %w", dst, errExists)
		}
		return movePath(e.Path, dst)
	})
}

func (a *Application) copyMarked() {
	cwd := a.sess.Cwd
	a.bulk("copied", func(e state.Entry) error {
		dst := filepath.Join(cwd, filepath.Base(e.Path))
		if exists(dst) {
			return fmt.Errorf("%s: %w", dst, errExists)
		}
		return copyTree(e.Path, dst)
	})
}

func (a *Application) linkMarked() {
	cwd := a.sess.Cwd
	a.bulk("linked", func(e state.Entry) error {
		dst := filepath.Join(cwd, filepath.Base(e.Path))
		if exists(dst) {
			return fmt.Errorf("%s: %w", dst, errExists)
		}
		return os.Symlink(e.Path, dst)
	})
}

func (a *Application) resolveInCwd(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), true
	}
	return filepath.Join(a.sess.Cwd, name), true
}

// afterCreate reloads and selects the entry of the current directory that
// contains path.
func (a *Application) afterCreate(path, what string) {
	_ = a.sess.Reload()
	a.previewer.Invalidate()
	if rel, err := filepath.Rel(a.sess.Cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
		a.sess.SelectPath(filepath.Join(a.sess.Cwd, top))
	}
	a.sess.SetStatus("created %s %s", what, filepath.Base(path))
}

func (a *Application) createFile(name string) {
	path, ok := a.resolveInCwd(name)
	if !ok {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		a.sess.SetStatus("cannot create %s: %v", filepath.Dir(path), err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		a.sess.SetStatus("cannot create %s: %v", path, unwrapPath(err))
		return
	}
	_ = f.Close()
	a.afterCreate(path, "file")
}

func (a *Application) createDir(name string) {
	path, ok := a.resolveInCwd(name)
	if !ok {
		return
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		a.sess.SetStatus("cannot create %s: %v", path, unwrapPath(err))
		return
	}
	a.afterCreate(path, "directory")
}

func (a *Application) renameSelection(name string) {
	cur, ok := a.sess.Current()
	if !ok {
		return
	}
	dst, ok := a.resolveInCwd(name)
	if !ok || dst == cur.Path {
		return
	}
	if exists(dst) {
		a.sess.SetStatus("%s already exists", filepath.Base(dst))
		return
	}
	if err := os.Rename(cur.Path, dst); err != nil {
		a.sess.SetStatus("rename failed: %v", unwrapPath(err))
		return
	}
	if a.sess.Marks.Remove(cur.Path) {
		a.logger.WithField("path", cur.Path).Debug("dropped mark of renamed entry")
	}
	_ = a.sess.Reload()
	a.previewer.Invalidate()
	a.sess.SelectPath(dst)
}

// toggleExecutable clears every execute bit when any is set and otherwise
// grants execute wherever read is granted.
func (a *Application) toggleExecutable() {
	cur, ok := a.sess.Current()
	if !ok {
		return
	}
	info, err := os.Stat(cur.Path)
	if err != nil {
		a.sess.SetStatus("chmod failed: %v", unwrapPath(err))
		return
	}
	mode := toggleExecBits(info.Mode().Perm())
	if err := os.Chmod(cur.Path, mode); err != nil {
		a.sess.SetStatus("chmod failed: %v", unwrapPath(err))
		return
	}
	_ = a.sess.Reload()
	a.sess.SetStatus("%s is now %s", cur.Name, mode)
}

func toggleExecBits(perm fs.FileMode) fs.FileMode {
	if perm&0o111 != 0 {
		return perm &^ 0o111
	}
	return perm | (perm&0o444)>>2
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// uniqueDest returns dir/name, or a timestamped variant when that is taken.
func uniqueDest(dir, name string) string {
	dst := filepath.Join(dir, name)
	if !exists(dst) {
		return dst
	}
	stamp := time.Now().Format("20060102-150405")
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s.%s", dst, stamp)
		if i > 0 {
			candidate = fmt.Sprintf("%s.%s-%d", dst, stamp, i)
		}
		if !exists(candidate) {
			return candidate
		}
	}
}

// movePath renames src to dst, copying across filesystems when needed.
func movePath(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// copyTree copies src to dst. Directories are copied recursively and
// symlinks are recreated rather than followed.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return fmt.Errorf("%s: cannot copy %s", path, info.Mode().Type())
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
