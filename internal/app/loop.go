package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/ccc/internal/ui/input"
)

const splitStep = 2

// Run draws the first frame and processes input until the user quits, the
// terminal goes away, or ctx is done. On a normal quit the current directory
// is written to the last-directory file.
func (a *Application) Run(ctx context.Context) error {
	if err := a.redraw(ctx); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	for !a.quit {
		if ctx.Err() != nil {
			return nil
		}

		dirty := false
		ev, err := a.decoder.ReadKey()
		switch {
		case err == nil:
			a.handleKey(ctx, ev)
			dirty = true
		case input.IsInterrupt(err):
		case errors.Is(err, input.ErrClosed):
			a.logger.Info("terminal closed")
			return nil
		default:
			return fmt.Errorf("read input: %w", err)
		}
		if a.quit {
			break
		}

		// A resize only raises a flag; the new geometry is read here and
		// exactly one frame is drawn for it.
		if a.term.TakeResize() {
			a.refreshGeometry()
			dirty = true
		}
		if a.watcher != nil && a.watcher.TakeDirty() {
			a.logger.WithField("dir", a.sess.Cwd).Debug("reloading changed directory")
			_ = a.sess.Reload()
			a.previewer.Invalidate()
			dirty = true
		}
		if dirty {
			if err := a.redraw(ctx); err != nil {
				return fmt.Errorf("draw: %w", err)
			}
		}
	}

	if err := a.writeLastDir(); err != nil {
		a.logger.WithError(err).Warn("write last directory")
	}
	return nil
}

func (a *Application) handleKey(ctx context.Context, ev *tcell.EventKey) {
	if a.prompt != nil {
		a.editPrompt(ev)
		return
	}
	if ev.Key() == tcell.KeyCtrlZ {
		a.suspendToShell()
		return
	}

	action := a.handler.Handle(ev, input.Mode{HelpVisible: a.sess.HelpVisible})
	if action == input.ActionNone {
		return
	}
	a.sess.ClearStatus()
	a.dispatch(ctx, action)
	a.syncWatcher()
}

func (a *Application) dispatch(ctx context.Context, action input.Action) {
	s := a.sess
	switch action {
	case input.ActionQuit:
		a.quit = true
	case input.ActionDown:
		s.Move(1)
	case input.ActionUp:
		s.Move(-1)
	case input.ActionJumpDown:
		s.Move(a.cfg.JumpDistance)
	case input.ActionJumpUp:
		s.Move(-a.cfg.JumpDistance)
	case input.ActionPageDown:
		s.Move(a.pageSize())
	case input.ActionPageUp:
		s.Move(-a.pageSize())
	case input.ActionTop:
		s.Top()
	case input.ActionBottom:
		s.Bottom()
	case input.ActionParent:
		s.GoParent()
	case input.ActionEnter:
		a.enterSelection(ctx)
	case input.ActionHome:
		a.goHome()
	case input.ActionBack:
		if !s.GoBack() && s.Status == "" {
			s.SetStatus("no previous directory")
		}
	case input.ActionTrashDir:
		a.goTrash()
	case input.ActionReload:
		_ = s.Reload()
		a.previewer.Invalidate()
	case input.ActionToggleHidden:
		_ = s.ToggleHidden()
	case input.ActionToggleIcons:
		s.ShowIcons = !s.ShowIcons
	case input.ActionToggleDetails:
		s.ShowDetails = !s.ShowDetails
	case input.ActionToggleDirsSize:
		_ = s.ToggleDirsSize()
	case input.ActionHelp:
		s.HelpVisible = !s.HelpVisible
	case input.ActionMark:
		s.ToggleMark()
	case input.ActionMarkAll:
		s.MarkAll(true)
	case input.ActionClearMarks:
		s.ClearMarks()
	case input.ActionTrashMarked:
		a.confirmBulk("trash", a.trashMarked)
	case input.ActionMoveMarked:
		a.confirmBulk("move", a.moveMarked)
	case input.ActionCopyMarked:
		a.confirmBulk("copy", a.copyMarked)
	case input.ActionLinkMarked:
		a.confirmBulk("link", a.linkMarked)
	case input.ActionNewFile:
		a.startPrompt("new file: ", "", a.createFile)
	case input.ActionNewDir:
		a.startPrompt("new dir: ", "", a.createDir)
	case input.ActionRename:
		if cur, ok := s.Current(); ok {
			a.startPrompt("rename: ", cur.Name, a.renameSelection)
		}
	case input.ActionChmod:
		a.toggleExecutable()
	case input.ActionYank:
		a.yankPath(ctx)
	case input.ActionOpen:
		a.openSelection()
	case input.ActionShell:
		a.runShell(ctx)
	case input.ActionEdit:
		a.editSelection(ctx)
	case input.ActionFind:
		a.startPrompt("/", "", func(query string) { s.Find(query) })
	case input.ActionFindNext:
		s.Find("")
	case input.ActionGrowPreview:
		a.moveSplit(-splitStep)
	case input.ActionShrinkPreview:
		a.moveSplit(splitStep)
	}
}

func (a *Application) enterSelection(ctx context.Context) {
	cur, ok := a.sess.Current()
	if !ok {
		return
	}
	if cur.Navigable() {
		a.sess.Enter()
		return
	}
	a.editSelection(ctx)
}

func (a *Application) goHome() {
	home, err := os.UserHomeDir()
	if err != nil {
		a.sess.SetStatus("cannot find home directory: %v", err)
		return
	}
	_ = a.sess.ChangeDir(home)
}

func (a *Application) goTrash() {
	dir := a.cfg.TrashDir
	if dir == "" {
		a.sess.SetStatus("no trash directory configured")
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.sess.SetStatus("cannot create %s: %v", dir, err)
		return
	}
	_ = a.sess.ChangeDir(dir)
}

func (a *Application) moveSplit(delta int) {
	limit := a.geometry.Cols / 2
	next := a.splitOffset + delta
	if next > limit {
		next = limit
	}
	if next < -limit {
		next = -limit
	}
	a.splitOffset = next
}

func (a *Application) writeLastDir() error {
	path := a.cfg.LastDirFile
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(a.sess.Cwd), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
