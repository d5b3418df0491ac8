//go:build !windows

package app

import "syscall"

func (a *Application) suspendToShell() {
	if err := a.term.Suspend(); err != nil {
		a.sess.SetStatus("suspend: %v", err)
		return
	}
	// Stop only this process; signalling the group would also stop the
	// shell function that launched ccc.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)

	if err := a.term.Resume(); err != nil {
		a.logger.WithError(err).Error("resume after stop")
		a.quit = true
		return
	}
	a.refreshGeometry()
}
