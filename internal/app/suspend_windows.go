package app

func (a *Application) suspendToShell() {
	a.sess.SetStatus("suspend is not supported on this platform")
}
