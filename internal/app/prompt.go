package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/ccc/internal/ui/input"
)

// prompt is an active line edit in the status row.
type prompt struct {
	line     *input.Line
	onSubmit func(text string)
}

func (a *Application) startPrompt(label, initial string, onSubmit func(string)) {
	a.prompt = &prompt{line: input.NewLine(label, initial), onSubmit: onSubmit}
}

func (a *Application) promptLine() *input.Line {
	if a.prompt == nil {
		return nil
	}
	return a.prompt.line
}

func (a *Application) editPrompt(ev *tcell.EventKey) {
	p := a.prompt
	switch p.line.Edit(ev) {
	case input.LineSubmit:
		a.prompt = nil
		a.sess.ClearStatus()
		p.onSubmit(p.line.Text())
		a.syncWatcher()
	case input.LineCancel:
		a.prompt = nil
	}
}

// confirmBulk asks before running a bulk action over the marks.
func (a *Application) confirmBulk(verb string, run func()) {
	n := a.sess.Marks.Len()
	if n == 0 {
		a.sess.SetStatus("nothing marked")
		return
	}
	label := verb + " " + pluralize(n, "item") + "? [y/N] "
	a.startPrompt(label, "", func(answer string) {
		if isYes(answer) {
			run()
		}
	})
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
