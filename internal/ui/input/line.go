package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// LineResult tells the caller what a key did to a Line.
type LineResult int

const (
	LineEditing LineResult = iota
	LineSubmit
	LineCancel
)

// Line is a single-row text editor used for prompts.
type Line struct {
	Prompt string
	text   []rune
	cursor int
}

// NewLine starts editing initial with the cursor at its end.
func NewLine(prompt, initial string) *Line {
	text := []rune(initial)
	return &Line{Prompt: prompt, text: text, cursor: len(text)}
}

// Text returns the current content.
func (l *Line) Text() string {
	return string(l.text)
}

// Cursor returns the cursor position in runes.
func (l *Line) Cursor() int {
	return l.cursor
}

// Edit applies one key press.
func (l *Line) Edit(ev *tcell.EventKey) LineResult {
	switch ev.Key() {
	case tcell.KeyEnter:
		return LineSubmit
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return LineCancel
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if l.cursor > 0 {
			l.text = append(l.text[:l.cursor-1], l.text[l.cursor:]...)
			l.cursor--
		}
	case tcell.KeyDelete:
		if l.cursor < len(l.text) {
			l.text = append(l.text[:l.cursor], l.text[l.cursor+1:]...)
		}
	case tcell.KeyLeft:
		if l.cursor > 0 {
			l.cursor--
		}
	case tcell.KeyRight:
		if l.cursor < len(l.text) {
			l.cursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		l.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		l.cursor = len(l.text)
	case tcell.KeyCtrlU:
		l.text = append([]rune(nil), l.text[l.cursor:]...)
		l.cursor = 0
	case tcell.KeyCtrlW:
		l.deleteWord()
	case tcell.KeyRune:
		r := ev.Rune()
		if !unicode.IsPrint(r) {
			break
		}
		l.text = append(l.text, 0)
		copy(l.text[l.cursor+1:], l.text[l.cursor:])
		l.text[l.cursor] = r
		l.cursor++
	}
	return LineEditing
}

func (l *Line) deleteWord() {
	start := l.cursor
	for start > 0 && unicode.IsSpace(l.text[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(l.text[start-1]) {
		start--
	}
	l.text = append(l.text[:start], l.text[l.cursor:]...)
	l.cursor = start
}
