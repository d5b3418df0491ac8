package term

import (
	"bufio"
	"io"
	"strconv"

	"github.com/gdamore/tcell/v2"
)

const (
	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"
	seqHideCursor   = "\x1b[?25l"
	seqShowCursor   = "\x1b[?25h"
	seqWrapOff      = "\x1b[?7l"
	seqWrapOn       = "\x1b[?7h"
	seqClearScreen  = "\x1b[2J"
	seqHome         = "\x1b[H"
	seqClearLine    = "\x1b[2K"
	seqClearToEOL   = "\x1b[K"
	seqReset        = "\x1b[0m"
	seqReverse      = "\x1b[7m"
	seqBold         = "\x1b[1m"
)

// Screen buffers escape sequences and text for one frame. Nothing reaches the
// terminal until Flush.
type Screen struct {
	w *bufio.Writer
}

// NewScreen wraps w.
func NewScreen(w io.Writer) *Screen {
	return &Screen{w: bufio.NewWriterSize(w, 16*1024)}
}

// WriteString queues s verbatim.
func (s *Screen) WriteString(str string) {
	_, _ = s.w.WriteString(str)
}

// Flush sends everything queued so far.
func (s *Screen) Flush() error {
	return s.w.Flush()
}

// MoveTo positions the cursor at the 1-based row and column.
func (s *Screen) MoveTo(row, col int) {
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	s.WriteString("\x1b[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H")
}

// ClearScreen erases the whole screen and homes the cursor.
func (s *Screen) ClearScreen() {
	s.WriteString(seqClearScreen + seqHome)
}

// ClearLine erases the row the cursor is on.
func (s *Screen) ClearLine() {
	s.WriteString(seqClearLine)
}

// ClearToEOL erases from the cursor to the end of the row.
func (s *Screen) ClearToEOL() {
	s.WriteString(seqClearToEOL)
}

func (s *Screen) HideCursor() { s.WriteString(seqHideCursor) }
func (s *Screen) ShowCursor() { s.WriteString(seqShowCursor) }

// SetForeground selects the text color. tcell.ColorDefault restores the
// terminal's own foreground.
func (s *Screen) SetForeground(c tcell.Color) {
	s.WriteString(ForegroundSGR(c))
}

// SetReverse swaps foreground and background.
func (s *Screen) SetReverse() { s.WriteString(seqReverse) }

// SetBold enables bold text.
func (s *Screen) SetBold() { s.WriteString(seqBold) }

// ResetStyle clears every attribute.
func (s *Screen) ResetStyle() { s.WriteString(seqReset) }

// ForegroundSGR returns the select-graphic-rendition sequence for c.
func ForegroundSGR(c tcell.Color) string {
	switch {
	case c == tcell.ColorDefault || c == tcell.ColorReset || !c.Valid():
		return "\x1b[39m"
	case c.IsRGB():
		r, g, b := c.RGB()
		return "\x1b[38;2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b)) + "m"
	}

	idx := int(c - tcell.ColorValid)
	switch {
	case idx < 8:
		return "\x1b[" + strconv.Itoa(30+idx) + "m"
	case idx < 16:
		return "\x1b[" + strconv.Itoa(90+idx-8) + "m"
	default:
		return "\x1b[38;5;" + strconv.Itoa(idx) + "m"
	}
}
