package render

import (
	"context"

	"github.com/charmbracelet/x/ansi"
	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/kk-code-lab/ccc/internal/state"
	"github.com/kk-code-lab/ccc/internal/term"
	"github.com/kk-code-lab/ccc/internal/textutil"
	"github.com/kk-code-lab/ccc/internal/ui/input"
	"github.com/sirupsen/logrus"
)

const separator = "│"

// Frame is everything one redraw needs. Geometry must be the value queried
// for this frame; the renderer never caches it.
type Frame struct {
	Session     *state.Session
	Geometry    term.Geometry
	SplitOffset int
	Keymap      input.Keymap
	// Prompt replaces the status line while the user is typing.
	Prompt  *input.Line
	MinRows int
	MinCols int
}

// Renderer draws the listing, the preview panel, and the status line.
type Renderer struct {
	screen    *term.Screen
	previewer *Previewer
	theme     Theme
	logger    logrus.FieldLogger
	frames    int
}

// NewRenderer creates a renderer writing to screen.
func NewRenderer(screen *term.Screen, previewer *Previewer, logger logrus.FieldLogger) *Renderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Renderer{
		screen:    screen,
		previewer: previewer,
		theme:     DefaultTheme(),
		logger:    logger,
	}
}

// Frames returns how many full redraws have been written.
func (r *Renderer) Frames() int {
	return r.frames
}

// Previewer returns the preview source.
func (r *Renderer) Previewer() *Previewer {
	return r.previewer
}

// Redraw repaints the whole screen from f and flushes it.
func (r *Renderer) Redraw(ctx context.Context, f Frame) error {
	r.frames++
	s := r.screen
	s.HideCursor()
	s.ResetStyle()
	s.ClearScreen()

	if !f.Geometry.Fits(f.MinRows, f.MinCols) {
		s.MoveTo(1, 1)
		msg := formatTooSmall(f.Geometry.Rows, f.Geometry.Cols, f.MinRows, f.MinCols)
		s.WriteString(textutil.TruncateToWidth(msg, f.Geometry.Cols))
		return s.Flush()
	}

	layout := ComputeLayout(f.Geometry, f.SplitOffset)
	r.DrawListing(f.Session, layout)
	r.drawSeparator(layout)
	if f.Session.HelpVisible {
		r.drawPanel(layout, buildHelpLines(f.Keymap, layout.PreviewWidth, r.theme), false)
	} else {
		r.DrawPreview(ctx, f.Session, layout)
	}
	r.DrawStatus(f.Session, f.Prompt, layout)
	return s.Flush()
}

// DrawListing writes the visible window of the listing into the left column.
func (r *Renderer) DrawListing(sess *state.Session, layout Layout) {
	s := r.screen
	offset := OverflowOffset(sess.Selected, layout.ContentRows)
	for row := 0; row < layout.ContentRows; row++ {
		idx := offset + row
		e, ok := sess.Store.Get(idx)
		if !ok {
			break
		}
		s.MoveTo(row+1, 1)
		if idx == sess.Selected {
			s.SetReverse()
		}
		if sess.Marks.Contains(e.Path) {
			s.SetForeground(r.theme.MarkedFg)
		} else {
			s.SetForeground(e.Color)
		}
		s.WriteString(textutil.PadToWidth(listingText(e, sess.ShowIcons, sess.ShowDetails), layout.ListWidth))
		s.ResetStyle()
	}
}

func listingText(e state.Entry, showIcons, showDetails bool) string {
	label := entryLabel(e, showIcons)
	if showDetails && e.Stats != "" {
		return e.Stats + " " + label
	}
	return label
}

func (r *Renderer) drawSeparator(layout Layout) {
	if layout.PreviewWidth <= 0 {
		return
	}
	s := r.screen
	s.SetForeground(r.theme.SeparatorFg)
	for row := 1; row <= layout.ContentRows; row++ {
		s.MoveTo(row, layout.ListWidth+1)
		s.WriteString(separator)
	}
	s.ResetStyle()
}

// DrawPreview fills the right column with the preview of the selection.
func (r *Renderer) DrawPreview(ctx context.Context, sess *state.Session, layout Layout) {
	if r.previewer == nil || layout.PreviewWidth <= 0 {
		return
	}
	e, ok := sess.Current()
	if !ok {
		if sess.LoadErr == nil {
			r.drawPanel(layout, []string{PlaceholderEmptyDir}, true)
		}
		return
	}
	p := r.previewer.Preview(ctx, PreviewRequest{
		Entry:     e,
		Width:     layout.PreviewWidth,
		Rows:      layout.ContentRows,
		ShowIcons: sess.ShowIcons,
	})
	if p.Err != nil {
		sess.SetStatus("preview: %v", p.Err)
	}
	r.drawPanel(layout, p.Lines, p.Placeholder)
}

func (r *Renderer) drawPanel(layout Layout, lines []string, placeholder bool) {
	s := r.screen
	for i, line := range lines {
		if i >= layout.ContentRows {
			break
		}
		s.MoveTo(i+1, layout.PreviewCol)
		if placeholder {
			s.SetForeground(r.theme.PlaceholderFg)
			line = textutil.TruncateToWidth(line, layout.PreviewWidth)
		}
		s.WriteString(line)
		s.ResetStyle()
		s.ClearToEOL()
	}
}

// DrawStatus writes the prompt, the latest status message, or the position
// summary on the last row.
func (r *Renderer) DrawStatus(sess *state.Session, prompt *input.Line, layout Layout) {
	s := r.screen
	s.MoveTo(layout.StatusRow, 1)
	s.ClearLine()

	if prompt != nil {
		text := prompt.Prompt + prompt.Text()
		s.WriteString(ansi.Truncate(text, layout.Cols, ""))
		col := textutil.DisplayWidth(prompt.Prompt+string([]rune(prompt.Text())[:prompt.Cursor()])) + 1
		if col > layout.Cols {
			col = layout.Cols
		}
		s.MoveTo(layout.StatusRow, col)
		s.ShowCursor()
		return
	}

	text := sess.Status
	if text == "" {
		text = formatStatus(sess)
	} else {
		text = textutil.SanitizeTerminalText(text)
	}
	s.WriteString(ansi.Truncate(text, layout.Cols, "…"))
}
