package render

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/ccc/internal/proc"
	"github.com/kk-code-lab/ccc/internal/state"
	"github.com/kk-code-lab/ccc/internal/term"
	"github.com/kk-code-lab/ccc/internal/textutil"
	"github.com/kk-code-lab/ccc/internal/ui/input"
)

type renderFixture struct {
	out      *bytes.Buffer
	renderer *Renderer
	sess     *state.Session
}

func newRenderFixture(t *testing.T, dir string) *renderFixture {
	t.Helper()
	sess := state.NewSession(state.Options{})
	if err := sess.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := &bytes.Buffer{}
	previewer := NewPreviewer(proc.NewRunner(nil), []string{"cat", "{}"}, sess.ListDir, nil)
	return &renderFixture{
		out:      out,
		renderer: NewRenderer(term.NewScreen(out), previewer, nil),
		sess:     sess,
	}
}

func (f *renderFixture) draw(t *testing.T, g term.Geometry, prompt *input.Line) string {
	t.Helper()
	f.out.Reset()
	err := f.renderer.Redraw(context.Background(), Frame{
		Session:  f.sess,
		Geometry: g,
		Keymap:   input.DefaultKeymap(),
		Prompt:   prompt,
		MinRows:  10,
		MinCols:  40,
	})
	if err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	return f.out.String()
}

var standard = term.Geometry{Rows: 24, Cols: 80}

func TestRedrawListingAndStatus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alpha.txt"), "hello from alpha\n")
	writeFile(t, filepath.Join(root, "beta.txt"), "b\n")

	f := newRenderFixture(t, root)
	out := f.draw(t, standard, nil)

	for _, want := range []string{"alpha.txt", "beta.txt", "hello from alpha", "(1/2) " + root} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	if f.renderer.Frames() != 1 {
		t.Fatalf("Frames()=%d want 1", f.renderer.Frames())
	}
}

func TestRedrawMarkedColor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), "a")
	writeFile(t, filepath.Join(root, "b"), "b")

	f := newRenderFixture(t, root)
	e, _ := f.sess.Store.Get(1)
	f.sess.Marks.Toggle(e)
	out := f.draw(t, standard, nil)

	marked := term.ForegroundSGR(DefaultTheme().MarkedFg) + textutil.PadToWidth("b", 40)
	if !strings.Contains(out, marked) {
		t.Fatalf("marked entry not drawn in marked color")
	}
	if !strings.Contains(out, "[1] selected") {
		t.Fatalf("status should count marks")
	}
}

func TestRedrawOverflowWindow(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, filepath.Join(root, fmt.Sprintf("f%02d", i)), "x")
	}
	f := newRenderFixture(t, root)
	f.sess.Selected = 49
	out := f.draw(t, standard, nil)

	// 23 content rows: f27..f49.
	if strings.Contains(out, "f26") {
		t.Fatalf("entry above the window was drawn")
	}
	if !strings.Contains(out, "f27") || !strings.Contains(out, "f49") {
		t.Fatalf("window should span f27..f49")
	}
	if !strings.Contains(out, "\x1b[23;1H\x1b[7m") {
		t.Fatalf("selection should be on the last content row")
	}
}

func TestRedrawEmptyDirectory(t *testing.T) {
	f := newRenderFixture(t, t.TempDir())
	out := f.draw(t, standard, nil)
	if !strings.Contains(out, PlaceholderEmptyDir) {
		t.Fatalf("expected %q placeholder", PlaceholderEmptyDir)
	}
	if !strings.Contains(out, "(0/0)") {
		t.Fatalf("status should show (0/0)")
	}
}

func TestRedrawTooSmall(t *testing.T) {
	f := newRenderFixture(t, t.TempDir())
	out := f.draw(t, term.Geometry{Rows: 5, Cols: 30}, nil)
	if !strings.Contains(out, "terminal too small") {
		t.Fatalf("output=%q", out)
	}
}

func TestRedrawPrompt(t *testing.T) {
	f := newRenderFixture(t, t.TempDir())
	out := f.draw(t, standard, input.NewLine("rename: ", "abc"))
	if !strings.Contains(out, "rename: abc") {
		t.Fatalf("prompt not drawn")
	}
	if !strings.HasSuffix(out, "\x1b[24;12H\x1b[?25h") {
		t.Fatalf("cursor should follow the prompt text, got tail %q", out[len(out)-20:])
	}
}

func TestRedrawHelpPanel(t *testing.T) {
	f := newRenderFixture(t, t.TempDir())
	f.sess.HelpVisible = true
	out := f.draw(t, term.Geometry{Rows: 60, Cols: 100}, nil)
	for _, want := range []string{"Navigation", "Marks", "Quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help panel missing %q", want)
		}
	}
}

func TestRedrawStatusMessage(t *testing.T) {
	f := newRenderFixture(t, t.TempDir())
	f.sess.SetStatus("copied %d files", 3)
	out := f.draw(t, standard, nil)
	if !strings.Contains(out, "copied 3 files") {
		t.Fatalf("status message not drawn")
	}
}

func TestRedrawPreviewSpawnFailureSetsStatus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "content\n")
	f := newRenderFixture(t, root)
	f.renderer.previewer = NewPreviewer(proc.NewRunner(nil), []string{filepath.Join(root, "nope")}, f.sess.ListDir, nil)

	out := f.draw(t, standard, nil)
	if !strings.HasPrefix(f.sess.Status, "preview: ") {
		t.Fatalf("Status=%q", f.sess.Status)
	}
	if !strings.Contains(out, "content") {
		t.Fatalf("built-in preview should still be drawn")
	}
}
