package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kk-code-lab/ccc/internal/config"
	"github.com/kk-code-lab/ccc/internal/term"
)

// step is one scripted ReadByteTimeout result.
type step struct {
	b      byte
	err    error
	before func(f *fakeTerminal)
}

type fakeTerminal struct {
	out      bytes.Buffer
	screen   *term.Screen
	geometry term.Geometry
	steps    []step

	resized   bool
	suspended int
	resumed   int
	wakes     chan struct{}
}

func newFakeTerminal(g term.Geometry, steps ...step) *fakeTerminal {
	f := &fakeTerminal{geometry: g, steps: steps, wakes: make(chan struct{}, 16)}
	f.screen = term.NewScreen(&f.out)
	return f
}

func (f *fakeTerminal) ReadByteTimeout(time.Duration) (byte, error) {
	if len(f.steps) == 0 {
		return 0, io.EOF
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	if s.before != nil {
		s.before(f)
	}
	return s.b, s.err
}

func (f *fakeTerminal) Screen() *term.Screen             { return f.screen }
func (f *fakeTerminal) Geometry() (term.Geometry, error) { return f.geometry, nil }
func (f *fakeTerminal) Suspend() error                   { f.suspended++; return nil }
func (f *fakeTerminal) Resume() error                    { f.resumed++; return nil }

func (f *fakeTerminal) TakeResize() bool {
	r := f.resized
	f.resized = false
	return r
}

func (f *fakeTerminal) Wake() {
	select {
	case f.wakes <- struct{}{}:
	default:
	}
}

// keys scripts every byte of s.
func keys(s string) []step {
	steps := make([]step, 0, len(s))
	for i := 0; i < len(s); i++ {
		steps = append(steps, step{b: s[i]})
	}
	return steps
}

func script(parts ...[]step) []step {
	var all []step
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

var standardSize = term.Geometry{Rows: 24, Cols: 80}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Watch = false
	cfg.LastDirFile = ""
	cfg.TrashDir = filepath.Join(t.TempDir(), "trash")
	return cfg
}

func newTestApp(t *testing.T, dir string, cfg *config.Config, cmds *config.Commands, steps ...step) (*Application, *fakeTerminal) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	if cmds == nil {
		cmds = &config.Commands{}
	}
	ft := newFakeTerminal(standardSize, steps...)
	a, err := NewApplication(Options{Dir: dir, Config: cfg, Terminal: ft, Commands: cmds})
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, ft
}

func run(t *testing.T, a *Application) {
	t.Helper()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
