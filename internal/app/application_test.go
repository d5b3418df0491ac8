package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/kk-code-lab/ccc/internal/config"
	"github.com/kk-code-lab/ccc/internal/term"
)

func TestCheckTermEnv(t *testing.T) {
	tests := []struct {
		term    string
		wantErr bool
	}{
		{"", true},
		{"  ", true},
		{"dumb", true},
		{"xterm-256color", false},
		{"screen", false},
	}
	for _, tt := range tests {
		err := checkTermEnv(tt.term)
		if (err != nil) != tt.wantErr {
			t.Fatalf("checkTermEnv(%q) err=%v wantErr=%v", tt.term, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, term.ErrNotTerminal) {
			t.Fatalf("checkTermEnv(%q) err=%v, want ErrNotTerminal", tt.term, err)
		}
	}
}

func TestNewApplicationTooSmall(t *testing.T) {
	ft := newFakeTerminal(term.Geometry{Rows: 10, Cols: 40})
	_, err := NewApplication(Options{Dir: t.TempDir(), Config: testConfig(t), Terminal: ft, Commands: &config.Commands{}})
	if !errors.Is(err, term.ErrTooSmall) {
		t.Fatalf("err=%v want ErrTooSmall", err)
	}
}

func TestNewApplicationBadKeymap(t *testing.T) {
	cfg := testConfig(t)
	cfg.Keys = map[string]string{"F99": "quit"}
	ft := newFakeTerminal(standardSize)
	_, err := NewApplication(Options{Dir: t.TempDir(), Config: cfg, Terminal: ft, Commands: &config.Commands{}})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err=%v want ErrInvalid", err)
	}
}

func TestUnreadableStartDirIsNotFatal(t *testing.T) {
	missing := t.TempDir() + "/gone"
	a, ft := newTestApp(t, missing, nil, nil, keys("q")...)
	run(t, a)

	if a.sess.LoadErr == nil {
		t.Fatalf("LoadErr should be set")
	}
	if !strings.Contains(ft.out.String(), "cannot read") {
		t.Fatalf("status line should report the load failure")
	}
}

func TestFirstFrameShowsListing(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "docs")
	writeFiles(t, root, map[string]string{"readme.md": "hello"})

	a, ft := newTestApp(t, root, nil, nil)
	run(t, a)

	out := ft.out.String()
	for _, want := range []string{"docs", "readme.md", "(1/2)", root} {
		if !strings.Contains(out, want) {
			t.Fatalf("first frame missing %q", want)
		}
	}
	if a.renderer.Frames() != 1 {
		t.Fatalf("Frames()=%d want 1", a.renderer.Frames())
	}
}

func TestCustomKeyBinding(t *testing.T) {
	cfg := testConfig(t)
	cfg.Keys = map[string]string{"Q": "quit"}
	cfg.LastDirFile = t.TempDir() + "/last"

	a, _ := newTestApp(t, t.TempDir(), cfg, nil, keys("Q")...)
	run(t, a)
	if !a.quit {
		t.Fatalf("Q should quit")
	}
}

func TestCtrlCQuits(t *testing.T) {
	a, _ := newTestApp(t, t.TempDir(), nil, nil, keys("\x03jjj")...)
	run(t, a)
	if !a.quit {
		t.Fatalf("Ctrl-C should quit")
	}
}
