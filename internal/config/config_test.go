package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/ccc/internal/ui/input"
)

func TestLoadFromMergesOverDefaults(t *testing.T) {
	cfg, err := LoadFrom(strings.NewReader("show_hidden: true\njump_distance: 5\nhide_patterns: ['*.o']\n"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.ShowHidden || cfg.JumpDistance != 5 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if !cfg.ShowIcons || cfg.MinCols != 80 || cfg.MinRows != 24 || !cfg.Watch {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.HidePatterns, []string{"*.o"}) {
		t.Fatalf("HidePatterns=%v", cfg.HidePatterns)
	}
}

func TestLoadFromEmptyInput(t *testing.T) {
	cfg, err := LoadFrom(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("empty input should give defaults")
	}
}

func TestLoadFromRejectsUnknownKeys(t *testing.T) {
	if _, err := LoadFrom(strings.NewReader("no_such_option: 1\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"jump", func(c *Config) { c.JumpDistance = 0 }},
		{"size", func(c *Config) { c.MinRows = 1 }},
		{"pattern", func(c *Config) { c.HidePatterns = []string{"[unterminated"} }},
		{"key", func(c *Config) { c.Keys = map[string]string{"F99": "quit"} }},
		{"action", func(c *Config) { c.Keys = map[string]string{"q": "explode"} }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: Validate()=%v want ErrInvalid", tt.name, err)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestKeymapOverrides(t *testing.T) {
	cfg := Default()
	cfg.Keys = map[string]string{"w": "up", "ctrl-u": "page-up"}
	km, err := cfg.Keymap()
	if err != nil {
		t.Fatalf("Keymap: %v", err)
	}
	if a, _ := km.Lookup(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)); a != input.ActionUp {
		t.Fatalf("w bound to %v", a)
	}
	if a, _ := km.Lookup(tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModCtrl)); a != input.ActionPageUp {
		t.Fatalf("ctrl-u bound to %v", a)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvTrash:   "/tmp/trash",
		EnvLastDir: "/tmp/last",
		"EDITOR":   "nano",
		"VISUAL":   "code --wait",
		"SHELL":    "/bin/zsh",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.TrashDir != "/tmp/trash" || cfg.LastDirFile != "/tmp/last" {
		t.Fatalf("paths: %+v", cfg)
	}
	if cfg.Editor != "code --wait" {
		t.Fatalf("Editor=%q want VISUAL", cfg.Editor)
	}
	if cfg.Shell != "/bin/zsh" {
		t.Fatalf("Shell=%q", cfg.Shell)
	}

	cfg = Default()
	cfg.Editor = "hx"
	cfg.ApplyEnv(func(k string) string { return env[k] })
	if cfg.Editor != "hx" {
		t.Fatalf("configured editor should win, got %q", cfg.Editor)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Fatalf("missing default file should be fine: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("missing explicit file should fail")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvTrash, "")
	path := filepath.Join(dir, "ccc", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("trash_dir: /var/tmp/t\nsplit_offset: -4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TrashDir != "/var/tmp/t" || cfg.SplitOffset != -4 {
		t.Fatalf("cfg=%+v", cfg)
	}

	if err := os.WriteFile(path, []byte("jump_distance: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load()=%v want ErrInvalid", err)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"vim", []string{"vim"}},
		{"  code   --wait ", []string{"code", "--wait"}},
		{`sh -c 'echo "hi there"'`, []string{"sh", "-c", `echo "hi there"`}},
		{`"my editor" -f`, []string{"my editor", "-f"}},
		{`a '' b`, []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		if got := parseCommand(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseCommand(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveFallbacks(t *testing.T) {
	installed := map[string]bool{"nano": true, "batcat": true, "xclip": true, "sh": true}
	lookPath := func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	cfg := Default()
	cfg.Editor = "missing-editor"
	cmds := cfg.resolve(lookPath)
	if !reflect.DeepEqual(cmds.Editor, []string{"/usr/bin/nano"}) {
		t.Fatalf("Editor=%q", cmds.Editor)
	}
	if len(cmds.Preview) == 0 || cmds.Preview[0] != "/usr/bin/batcat" || cmds.Preview[len(cmds.Preview)-1] != "{}" {
		t.Fatalf("Preview=%q", cmds.Preview)
	}
	if !reflect.DeepEqual(cmds.Clipboard, []string{"/usr/bin/xclip", "-selection", "clipboard"}) {
		t.Fatalf("Clipboard=%q", cmds.Clipboard)
	}
	if !reflect.DeepEqual(cmds.Shell, []string{"/usr/bin/sh"}) {
		t.Fatalf("Shell=%q", cmds.Shell)
	}

	none := func(string) (string, error) { return "", errors.New("not found") }
	if cmds := Default().resolve(none); cmds.Preview != nil || cmds.Clipboard != nil {
		t.Fatalf("nothing installed should leave built-ins: %+v", cmds)
	}
}

func TestExpandUserPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandUserPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Fatalf("expandUserPath=%q", got)
	}
	if got := expandUserPath("~"); got != home {
		t.Fatalf("expandUserPath(~)=%q", got)
	}
	if got := expandUserPath("~other/x"); got != "~other/x" {
		t.Fatalf("expandUserPath(~other/x)=%q", got)
	}
}
