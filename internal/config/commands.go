package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode"
)

// Commands are the resolved argv forms of the external programs.
type Commands struct {
	Editor    []string
	Preview   []string
	Clipboard []string
	Shell     []string
}

var defaultPreviewers = [][]string{
	{"bat", "--color=always", "--style=plain", "--paging=never", "{}"},
	{"batcat", "--color=always", "--style=plain", "--paging=never", "{}"},
}

var defaultClipboards = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// Resolve turns the configured command strings into argv slices, filling
// gaps with whatever is installed. A nil Preview means the built-in
// highlighter; a nil Clipboard means the system clipboard library.
func (c *Config) Resolve() Commands {
	return c.resolve(exec.LookPath)
}

func (c *Config) resolve(lookPath func(string) (string, error)) Commands {
	cmds := Commands{
		Editor:    resolveCommand(c.Editor, lookPath),
		Preview:   parseCommand(c.Pager),
		Clipboard: parseCommand(c.Clipboard),
		Shell:     resolveCommand(c.Shell, lookPath),
	}
	if cmds.Editor == nil {
		cmds.Editor = firstAvailable([][]string{{"vim"}, {"vi"}, {"nano"}}, lookPath)
	}
	if cmds.Preview == nil {
		cmds.Preview = firstAvailable(defaultPreviewers, lookPath)
	}
	if cmds.Clipboard == nil {
		cmds.Clipboard = firstAvailable(defaultClipboards, lookPath)
	}
	if cmds.Shell == nil {
		cmds.Shell = firstAvailable([][]string{{"sh"}}, lookPath)
	}
	return cmds
}

func resolveCommand(cmd string, lookPath func(string) (string, error)) []string {
	args := parseCommand(cmd)
	if len(args) == 0 {
		return nil
	}
	resolved, err := lookPath(args[0])
	if err != nil {
		return nil
	}
	args[0] = resolved
	return args
}

func firstAvailable(candidates [][]string, lookPath func(string) (string, error)) []string {
	for _, candidate := range candidates {
		if path, err := lookPath(candidate[0]); err == nil && path != "" {
			return append([]string{path}, candidate[1:]...)
		}
	}
	return nil
}

// parseCommand splits cmd on unquoted whitespace. Single and double quotes
// group words; the first word has a leading ~ expanded.
func parseCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var (
		args     []string
		current  strings.Builder
		inSingle bool
		inDouble bool
		started  bool
	)
	for _, r := range cmd {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			started = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			started = true
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}
	return args
}

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}
