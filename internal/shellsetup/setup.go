package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable defaults to os.Executable.
	Executable string
	// LastDirFile is the file ccc writes its final directory to.
	LastDirFile string
}

const posixSnippet = `ccc() {
    command %[1]s "$@"
    ccc_status=$?
    if [ -f %[2]s ] && [ ! -L %[2]s ]; then
        ccc_dest=$(cat %[2]s 2>/dev/null)
        if [ -n "$ccc_dest" ] && [ -d "$ccc_dest" ] && [ "$ccc_dest" != "$PWD" ]; then
            cd "$ccc_dest" || return
        fi
    fi
    return $ccc_status
}
`

const fishSnippet = `function ccc
    command %[1]s $argv
    set ccc_status $status
    if test -f %[2]s -a ! -L %[2]s
        set ccc_dest (cat %[2]s 2>/dev/null)
        if test -n "$ccc_dest" -a -d "$ccc_dest"
            builtin cd "$ccc_dest"
        end
    end
    return $ccc_status
end
`

const cshSnippet = "alias ccc '%[1]s \\!* && if ( -d \"`cat %[2]s`\" ) cd \"`cat %[2]s`\"'\n"

// PrintSetup writes a shell function that runs ccc and then changes into the
// directory it was in when it quit. shellOverride picks the syntax; when
// empty it is detected.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) error {
	if cfg.LastDirFile == "" {
		return fmt.Errorf("no last directory file configured")
	}
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}

	shell := normalizeShellName(shellOverride)
	if shell == "" {
		shell = detectShellInternal(os.Getenv, parent)
	}

	exe := cfg.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			exe = "ccc"
		}
	}
	quotedExe := strconv.Quote(exe)
	quotedFile := strconv.Quote(cfg.LastDirFile)

	var err error
	switch shell {
	case "fish":
		_, err = fmt.Fprintf(w, fishSnippet, quotedExe, quotedFile)
	case "tcsh", "csh":
		_, err = fmt.Fprintf(w, cshSnippet, exe, cfg.LastDirFile)
	default:
		_, err = fmt.Fprintf(w, posixSnippet, quotedExe, quotedFile)
	}
	return err
}

// DetectParentShellName reads the parent process name from /proc. It returns
// "" where that is unavailable.
func DetectParentShellName() string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", os.Getppid()))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func detectShellInternal(getenv func(string) string, parent ParentShellFunc) string {
	if shell := normalizeShellName(getenv("SHELL")); shell != "" {
		return shell
	}
	if parent != nil {
		if shell := normalizeShellName(parent()); shell != "" {
			return shell
		}
	}
	return "sh"
}

func normalizeShellName(value string) string {
	value = extractExecutable(value)
	if value == "" {
		return ""
	}
	value = strings.Trim(value, `"'`)
	base := strings.ToLower(path.Base(value))
	// Login shells show up as "-bash".
	return strings.TrimPrefix(base, "-")
}

func extractExecutable(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, quote := range []string{`"`, `'`} {
		if strings.HasPrefix(value, quote) {
			value = value[1:]
			if idx := strings.Index(value, quote); idx >= 0 {
				return value[:idx]
			}
			return value
		}
	}
	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		return value[:idx]
	}
	return value
}
