package proc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/sirupsen/logrus"
)

// ErrNoCommand is returned when an empty argv is run.
var ErrNoCommand = errors.New("no command")

// Placeholder in an argv is replaced by the target path.
const Placeholder = "{}"

// Result describes how a child exited.
type Result struct {
	ExitCode int
}

// Stdio wires a child to the caller's streams. Nil fields mean /dev/null.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Runner starts child programs.
type Runner struct {
	logger logrus.FieldLogger
	env    []string
}

// NewRunner returns a runner that logs through logger.
func NewRunner(logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{logger: logger}
}

// WithEnv returns a copy of r that adds extra variables to every child.
func (r *Runner) WithEnv(extra ...string) *Runner {
	clone := *r
	clone.env = append(append([]string(nil), r.env...), extra...)
	return &clone
}

func (r *Runner) command(ctx context.Context, argv []string, dir string) (*exec.Cmd, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrNoCommand
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	return cmd, nil
}

// Run executes argv in dir and waits for it. A non-zero exit is reported
// through Result, not as an error; only a failure to start is an error.
func (r *Runner) Run(ctx context.Context, argv []string, dir string, stdio Stdio) (Result, error) {
	cmd, err := r.command(ctx, argv, dir)
	if err != nil {
		return Result{}, err
	}
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	log := r.logger.WithField("cmd", strings.Join(argv, " "))
	if err := cmd.Start(); err != nil {
		log.WithError(err).Warn("start command")
		return Result{}, fmt.Errorf("start %s: %w", argv[0], err)
	}
	return waitResult(cmd, log)
}

// Capture runs argv with stdout and stderr joined into one pipe and hands
// each output line, without its newline, to onLine. When onLine returns false
// the remaining output is drained and discarded so the child can finish; the
// child is always reaped before Capture returns.
func (r *Runner) Capture(ctx context.Context, argv []string, dir string, onLine func(line []byte) bool) (Result, error) {
	cmd, err := r.command(ctx, argv, dir)
	if err != nil {
		return Result{}, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return Result{}, fmt.Errorf("create pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	log := r.logger.WithField("cmd", strings.Join(argv, " "))
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		log.WithError(err).Warn("start command")
		return Result{}, fmt.Errorf("start %s: %w", argv[0], err)
	}
	// The parent's copy of the write end must go, or reads never see EOF.
	_ = pw.Close()

	reader := bufio.NewReader(pr)
	wanted := true
	for wanted {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			line = trimNewline(line)
			wanted = onLine(line)
		}
		if readErr != nil {
			break
		}
	}
	_, _ = io.Copy(io.Discard, reader)
	_ = pr.Close()

	return waitResult(cmd, log)
}

func waitResult(cmd *exec.Cmd, log logrus.FieldLogger) (Result, error) {
	err := cmd.Wait()
	if err == nil {
		return Result{}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.WithField("code", exitErr.ExitCode()).Debug("command exited")
		return Result{ExitCode: exitErr.ExitCode()}, nil
	}
	log.WithError(err).Warn("wait command")
	return Result{ExitCode: -1}, fmt.Errorf("wait %s: %w", cmd.Path, err)
}

func trimNewline(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}

// Expand substitutes path for every Placeholder in argv. When argv has no
// placeholder, path is appended as the last argument.
func Expand(argv []string, path string) []string {
	out := make([]string, 0, len(argv)+1)
	replaced := false
	for _, arg := range argv {
		if strings.Contains(arg, Placeholder) {
			arg = strings.ReplaceAll(arg, Placeholder, path)
			replaced = true
		}
		out = append(out, arg)
	}
	if !replaced && len(out) > 0 {
		out = append(out, path)
	}
	return out
}

// Available reports whether name resolves to an executable.
func Available(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
