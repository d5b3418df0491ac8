package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	fsutil "github.com/kk-code-lab/ccc/internal/fs"
	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/kk-code-lab/ccc/internal/proc"
	"github.com/kk-code-lab/ccc/internal/state"
	"github.com/kk-code-lab/ccc/internal/term"
	"github.com/kk-code-lab/ccc/internal/textutil"
	"github.com/sirupsen/logrus"
)

// Placeholder texts shown instead of content.
const (
	PlaceholderEmptyDir  = "empty directory"
	PlaceholderBinary    = "binary"
	PlaceholderEmptyFile = "empty file"
)

const (
	previewTabWidth    = textutil.DefaultTabWidth
	highlightReadLimit = 256 * 1024
	previewCacheSize   = 32
)

var kindDescriptions = map[fsutil.Kind]string{
	fsutil.KindCharDevice:  "character device",
	fsutil.KindBlockDevice: "block device",
	fsutil.KindSocket:      "socket",
	fsutil.KindFifo:        "fifo",
	fsutil.KindUnknown:     "unknown file type",
}

// DirLister builds a listing for a directory without touching the browser
// state.
type DirLister func(dir string) (*state.EntryStore, error)

// PreviewRequest describes what to preview and how much room there is.
type PreviewRequest struct {
	Entry     state.Entry
	Width     int
	Rows      int
	ShowIcons bool
}

// Preview is the content of the preview panel.
type Preview struct {
	Lines       []string
	Placeholder bool
	// Err is set when the external previewer could not run; Lines then holds
	// the built-in rendering.
	Err error
}

// Previewer produces preview panel content for directories and files.
type Previewer struct {
	runner  *proc.Runner
	command []string
	listDir DirLister
	logger  logrus.FieldLogger

	cache map[uint64][]string
	order []uint64
}

// NewPreviewer returns a previewer. command is an argv where "{}" stands for
// the file; an empty command selects the built-in highlighter.
func NewPreviewer(runner *proc.Runner, command []string, listDir DirLister, logger logrus.FieldLogger) *Previewer {
	if logger == nil {
		logger = logging.Discard()
	}
	if runner == nil {
		runner = proc.NewRunner(logger)
	}
	return &Previewer{
		runner:  runner,
		command: command,
		listDir: listDir,
		logger:  logger,
		cache:   make(map[uint64][]string),
	}
}

// Command returns the external preview argv, if any.
func (p *Previewer) Command() []string {
	return p.command
}

// Invalidate drops every cached preview.
func (p *Previewer) Invalidate() {
	p.cache = make(map[uint64][]string)
	p.order = nil
}

// Preview renders req.Entry into at most req.Rows rows of req.Width cells.
func (p *Previewer) Preview(ctx context.Context, req PreviewRequest) Preview {
	if req.Rows <= 0 || req.Width <= 0 {
		return Preview{}
	}
	if req.Entry.Navigable() {
		return p.previewDir(req)
	}
	return p.previewFile(ctx, req)
}

func placeholder(text string) Preview {
	return Preview{Lines: []string{text}, Placeholder: true}
}

func (p *Previewer) previewDir(req PreviewRequest) Preview {
	if p.listDir == nil {
		return Preview{}
	}
	store, err := p.listDir(req.Entry.Path)
	if err != nil {
		p.logger.WithError(err).WithField("path", req.Entry.Path).Debug("preview directory")
		return placeholder(fmt.Sprintf("cannot read directory: %v", unwrapPathError(err)))
	}
	if store.Len() == 0 {
		return placeholder(PlaceholderEmptyDir)
	}

	n := store.Len()
	if n > req.Rows {
		n = req.Rows
	}
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		e, _ := store.Get(i)
		lines = append(lines, term.ForegroundSGR(e.Color)+textutil.TruncateToWidth(entryLabel(e, req.ShowIcons), req.Width)+"\x1b[0m")
	}
	return Preview{Lines: lines}
}

func (p *Previewer) previewFile(ctx context.Context, req PreviewRequest) Preview {
	path := req.Entry.Path
	info, err := os.Stat(path)
	if err != nil {
		return placeholder(fmt.Sprintf("cannot stat: %v", unwrapPathError(err)))
	}
	if !info.Mode().IsRegular() {
		if desc, ok := kindDescriptions[fsutil.KindOf(info.Mode())]; ok {
			return placeholder(desc)
		}
		return placeholder(kindDescriptions[fsutil.KindUnknown])
	}
	if info.Size() == 0 {
		return placeholder(PlaceholderEmptyFile)
	}

	key := xxhash.Sum64String(fmt.Sprintf("%s|%d|%d|%d|%d", path, info.ModTime().UnixNano(), info.Size(), req.Width, req.Rows))
	if lines, ok := p.cache[key]; ok {
		return Preview{Lines: lines}
	}

	binary, err := fsutil.IsBinaryFile(path)
	if err != nil {
		return placeholder(fmt.Sprintf("cannot read: %v", unwrapPathError(err)))
	}
	if binary {
		return placeholder(PlaceholderBinary)
	}

	var result Preview
	if len(p.command) > 0 {
		lines, runErr := p.runExternal(ctx, path, req)
		if runErr == nil {
			result = Preview{Lines: lines}
		} else {
			result = Preview{Lines: p.builtin(path, req), Err: runErr}
		}
	} else {
		result = Preview{Lines: p.builtin(path, req)}
	}

	if result.Err == nil {
		p.remember(key, result.Lines)
	}
	return result
}

func (p *Previewer) runExternal(ctx context.Context, path string, req PreviewRequest) ([]string, error) {
	argv := proc.Expand(p.command, path)
	lines := make([]string, 0, req.Rows)
	_, err := p.runner.Capture(ctx, argv, "", func(line []byte) bool {
		return appendWrapped(&lines, string(line), req.Width, req.Rows)
	})
	if err != nil {
		p.logger.WithError(err).WithField("path", path).Warn("preview command failed")
		return nil, err
	}
	return lines, nil
}

func (p *Previewer) builtin(path string, req PreviewRequest) []string {
	data, err := fsutil.ReadFileHead(path, highlightReadLimit)
	if err != nil {
		return []string{fmt.Sprintf("cannot read: %v", unwrapPathError(err))}
	}
	text := highlight(path, fsutil.NormalizeTextContent(data))

	lines := make([]string, 0, req.Rows)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if !appendWrapped(&lines, line, req.Width, req.Rows) {
			break
		}
	}
	return lines
}

// appendWrapped adds the wrapped rows of line to lines and reports whether
// there is room for more.
func appendWrapped(lines *[]string, line string, width, rows int) bool {
	line = textutil.ExpandTabs(strings.TrimRight(line, "\r"), previewTabWidth)
	for _, row := range WrapANSI(line, width) {
		if len(*lines) >= rows {
			return false
		}
		*lines = append(*lines, row)
	}
	return len(*lines) < rows
}

func (p *Previewer) remember(key uint64, lines []string) {
	if _, ok := p.cache[key]; ok {
		return
	}
	if len(p.order) >= previewCacheSize {
		oldest := p.order[0]
		p.order = p.order[1:]
		delete(p.cache, oldest)
	}
	p.cache[key] = lines
	p.order = append(p.order, key)
}

func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}

// entryLabel is the plain text shown for an entry in a list.
func entryLabel(e state.Entry, showIcons bool) string {
	name := textutil.SanitizeTerminalText(e.Name)
	if showIcons && e.Icon != "" {
		return e.Icon + " " + name
	}
	return name
}
