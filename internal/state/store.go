package state

import (
	"path/filepath"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/gobwas/glob"
	fsutil "github.com/kk-code-lab/ccc/internal/fs"
	"github.com/kk-code-lab/ccc/internal/icons"
	"golang.org/x/text/unicode/norm"
)

const initialCapacity = 16

// Entry is one decorated listing row. All fields are values, so copying an
// Entry never aliases another list's storage.
type Entry struct {
	Name       string
	Path       string
	Kind       fsutil.Kind
	LinksToDir bool
	Stats      string
	Icon       string
	Color      tcell.Color
}

// IsDir reports whether the entry belongs to the directories group.
func (e Entry) IsDir() bool {
	return e.Kind == fsutil.KindDirectory
}

// Navigable reports whether the entry can be entered.
func (e Entry) Navigable() bool {
	return e.Kind == fsutil.KindDirectory || e.LinksToDir
}

var kindColors = map[fsutil.Kind]tcell.Color{
	fsutil.KindDirectory:   tcell.ColorBlue,
	fsutil.KindSymlink:     tcell.ColorGreen,
	fsutil.KindBlockDevice: tcell.ColorYellow,
}

// KindColor returns the listing color for kind.
func KindColor(kind fsutil.Kind) tcell.Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return tcell.ColorDefault
}

// RebuildOptions controls filtering and decoration during EntryStore.Rebuild.
type RebuildOptions struct {
	ShowHidden bool
	DirsSize   bool
	Icons      *icons.Table
	Hide       []glob.Glob

	// dirSize is overridable in tests.
	dirSize func(string) (int64, error)
}

// EntryStore is the ordered listing of one directory: directories first, then
// everything else, each group sorted by name.
type EntryStore struct {
	items []Entry
}

// NewEntryStore returns an empty store with the given initial capacity.
func NewEntryStore(capacity int) *EntryStore {
	if capacity < 1 {
		capacity = initialCapacity
	}
	return &EntryStore{items: make([]Entry, 0, capacity)}
}

// Len returns the number of entries.
func (s *EntryStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Cap returns the current capacity.
func (s *EntryStore) Cap() int {
	if s == nil {
		return 0
	}
	return cap(s.items)
}

// Get returns the entry at i.
func (s *EntryStore) Get(i int) (Entry, bool) {
	if s == nil || i < 0 || i >= len(s.items) {
		return Entry{}, false
	}
	return s.items[i], true
}

// Index returns the position of the entry with path, or -1.
func (s *EntryStore) Index(path string) int {
	if s == nil {
		return -1
	}
	for i := range s.items {
		if s.items[i].Path == path {
			return i
		}
	}
	return -1
}

// Names returns entry names in listing order.
func (s *EntryStore) Names() []string {
	names := make([]string, s.Len())
	for i := range names {
		names[i] = s.items[i].Name
	}
	return names
}

// Entries returns a copy of all entries in listing order.
func (s *EntryStore) Entries() []Entry {
	out := make([]Entry, s.Len())
	copy(out, s.items)
	return out
}

// Reset discards every entry.
func (s *EntryStore) Reset() {
	s.items = make([]Entry, 0, initialCapacity)
}

func (s *EntryStore) add(e Entry) {
	s.items = appendDoubling(s.items, e)
}

// appendDoubling appends e, doubling capacity when the slice is full.
func appendDoubling(items []Entry, e Entry) []Entry {
	if len(items) == cap(items) {
		newCap := cap(items) * 2
		if newCap == 0 {
			newCap = initialCapacity
		}
		grown := make([]Entry, len(items), newCap)
		copy(grown, items)
		items = grown
	}
	return append(items, e)
}

// Rebuild replaces the store content with the decorated, filtered, and ordered
// form of listing. The previous content is discarded.
func (s *EntryStore) Rebuild(listing []fsutil.Entry, opts RebuildOptions) {
	var dirs, others []Entry
	for _, raw := range listing {
		if raw.Name == "." || raw.Name == ".." {
			continue
		}
		if !opts.ShowHidden && raw.IsHidden() {
			continue
		}
		if matchesAny(opts.Hide, raw.Name) {
			continue
		}

		entry := decorate(raw, opts)
		if entry.IsDir() {
			dirs = append(dirs, entry)
		} else {
			others = append(others, entry)
		}
	}

	sortByName(dirs)
	sortByName(others)

	next := NewEntryStore(initialCapacity)
	for _, e := range dirs {
		next.add(e)
	}
	for _, e := range others {
		next.add(e)
	}
	s.items = next.items
}

func sortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

func matchesAny(patterns []glob.Glob, name string) bool {
	for _, g := range patterns {
		if g != nil && g.Match(name) {
			return true
		}
	}
	return false
}

func decorate(raw fsutil.Entry, opts RebuildOptions) Entry {
	name := norm.NFC.String(raw.Name)
	path := raw.Path
	if path == "" {
		path = filepath.Clean(raw.Name)
	}

	entry := Entry{
		Name:       name,
		Path:       path,
		Kind:       raw.Kind,
		LinksToDir: raw.LinksToDir,
		Color:      KindColor(raw.Kind),
		Icon:       iconFor(opts.Icons, raw),
	}

	size := raw.Size
	if opts.DirsSize && raw.Kind == fsutil.KindDirectory && raw.Err == nil {
		dirSize := opts.dirSize
		if dirSize == nil {
			dirSize = fsutil.DirSize
		}
		if total, err := dirSize(raw.Path); err == nil {
			size = total
		}
	}
	entry.Stats = fsutil.FormatStats(raw, size)
	return entry
}

func iconFor(table *icons.Table, raw fsutil.Entry) string {
	switch raw.Kind {
	case fsutil.KindDirectory:
		return icons.DirectoryGlyph
	case fsutil.KindSymlink:
		if raw.LinksToDir {
			return icons.DirectoryGlyph
		}
		return icons.SymlinkGlyph
	}
	if table != nil {
		if glyph, ok := table.Lookup(raw.Name); ok {
			return glyph
		}
	}
	return icons.FileGlyph
}
