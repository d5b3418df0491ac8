package state

import "fmt"

// MarkSet holds independent copies of the entries selected for a bulk action.
// No two records share a path; the set is expected to stay small, so
// membership is a linear scan.
type MarkSet struct {
	items []Entry
}

// NewMarkSet returns an empty set.
func NewMarkSet() *MarkSet {
	return &MarkSet{}
}

// Len returns the number of marked entries.
func (m *MarkSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}

// Get returns the record at i.
func (m *MarkSet) Get(i int) (Entry, bool) {
	if m == nil || i < 0 || i >= len(m.items) {
		return Entry{}, false
	}
	return m.items[i], true
}

// Contains reports whether path is marked.
func (m *MarkSet) Contains(path string) bool {
	return m.index(path) >= 0
}

// Paths returns the marked paths in marking order.
func (m *MarkSet) Paths() []string {
	paths := make([]string, m.Len())
	for i := range paths {
		paths[i] = m.items[i].Path
	}
	return paths
}

// Entries returns a copy of the marked records.
func (m *MarkSet) Entries() []Entry {
	out := make([]Entry, m.Len())
	copy(out, m.items)
	return out
}

// Toggle un-marks e when its path is already present and marks it otherwise.
// It reports whether e is marked afterwards.
func (m *MarkSet) Toggle(e Entry) bool {
	if idx := m.index(e.Path); idx >= 0 {
		m.remove(idx)
		return false
	}
	m.add(e)
	return true
}

// MarkAll applies every entry to the set. With force, entries that are already
// marked are skipped, which makes repeated calls idempotent; without force each
// entry is toggled. It returns how many records were added.
func (m *MarkSet) MarkAll(entries []Entry, force bool) int {
	added := 0
	for _, e := range entries {
		if m.index(e.Path) >= 0 {
			if force {
				continue
			}
			m.Toggle(e)
			continue
		}
		m.add(e)
		added++
	}
	return added
}

// Remove un-marks path if present.
func (m *MarkSet) Remove(path string) bool {
	if idx := m.index(path); idx >= 0 {
		m.remove(idx)
		return true
	}
	return false
}

// Clear empties the set.
func (m *MarkSet) Clear() {
	m.items = nil
}

func (m *MarkSet) index(path string) int {
	if m == nil {
		return -1
	}
	for i := range m.items {
		if m.items[i].Path == path {
			return i
		}
	}
	return -1
}

func (m *MarkSet) add(e Entry) {
	if m.index(e.Path) >= 0 {
		panic(fmt.Sprintf("state: duplicate mark for %q", e.Path))
	}
	m.items = appendDoubling(m.items, e)
}

func (m *MarkSet) remove(idx int) {
	copy(m.items[idx:], m.items[idx+1:])
	m.items[len(m.items)-1] = Entry{}
	m.items = m.items[:len(m.items)-1]
}
