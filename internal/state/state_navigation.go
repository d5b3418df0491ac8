package state

import (
	"github.com/sahilm/fuzzy"
)

// Current returns the selected entry.
func (s *Session) Current() (Entry, bool) {
	return s.Store.Get(s.Selected)
}

// Move shifts the selection by delta and clamps it to the listing.
func (s *Session) Move(delta int) {
	s.Selected += delta
	s.clampSelection()
}

// Top selects the first entry.
func (s *Session) Top() {
	s.Selected = 0
}

// Bottom selects the last entry.
func (s *Session) Bottom() {
	s.Selected = s.Store.Len() - 1
	s.clampSelection()
}

// SelectPath selects the entry with path and reports whether it was found.
func (s *Session) SelectPath(path string) bool {
	idx := s.Store.Index(path)
	if idx < 0 {
		return false
	}
	s.Selected = idx
	return true
}

func (s *Session) clampSelection() {
	n := s.Store.Len()
	if s.Selected >= n {
		s.Selected = n - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}

// ToggleMark toggles the selected entry and advances the selection.
func (s *Session) ToggleMark() bool {
	cur, ok := s.Current()
	if !ok {
		return false
	}
	marked := s.Marks.Toggle(cur)
	s.Move(1)
	return marked
}

// MarkAll marks every listed entry. See MarkSet.MarkAll for force.
func (s *Session) MarkAll(force bool) int {
	return s.Marks.MarkAll(s.Store.Entries(), force)
}

// ClearMarks drops every mark.
func (s *Session) ClearMarks() {
	s.Marks.Clear()
}

// ToggleHidden flips hidden-file visibility and rebuilds the listing.
func (s *Session) ToggleHidden() error {
	s.ShowHidden = !s.ShowHidden
	return s.Reload()
}

// ToggleDirsSize flips recursive directory sizes and rebuilds the listing.
func (s *Session) ToggleDirsSize() error {
	s.DirsSize = !s.DirsSize
	return s.Reload()
}

// String implements fuzzy.Source.
func (s *EntryStore) String(i int) string {
	return s.items[i].Name
}

// Find selects the best fuzzy match for query among entry names. An empty
// query repeats the previous one and moves to the next match after the
// selection.
func (s *Session) Find(query string) bool {
	next := false
	if query == "" {
		query = s.findLast
		next = true
	}
	if query == "" || s.Store.Len() == 0 {
		return false
	}
	s.findLast = query

	matches := fuzzy.FindFrom(query, s.Store)
	if len(matches) == 0 {
		s.SetStatus("no match for %q", query)
		return false
	}
	if !next {
		s.Selected = matches[0].Index
		return true
	}

	best := -1
	for _, m := range matches {
		if m.Index > s.Selected && (best < 0 || m.Index < best) {
			best = m.Index
		}
	}
	if best < 0 {
		best = matches[0].Index
		for _, m := range matches {
			if m.Index < best {
				best = m.Index
			}
		}
	}
	s.Selected = best
	return true
}
