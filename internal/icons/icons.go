package icons

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Capacity is the fixed number of slots. The table never resizes, so it has to
	// stay well above the size of the built-in set.
	Capacity = 128

	// MaxKeyLen bounds both stored keys and the prefix of a lookup key that is hashed.
	MaxKeyLen = 30
)

var (
	// ErrTableFull is returned when linear probing wraps around without finding a free slot.
	ErrTableFull = errors.New("icon table full")
	// ErrInvalidKey is returned for empty keys or keys longer than MaxKeyLen.
	ErrInvalidKey = errors.New("invalid icon key")
)

// Icon maps a file extension (or whole file name) to a display glyph.
type Icon struct {
	Key   string
	Glyph string
}

// Table is a fixed-capacity open-addressing map from Icon.Key to Icon.Glyph.
type Table struct {
	slots []*Icon
	count int
}

// New returns an empty table with Capacity slots.
func New() *Table {
	return newTable(Capacity)
}

func newTable(capacity int) *Table {
	if capacity < 1 {
		capacity = 1
	}
	return &Table{slots: make([]*Icon, capacity)}
}

// Builtin returns a table populated with the built-in icon set.
func Builtin() (*Table, error) {
	t := New()
	for _, icon := range builtinIcons {
		if err := t.Add(icon.Key, icon.Glyph); err != nil {
			return nil, fmt.Errorf("add icon %q: %w", icon.Key, err)
		}
	}
	return t, nil
}

// MustBuiltin is like Builtin but panics on failure. The built-in set is fixed,
// so a failure here is a programming error.
func MustBuiltin() *Table {
	t, err := Builtin()
	if err != nil {
		panic(err)
	}
	return t
}

// Len reports how many icons are stored.
func (t *Table) Len() int {
	return t.count
}

// Cap reports the number of slots.
func (t *Table) Cap() int {
	return len(t.slots)
}

// hash accumulates h = (h + b) * b mod capacity over the first MaxKeyLen bytes.
func (t *Table) hash(key string) int {
	n := len(key)
	if n > MaxKeyLen {
		n = MaxKeyLen
	}
	capacity := uint32(len(t.slots))
	var h uint32
	for i := 0; i < n; i++ {
		b := uint32(key[i])
		h += b
		h = (h * b) % capacity
	}
	return int(h)
}

// Add stores glyph under key. An existing key has its glyph replaced.
func (t *Table) Add(key, glyph string) error {
	if key == "" || len(key) > MaxKeyLen {
		return ErrInvalidKey
	}

	start := t.hash(key)
	idx := start
	for {
		slot := t.slots[idx]
		if slot == nil {
			t.slots[idx] = &Icon{Key: key, Glyph: glyph}
			t.count++
			return nil
		}
		if slot.Key == key {
			slot.Glyph = glyph
			return nil
		}
		idx = (idx + 1) % len(t.slots)
		if idx == start {
			return ErrTableFull
		}
	}
}

// Search returns the glyph stored for key. The probe stops at a match, at an
// empty slot, or after a full cycle.
func (t *Table) Search(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	start := t.hash(key)
	idx := start
	for {
		slot := t.slots[idx]
		if slot == nil {
			return "", false
		}
		if slot.Key == key {
			return slot.Glyph, true
		}
		idx = (idx + 1) % len(t.slots)
		if idx == start {
			return "", false
		}
	}
}

// Lookup resolves the glyph for a file name using KeyFor.
func (t *Table) Lookup(name string) (string, bool) {
	return t.Search(KeyFor(name))
}

// KeyFor returns the part of name after its last '.', or name itself when it
// contains no dot. Dotfiles such as ".gitignore" therefore resolve to "gitignore".
func KeyFor(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
