package fs

import (
	"os"
	"path/filepath"
)

// ReadDir scans dir and returns one Entry per directory item, excluding "." and "..".
// A failure to open or read dir is returned as an error. A failure to stat a
// single item is recorded on that Entry and does not abort the scan.
func ReadDir(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		name := item.Name()
		if name == "." || name == ".." {
			continue
		}
		entries = append(entries, statEntry(filepath.Join(dir, name), name))
	}
	return entries, nil
}

// Stat returns the Entry for a single path.
func Stat(path string) Entry {
	return statEntry(path, filepath.Base(path))
}

func statEntry(fullPath, name string) Entry {
	entry := Entry{Name: name, Path: fullPath, Kind: KindUnknown}

	info, err := os.Lstat(fullPath)
	if err != nil {
		entry.Err = err
		return entry
	}

	entry.Kind = KindOf(info.Mode())
	entry.Size = info.Size()
	entry.Modified = info.ModTime()
	entry.Mode = info.Mode()

	if entry.Kind == KindSymlink {
		if target, err := os.Stat(fullPath); err == nil {
			entry.LinksToDir = target.IsDir()
		}
	}
	return entry
}
