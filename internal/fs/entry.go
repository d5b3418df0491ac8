package fs

import (
	"os"
	"time"
)

// Kind classifies a directory entry by its file type bits.
type Kind int

const (
	KindRegular Kind = iota
	KindDirectory
	KindSymlink
	KindCharDevice
	KindSocket
	KindBlockDevice
	KindFifo
	KindUnknown
)

var kindNames = [...]string{
	KindRegular:     "REG",
	KindDirectory:   "DIR",
	KindSymlink:     "LNK",
	KindCharDevice:  "CHR",
	KindSocket:      "SOC",
	KindBlockDevice: "BLK",
	KindFifo:        "FIF",
	KindUnknown:     "???",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// KindOf maps file mode type bits to a Kind.
func KindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	case mode&os.ModeNamedPipe != 0:
		return KindFifo
	case mode&os.ModeSocket != 0:
		return KindSocket
	case mode&os.ModeDevice != 0:
		if mode&os.ModeCharDevice != 0 {
			return KindCharDevice
		}
		return KindBlockDevice
	case mode.IsRegular():
		return KindRegular
	default:
		return KindUnknown
	}
}

// Entry represents a single scanned file system object.
type Entry struct {
	Name       string
	Path       string
	Kind       Kind
	LinksToDir bool // symlink whose target is a directory
	Size       int64
	Modified   time.Time
	Mode       os.FileMode
	Err        error // non-nil when the entry's metadata could not be read
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return IsHidden(e.Name)
}

// Navigable reports whether the entry can be entered as a directory.
func (e Entry) Navigable() bool {
	return e.Kind == KindDirectory || e.LinksToDir
}
