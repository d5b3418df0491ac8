package fs

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	statsTimeLayout = "2006-01-02 15:04"
	placeholderMode = "??????????"
	placeholderTime = "????-??-?? ??:??"
	placeholderSize = "?"
)

// FormatStats renders mode bits, modification time, and size as one column
// block. size overrides e.Size so callers can pass a recursive directory size.
func FormatStats(e Entry, size int64) string {
	if e.Err != nil {
		return fmt.Sprintf("%s %-16s %8s", placeholderMode, placeholderTime, placeholderSize)
	}
	if size < 0 {
		size = 0
	}
	return fmt.Sprintf("%s %-16s %8s",
		e.Mode.String(),
		e.Modified.Format(statsTimeLayout),
		humanize.IBytes(uint64(size)))
}
