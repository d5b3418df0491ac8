package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/ccc/internal/state"
	"github.com/kk-code-lab/ccc/internal/textutil"
)

// formatStatus returns the default status text: position, mark count, and the
// current directory.
func formatStatus(s *state.Session) string {
	total := s.Store.Len()
	pos := 0
	if total > 0 {
		pos = s.Selected + 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%d/%d)", pos, total)
	if n := s.Marks.Len(); n > 0 {
		fmt.Fprintf(&b, " [%d] selected", n)
	}
	b.WriteString(" ")
	b.WriteString(textutil.SanitizeTerminalText(s.Cwd))

	var flags []string
	if s.ShowHidden {
		flags = append(flags, "hidden")
	}
	if s.DirsSize {
		flags = append(flags, "sizes")
	}
	if len(flags) > 0 {
		b.WriteString(" [" + strings.Join(flags, ",") + "]")
	}
	return b.String()
}

func formatTooSmall(rows, cols, minRows, minCols int) string {
	return fmt.Sprintf("terminal too small: %dx%d, need %dx%d", cols, rows, minCols, minRows)
}
