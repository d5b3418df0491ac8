package render

import (
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/ccc/internal/textutil"
	"github.com/mattn/go-runewidth"
)

// WrapANSI splits line into rows of at most width visible cells. SGR
// sequences take no width and are never split; they stay on the row where
// they appear. Every other escape, such as cursor movement, erase, OSC or
// charset selection, is dropped so the text can not leave its pane. Each
// continuation row starts with the SGR state that was active where the
// previous row ended, so colors carry across the wrap.
func WrapANSI(line string, width int) []string {
	if width <= 0 {
		return nil
	}

	var (
		rows   []string
		row    strings.Builder
		col    int
		active string
	)
	newRow := func() {
		rows = append(rows, row.String())
		row.Reset()
		row.WriteString(active)
		col = 0
	}

	for i := 0; i < len(line); {
		if line[i] == 0x1b {
			seq, isSGR := textutil.ScanEscape(line[i:])
			if isSGR {
				row.WriteString(seq)
				active = nextSGRState(active, seq)
			}
			i += len(seq)
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		i += size
		if r < 0x20 || r == 0x7f {
			continue
		}
		w := runewidth.RuneWidth(r)
		if w > width {
			continue
		}
		if w > 0 && col+w > width {
			newRow()
		}
		row.WriteRune(r)
		col += w
	}
	rows = append(rows, row.String())
	return rows
}

func nextSGRState(active, seq string) string {
	params := seq[2 : len(seq)-1]
	if params == "" || params == "0" {
		return ""
	}
	return active + seq
}
