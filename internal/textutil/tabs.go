package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 8

const ellipsis = "…"

// ExpandTabs replaces tab characters with spaces up to the next tab stop.
// Escape sequences are copied through without advancing the column.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	column := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			seq, _ := ScanEscape(text[i:])
			b.WriteString(seq)
			i += len(seq)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r == '\t' {
			spaces := tabWidth - column%tabWidth
			b.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		b.WriteRune(r)
		column += runewidth.RuneWidth(r)
	}
	return b.String()
}

// DisplayWidth reports the number of cells text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth shortens plain text to at most width cells, marking the cut
// with an ellipsis.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ellipsis
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// PadToWidth truncates or right-pads text with spaces to exactly width cells.
func PadToWidth(text string, width int) string {
	text = TruncateToWidth(text, width)
	if pad := width - DisplayWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}
