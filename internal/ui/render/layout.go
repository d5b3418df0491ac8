package render

import "github.com/kk-code-lab/ccc/internal/term"

const (
	minListWidth    = 12
	minPreviewWidth = 8
	separatorWidth  = 1
)

// Layout is the screen split for one frame. Rows and columns are 1-based.
type Layout struct {
	Rows         int
	Cols         int
	ListWidth    int
	PreviewCol   int
	PreviewWidth int
	// ContentRows is the number of rows above the status line.
	ContentRows int
	StatusRow   int
}

// ComputeLayout splits g into a listing on the left and a preview on the
// right. splitOffset moves the boundary right (positive) or left.
func ComputeLayout(g term.Geometry, splitOffset int) Layout {
	l := Layout{Rows: g.Rows, Cols: g.Cols}
	l.ContentRows = g.Rows - 1
	if l.ContentRows < 0 {
		l.ContentRows = 0
	}
	l.StatusRow = g.Rows

	list := g.Cols/2 + splitOffset
	if limit := g.Cols - separatorWidth - minPreviewWidth; list > limit {
		list = limit
	}
	if list < minListWidth {
		list = minListWidth
	}
	if list > g.Cols {
		list = g.Cols
	}
	l.ListWidth = list
	l.PreviewCol = list + separatorWidth + 1
	l.PreviewWidth = g.Cols - list - separatorWidth
	if l.PreviewWidth < 0 {
		l.PreviewWidth = 0
	}
	return l
}

// OverflowOffset returns the index of the first listed entry so that the
// selection stays inside a window of visible rows. While the selection fits
// on the first page the window starts at 0; past that the selection sits on
// the last visible row.
func OverflowOffset(selected, visible int) int {
	if visible <= 0 || selected < visible {
		return 0
	}
	return selected - visible + 1
}
