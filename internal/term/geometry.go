package term

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

var (
	// ErrNotTerminal is returned when the controlling terminal can not be used.
	ErrNotTerminal = errors.New("not a terminal")
	// ErrTooSmall is returned when the terminal is below the minimum geometry.
	ErrTooSmall = errors.New("terminal too small")
	// ErrTimeout is returned by ReadByteTimeout when no byte arrived in time.
	ErrTimeout = errors.New("read timeout")
	// ErrInterrupted is returned by ReadByteTimeout when the session was woken
	// up, for example by a resize, before a byte arrived.
	ErrInterrupted = errors.New("read interrupted")
	// ErrNoSize is returned when neither the ioctl nor the cursor probe
	// produced a usable size.
	ErrNoSize = errors.New("terminal size unavailable")
)

const (
	probeRequest = "\x1b7\x1b[999;999H\x1b[6n\x1b8"
	probeMaxRead = 32
	probeTimeout = 200 * time.Millisecond
)

// Geometry is the terminal size in character cells.
type Geometry struct {
	Rows int
	Cols int
}

// Fits reports whether g is at least minRows by minCols.
func (g Geometry) Fits(minRows, minCols int) bool {
	return g.Rows >= minRows && g.Cols >= minCols
}

// CheckMinimum returns an ErrTooSmall wrapping error when g does not fit.
func (g Geometry) CheckMinimum(minRows, minCols int) error {
	if g.Fits(minRows, minCols) {
		return nil
	}
	return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrTooSmall, g.Cols, g.Rows, minCols, minRows)
}

func (g Geometry) String() string {
	return strconv.Itoa(g.Cols) + "x" + strconv.Itoa(g.Rows)
}

type byteReader interface {
	ReadByteTimeout(d time.Duration) (byte, error)
}

// probeSize asks the terminal where the cursor lands after moving it to the
// far bottom-right corner. The exchange is bounded by probeTimeout and
// probeMaxRead, so an unresponsive terminal yields ErrNoSize instead of
// blocking.
func probeSize(w io.Writer, flush func() error, src byteReader) (Geometry, error) {
	if _, err := io.WriteString(w, probeRequest); err != nil {
		return Geometry{}, fmt.Errorf("write cursor probe: %w", err)
	}
	if flush != nil {
		if err := flush(); err != nil {
			return Geometry{}, fmt.Errorf("write cursor probe: %w", err)
		}
	}

	deadline := time.Now().Add(probeTimeout)
	var reply []byte
	for len(reply) < probeMaxRead {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		b, err := src.ReadByteTimeout(remaining)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				continue
			}
			break
		}
		reply = append(reply, b)
		if b == 'R' {
			return parseCursorReport(reply)
		}
	}
	return Geometry{}, ErrNoSize
}

// parseCursorReport extracts rows and columns from a "ESC [ rows ; cols R"
// reply. Bytes before the introducer are ignored.
func parseCursorReport(reply []byte) (Geometry, error) {
	start := bytes.LastIndex(reply, []byte("\x1b["))
	if start < 0 || len(reply) == 0 || reply[len(reply)-1] != 'R' {
		return Geometry{}, ErrNoSize
	}
	body := reply[start+2 : len(reply)-1]
	sep := bytes.IndexByte(body, ';')
	if sep < 0 {
		return Geometry{}, ErrNoSize
	}
	rows, err := strconv.Atoi(string(body[:sep]))
	if err != nil {
		return Geometry{}, ErrNoSize
	}
	cols, err := strconv.Atoi(string(body[sep+1:]))
	if err != nil {
		return Geometry{}, ErrNoSize
	}
	if rows <= 0 || cols <= 0 {
		return Geometry{}, ErrNoSize
	}
	return Geometry{Rows: rows, Cols: cols}, nil
}
