package input

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/ccc/internal/term"
)

// EscapeTimeout is how long a lone ESC waits for the rest of a sequence.
const EscapeTimeout = 25 * time.Millisecond

const maxSequenceLen = 16

// ErrClosed is returned once the terminal has hung up.
var ErrClosed = errors.New("input closed")

// ByteSource delivers terminal input one byte at a time. A negative timeout
// blocks. Implementations return term.ErrTimeout when the timeout elapses and
// term.ErrInterrupted when woken before input arrived.
type ByteSource interface {
	ReadByteTimeout(d time.Duration) (byte, error)
}

// Decoder turns raw terminal bytes into key events.
type Decoder struct {
	src        ByteSource
	escTimeout time.Duration
	pending    []byte
}

// NewDecoder reads from src.
func NewDecoder(src ByteSource) *Decoder {
	return &Decoder{src: src, escTimeout: EscapeTimeout}
}

// next returns the following byte. A bounded read that is woken keeps
// waiting for what is left of its timeout, so a wake-up never splits a
// sequence; the caller services the wake after the key is decoded.
func (d *Decoder) next(timeout time.Duration) (byte, error) {
	if len(d.pending) > 0 {
		b := d.pending[0]
		d.pending = d.pending[1:]
		return b, nil
	}
	if timeout < 0 {
		return d.src.ReadByteTimeout(timeout)
	}

	deadline := time.Now().Add(timeout)
	for {
		b, err := d.src.ReadByteTimeout(timeout)
		if !errors.Is(err, term.ErrInterrupted) {
			return b, err
		}
		if timeout = time.Until(deadline); timeout <= 0 {
			return 0, term.ErrTimeout
		}
	}
}

// ReadKey blocks until one key is decoded. term.ErrInterrupted is passed
// through unchanged so the caller can service a wake-up; a hang-up is
// reported as ErrClosed.
func (d *Decoder) ReadKey() (*tcell.EventKey, error) {
	b, err := d.next(-1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return nil, err
	}

	switch {
	case b == 0x1b:
		return d.readEscape(), nil
	case b == '\n' || b == '\r':
		return tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), nil
	case b < 0x20 || b == 0x7f:
		return tcell.NewEventKey(tcell.KeyRune, rune(b), tcell.ModNone), nil
	case b < utf8.RuneSelf:
		return tcell.NewEventKey(tcell.KeyRune, rune(b), tcell.ModNone), nil
	}
	return tcell.NewEventKey(tcell.KeyRune, d.readRune(b), tcell.ModNone), nil
}

func (d *Decoder) readRune(lead byte) rune {
	buf := []byte{lead}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		b, err := d.next(d.escTimeout)
		if err != nil {
			return utf8.RuneError
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return r
}

func escapeKey() *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
}

// readEscape decodes what follows an ESC. A timeout, a hang-up, or an
// unrecognised sequence all yield a bare escape.
func (d *Decoder) readEscape() *tcell.EventKey {
	b, err := d.next(d.escTimeout)
	if err != nil {
		return escapeKey()
	}
	switch b {
	case '[':
		return d.readCSI()
	case 'O':
		return d.readSS3()
	default:
		// Not a sequence: keep the byte for the next ReadKey.
		d.pending = append(d.pending, b)
		return escapeKey()
	}
}

func (d *Decoder) readSS3() *tcell.EventKey {
	b, err := d.next(d.escTimeout)
	if err != nil {
		return escapeKey()
	}
	if key, ok := letterKeys[b]; ok {
		return tcell.NewEventKey(key, 0, tcell.ModNone)
	}
	switch b {
	case 'P', 'Q', 'R', 'S':
		return tcell.NewEventKey(tcell.KeyF1+tcell.Key(b-'P'), 0, tcell.ModNone)
	}
	return escapeKey()
}

var letterKeys = map[byte]tcell.Key{
	'A': tcell.KeyUp,
	'B': tcell.KeyDown,
	'C': tcell.KeyRight,
	'D': tcell.KeyLeft,
	'H': tcell.KeyHome,
	'F': tcell.KeyEnd,
}

var tildeKeys = map[int]tcell.Key{
	1:  tcell.KeyHome,
	2:  tcell.KeyInsert,
	3:  tcell.KeyDelete,
	4:  tcell.KeyEnd,
	5:  tcell.KeyPgUp,
	6:  tcell.KeyPgDn,
	7:  tcell.KeyHome,
	8:  tcell.KeyEnd,
	11: tcell.KeyF1,
	12: tcell.KeyF2,
	13: tcell.KeyF3,
	14: tcell.KeyF4,
	15: tcell.KeyF5,
	17: tcell.KeyF6,
	18: tcell.KeyF7,
	19: tcell.KeyF8,
	20: tcell.KeyF9,
	21: tcell.KeyF10,
	23: tcell.KeyF11,
	24: tcell.KeyF12,
}

// readCSI collects parameter and intermediate bytes up to a final byte.
func (d *Decoder) readCSI() *tcell.EventKey {
	var params []byte
	for len(params) < maxSequenceLen {
		b, err := d.next(d.escTimeout)
		if err != nil {
			return escapeKey()
		}
		switch {
		case b >= 0x20 && b <= 0x3f:
			params = append(params, b)
			continue
		case b >= 0x40 && b <= 0x7e:
			return decodeCSI(string(params), b)
		default:
			return escapeKey()
		}
	}
	return escapeKey()
}

func decodeCSI(params string, final byte) *tcell.EventKey {
	fields := strings.Split(params, ";")
	mod := tcell.ModNone
	if len(fields) == 2 {
		m, err := strconv.Atoi(fields[1])
		if err != nil {
			return escapeKey()
		}
		mod = xtermModifiers(m)
	} else if len(fields) > 2 {
		return escapeKey()
	}

	if key, ok := letterKeys[final]; ok {
		if fields[0] != "" && fields[0] != "1" {
			return escapeKey()
		}
		return tcell.NewEventKey(key, 0, mod)
	}

	switch final {
	case 'Z':
		if params == "" {
			return tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone)
		}
	case '~':
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return escapeKey()
		}
		if key, ok := tildeKeys[n]; ok {
			return tcell.NewEventKey(key, 0, mod)
		}
	}
	return escapeKey()
}

// xtermModifiers converts the xterm "1 + bitmask" modifier parameter.
func xtermModifiers(m int) tcell.ModMask {
	if m < 2 {
		return tcell.ModNone
	}
	bits := m - 1
	mod := tcell.ModNone
	if bits&1 != 0 {
		mod |= tcell.ModShift
	}
	if bits&2 != 0 {
		mod |= tcell.ModAlt
	}
	if bits&4 != 0 {
		mod |= tcell.ModCtrl
	}
	if bits&8 != 0 {
		mod |= tcell.ModMeta
	}
	return mod
}

// IsInterrupt reports whether err is a wake-up rather than a failure.
func IsInterrupt(err error) bool {
	return errors.Is(err, term.ErrInterrupted)
}
