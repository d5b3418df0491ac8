package input

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/ccc/internal/term"
)

// fakeSource replays bytes. Once drained it times out bounded reads and
// reports EOF for blocking ones.
type fakeSource struct {
	data []byte
	errs []error
}

func (f *fakeSource) ReadByteTimeout(d time.Duration) (byte, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return 0, err
	}
	if len(f.data) == 0 {
		if d >= 0 {
			return 0, term.ErrTimeout
		}
		return 0, io.EOF
	}
	b := f.data[0]
	f.data = f.data[1:]
	return b, nil
}

// readStep is one scripted read: a byte, or an error when err is set.
type readStep struct {
	b   byte
	err error
}

// stepSource replays reads in order, so errors can sit between bytes.
type stepSource struct{ steps []readStep }

func (s *stepSource) ReadByteTimeout(time.Duration) (byte, error) {
	if len(s.steps) == 0 {
		return 0, io.EOF
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	return st.b, st.err
}

// eofSource reports EOF for every read, bounded or not.
type eofSource struct{ data []byte }

func (e *eofSource) ReadByteTimeout(time.Duration) (byte, error) {
	if len(e.data) == 0 {
		return 0, io.EOF
	}
	b := e.data[0]
	e.data = e.data[1:]
	return b, nil
}

func decodeAll(t *testing.T, src ByteSource) []*tcell.EventKey {
	t.Helper()
	d := NewDecoder(src)
	var events []*tcell.EventKey
	for {
		ev, err := d.ReadKey()
		if err != nil {
			if !errors.Is(err, ErrClosed) {
				t.Fatalf("ReadKey: %v", err)
			}
			return events
		}
		events = append(events, ev)
		if len(events) > 64 {
			t.Fatalf("decoder did not stop")
		}
	}
}

type wantKey struct {
	key tcell.Key
	r   rune
	mod tcell.ModMask
}

func TestDecoderSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []wantKey
	}{
		{"plain runes", "jk", []wantKey{{tcell.KeyRune, 'j', 0}, {tcell.KeyRune, 'k', 0}}},
		{"utf8 rune", "\u00e9", []wantKey{{tcell.KeyRune, '\u00e9', 0}}},
		{"enter cr", "\r", []wantKey{{tcell.KeyEnter, 0, 0}}},
		{"enter lf", "\n", []wantKey{{tcell.KeyEnter, 0, 0}}},
		{"ctrl-u", "\x15", []wantKey{{tcell.KeyCtrlU, 0, tcell.ModCtrl}}},
		{"backspace del", "\x7f", []wantKey{{tcell.KeyBackspace2, 0, 0}}},
		{"csi up", "\x1b[A", []wantKey{{tcell.KeyUp, 0, 0}}},
		{"csi down", "\x1b[B", []wantKey{{tcell.KeyDown, 0, 0}}},
		{"csi right", "\x1b[C", []wantKey{{tcell.KeyRight, 0, 0}}},
		{"csi left", "\x1b[D", []wantKey{{tcell.KeyLeft, 0, 0}}},
		{"csi home", "\x1b[H", []wantKey{{tcell.KeyHome, 0, 0}}},
		{"csi end", "\x1b[F", []wantKey{{tcell.KeyEnd, 0, 0}}},
		{"ss3 up", "\x1bOA", []wantKey{{tcell.KeyUp, 0, 0}}},
		{"ss3 f1", "\x1bOP", []wantKey{{tcell.KeyF1, 0, 0}}},
		{"tilde home", "\x1b[1~", []wantKey{{tcell.KeyHome, 0, 0}}},
		{"tilde home alt", "\x1b[7~", []wantKey{{tcell.KeyHome, 0, 0}}},
		{"tilde delete", "\x1b[3~", []wantKey{{tcell.KeyDelete, 0, 0}}},
		{"tilde end", "\x1b[4~", []wantKey{{tcell.KeyEnd, 0, 0}}},
		{"tilde end alt", "\x1b[8~", []wantKey{{tcell.KeyEnd, 0, 0}}},
		{"tilde pgup", "\x1b[5~", []wantKey{{tcell.KeyPgUp, 0, 0}}},
		{"tilde pgdn", "\x1b[6~", []wantKey{{tcell.KeyPgDn, 0, 0}}},
		{"ctrl up", "\x1b[1;5A", []wantKey{{tcell.KeyUp, 0, tcell.ModCtrl}}},
		{"shift tab", "\x1b[Z", []wantKey{{tcell.KeyBacktab, 0, 0}}},
		{"unknown tilde", "\x1b[99~", []wantKey{{tcell.KeyEscape, 0, 0}}},
		{"unknown final", "\x1b[5X", []wantKey{{tcell.KeyEscape, 0, 0}}},
		{"lone escape", "\x1b", []wantKey{{tcell.KeyEscape, 0, 0}}},
		{"truncated csi", "\x1b[", []wantKey{{tcell.KeyEscape, 0, 0}}},
		{"truncated params", "\x1b[5", []wantKey{{tcell.KeyEscape, 0, 0}}},
		{"escape then rune", "\x1bq", []wantKey{{tcell.KeyEscape, 0, 0}, {tcell.KeyRune, 'q', 0}}},
		{"double escape", "\x1b\x1b", []wantKey{{tcell.KeyEscape, 0, 0}, {tcell.KeyEscape, 0, 0}}},
		{"sequence then rune", "\x1b[Bj", []wantKey{{tcell.KeyDown, 0, 0}, {tcell.KeyRune, 'j', 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAll(t, &fakeSource{data: []byte(tt.input)})
			if len(got) != len(tt.want) {
				t.Fatalf("decoded %d events want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				ev := got[i]
				if ev.Key() != w.key {
					t.Fatalf("event %d key=%v want %v", i, ev.Key(), w.key)
				}
				if w.key == tcell.KeyRune && ev.Rune() != w.r {
					t.Fatalf("event %d rune=%q want %q", i, ev.Rune(), w.r)
				}
				if ev.Modifiers() != w.mod {
					t.Fatalf("event %d mod=%v want %v", i, ev.Modifiers(), w.mod)
				}
			}
		})
	}
}

func TestDecoderOverlongSequenceIsBounded(t *testing.T) {
	input := append([]byte("\x1b["), make([]byte, 40)...)
	for i := 2; i < len(input); i++ {
		input[i] = '1'
	}
	src := &fakeSource{data: input}
	d := NewDecoder(src)
	ev, err := d.ReadKey()
	if err != nil {
		t.Fatal(err)
	}
	if ev.Key() != tcell.KeyEscape {
		t.Fatalf("key=%v want escape", ev.Key())
	}
	if consumed := len(input) - len(src.data); consumed > 2+maxSequenceLen {
		t.Fatalf("consumed %d bytes", consumed)
	}
}

func TestDecoderEOFMidSequence(t *testing.T) {
	got := decodeAll(t, &eofSource{data: []byte("\x1b[1")})
	if len(got) != 1 || got[0].Key() != tcell.KeyEscape {
		t.Fatalf("want a single escape, got %d events", len(got))
	}
}

func TestDecoderPassesInterruptThrough(t *testing.T) {
	src := &fakeSource{data: []byte("j"), errs: []error{term.ErrInterrupted}}
	d := NewDecoder(src)

	_, err := d.ReadKey()
	if !IsInterrupt(err) {
		t.Fatalf("err=%v want interrupt", err)
	}
	ev, err := d.ReadKey()
	if err != nil || ev.Rune() != 'j' {
		t.Fatalf("after interrupt got %v, %v", ev, err)
	}
}

func TestDecoderWakeInsideSequence(t *testing.T) {
	wake := readStep{err: term.ErrInterrupted}
	tests := []struct {
		name  string
		steps []readStep
		want  tcell.Key
	}{
		{"after ESC", []readStep{{b: 0x1b}, wake, {b: '['}, {b: 'A'}}, tcell.KeyUp},
		{"inside CSI", []readStep{{b: 0x1b}, {b: '['}, wake, wake, {b: '3'}, wake, {b: '~'}}, tcell.KeyDelete},
		{"inside SS3", []readStep{{b: 0x1b}, {b: 'O'}, wake, {b: 'B'}}, tcell.KeyDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeAll(t, &stepSource{steps: tt.steps})
			if len(got) != 1 || got[0].Key() != tt.want {
				t.Fatalf("want a single %v, got %d events (first %v)", tt.want, len(got), got)
			}
		})
	}
}

func TestDecoderWakeInsideRune(t *testing.T) {
	src := &stepSource{steps: []readStep{{b: 0xc3}, {err: term.ErrInterrupted}, {b: 0xa9}}}
	ev, err := NewDecoder(src).ReadKey()
	if err != nil || ev.Rune() != 'é' {
		t.Fatalf("got %v, %v want é", ev, err)
	}
}

func TestDecoderClosed(t *testing.T) {
	_, err := NewDecoder(&fakeSource{}).ReadKey()
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("err=%v want ErrClosed", err)
	}
}
