//go:build !windows && !plan9 && !js && !wasip1

package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// Session owns the controlling terminal: raw mode, the alternate screen, the
// resize flag, and the wake pipe that interrupts blocking reads.
type Session struct {
	tty    *os.File
	fd     int
	screen *Screen
	logger logrus.FieldLogger

	wakeR *os.File
	wakeW *os.File

	mu      sync.Mutex
	saved   *xterm.State
	entered bool
	closed  bool

	resized atomic.Bool
	sigCh   chan os.Signal
	sigDone chan struct{}
}

// Open attaches to /dev/tty. The terminal is left untouched until Enter.
func Open(logger logrus.FieldLogger) (*Session, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTerminal, err)
	}
	fd := int(tty.Fd())
	if !xterm.IsTerminal(fd) {
		_ = tty.Close()
		return nil, ErrNotTerminal
	}

	wakeR, wakeW, err := os.Pipe()
	if err != nil {
		_ = tty.Close()
		return nil, fmt.Errorf("create wake pipe: %w", err)
	}
	_ = unix.SetNonblock(int(wakeR.Fd()), true)
	_ = unix.SetNonblock(int(wakeW.Fd()), true)

	return &Session{
		tty:    tty,
		fd:     fd,
		screen: NewScreen(tty),
		logger: logger,
		wakeR:  wakeR,
		wakeW:  wakeW,
	}, nil
}

// Screen returns the frame writer bound to the terminal.
func (s *Session) Screen() *Screen {
	return s.screen
}

// Enter switches to raw mode and the alternate screen and starts listening
// for resizes.
func (s *Session) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotTerminal
	}
	if s.entered {
		return nil
	}

	state, err := xterm.MakeRaw(s.fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	s.saved = state
	s.entered = true

	s.screen.WriteString(seqAltScreenOn + seqHideCursor + seqWrapOff + seqClearScreen + seqHome)
	if err := s.screen.Flush(); err != nil {
		s.leaveLocked()
		return fmt.Errorf("enter alternate screen: %w", err)
	}

	if s.sigCh == nil {
		s.startResizeWatch()
	}
	return nil
}

// Leave restores the cooked mode and the primary screen. It is safe to call
// any number of times and from any exit path.
func (s *Session) Leave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaveLocked()
}

func (s *Session) leaveLocked() error {
	if !s.entered {
		return nil
	}
	s.entered = false

	s.screen.WriteString(seqReset + seqWrapOn + seqShowCursor + seqAltScreenOff)
	flushErr := s.screen.Flush()

	var restoreErr error
	if s.saved != nil {
		restoreErr = xterm.Restore(s.fd, s.saved)
	}
	if restoreErr != nil {
		s.logger.WithError(restoreErr).Warn("restore terminal")
		return fmt.Errorf("restore terminal: %w", restoreErr)
	}
	return flushErr
}

// Suspend hands the terminal to a child program.
func (s *Session) Suspend() error {
	return s.Leave()
}

// Resume takes the terminal back after Suspend.
func (s *Session) Resume() error {
	return s.Enter()
}

// Close leaves the UI mode and releases every resource.
func (s *Session) Close() error {
	err := s.Leave()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return err
	}
	s.closed = true
	if s.sigCh != nil {
		signal.Stop(s.sigCh)
		close(s.sigDone)
	}
	_ = s.wakeW.Close()
	_ = s.wakeR.Close()
	if cerr := s.tty.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return err
}

func (s *Session) startResizeWatch() {
	s.sigCh = make(chan os.Signal, 1)
	s.sigDone = make(chan struct{})
	signal.Notify(s.sigCh, syscall.SIGWINCH)

	go func(ch <-chan os.Signal, done <-chan struct{}) {
		for {
			select {
			case <-done:
				return
			case <-ch:
				s.resized.Store(true)
				s.Wake()
			}
		}
	}(s.sigCh, s.sigDone)
}

// TakeResize reports whether a resize arrived since the last call and clears
// the flag.
func (s *Session) TakeResize() bool {
	return s.resized.Swap(false)
}

// Wake interrupts a pending ReadByteTimeout. Extra wake-ups are coalesced.
func (s *Session) Wake() {
	_, _ = s.wakeW.Write([]byte{1})
}

func (s *Session) drainWake() {
	var buf [64]byte
	for {
		n, err := s.wakeR.Read(buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// ReadByteTimeout reads one byte from the terminal. A negative d waits
// without limit. It returns ErrTimeout when d elapses, ErrInterrupted after
// Wake, and io.EOF when the terminal hung up.
func (s *Session) ReadByteTimeout(d time.Duration) (byte, error) {
	timeout := -1
	if d >= 0 {
		timeout = int(d / time.Millisecond)
		if timeout == 0 && d > 0 {
			timeout = 1
		}
	}

	fds := []unix.PollFd{
		{Fd: int32(s.fd), Events: unix.POLLIN},
		{Fd: int32(s.wakeR.Fd()), Events: unix.POLLIN},
	}
	for {
		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				if s.resized.Load() {
					return 0, ErrInterrupted
				}
				continue
			}
			return 0, fmt.Errorf("poll terminal: %w", err)
		}
		if n == 0 {
			return 0, ErrTimeout
		}
		if fds[1].Revents != 0 {
			s.drainWake()
			return 0, ErrInterrupted
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			var b [1]byte
			m, err := unix.Read(s.fd, b[:])
			if err != nil {
				if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
					continue
				}
				return 0, fmt.Errorf("read terminal: %w", err)
			}
			if m == 0 {
				return 0, io.EOF
			}
			return b[0], nil
		}
	}
}

// Geometry returns the current size. When the ioctl reports nothing usable
// the cursor position probe is tried instead.
func (s *Session) Geometry() (Geometry, error) {
	ws, err := unix.IoctlGetWinsize(s.fd, unix.TIOCGWINSZ)
	if err == nil && ws.Row > 0 && ws.Col > 0 {
		return Geometry{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
	}
	if err != nil {
		s.logger.WithError(err).Debug("winsize ioctl failed, probing cursor")
	}

	s.mu.Lock()
	raw := s.entered
	s.mu.Unlock()
	if !raw {
		return Geometry{}, ErrNoSize
	}
	return probeSize(s.screen.w, s.screen.Flush, s)
}
