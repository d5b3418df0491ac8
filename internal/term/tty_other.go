//go:build windows || plan9 || js || wasip1

package term

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Session is unavailable on this platform.
type Session struct{}

// Open always fails here.
func Open(logrus.FieldLogger) (*Session, error) { return nil, ErrNotTerminal }

func (s *Session) Screen() *Screen                             { return nil }
func (s *Session) Enter() error                                { return ErrNotTerminal }
func (s *Session) Leave() error                                { return nil }
func (s *Session) Suspend() error                              { return nil }
func (s *Session) Resume() error                               { return ErrNotTerminal }
func (s *Session) Close() error                                { return nil }
func (s *Session) TakeResize() bool                            { return false }
func (s *Session) Wake()                                       {}
func (s *Session) ReadByteTimeout(time.Duration) (byte, error) { return 0, ErrNotTerminal }
func (s *Session) Geometry() (Geometry, error)                 { return Geometry{}, ErrNoSize }
