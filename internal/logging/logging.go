package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// EnvLogFile names the variable that enables logging when --log is not given.
const EnvLogFile = "CCC_LOG"

// Options selects where log records go.
type Options struct {
	Path  string
	Debug bool
}

// Setup returns a logger for opts. Without a path every record is discarded,
// since stdout and stderr belong to the terminal UI while it runs. The returned
// close function releases the log file.
func Setup(opts Options) (*logrus.Logger, func() error, error) {
	path := opts.Path
	if path == "" {
		path = os.Getenv(EnvLogFile)
	}
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := newLogger(f, opts.Debug)
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return newLogger(io.Discard, false)
}

func newLogger(out io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
