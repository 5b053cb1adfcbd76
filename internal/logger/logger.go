package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// FileOptions enables rotated file output next to stdout.
type FileOptions struct {
	Path      string
	MaxSizeMB int
	MaxFiles  int
}

// New creates new Logger instance with the specified level writing to stdout.
func New(level int) *Logger {
	return newWithWriter(os.Stdout, level, nil)
}

// NewWithFile creates a Logger that writes to stdout and to a rotated file.
// An empty path behaves like New.
func NewWithFile(level int, opts FileOptions) (*Logger, error) {
	if opts.Path == "" {
		return New(level), nil
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 5
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxFiles,
	}
	return newWithWriter(io.MultiWriter(os.Stdout, file), level, file), nil
}

func newWithWriter(w io.Writer, level int, closer io.Closer) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})),
		closer: closer,
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
