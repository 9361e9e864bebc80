package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel maps a config level name to a slog level. Unknown names mean
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a JSON logger writing to a size-rotated file, along with the
// closer for that file. The terminal belongs to the TUI, so nothing goes to
// stdout. When the log directory cannot be created the logger discards.
func New(opts Options) (*slog.Logger, io.Closer) {
	if opts.Path == "" {
		return Discard(), nopCloser{}
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return Discard(), nopCloser{}
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	return NewWithWriter(w, opts.Level), w
}

func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
