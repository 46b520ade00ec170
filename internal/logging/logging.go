// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"chitravaani/internal/config"
)

// New creates a logger writing to stderr with the configured level and format.
func New(cfg config.LogConfig) (*slog.Logger, error) {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", cfg.Format)
	}
}

// ParseLevel maps debug, info, warn and error to slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
	return level, nil
}

// NewForUI creates a logger that never writes to the terminal, for use while a
// full-screen UI owns it. Output is appended to cfg.File, or discarded when no file
// is configured. The returned func closes the file.
func NewForUI(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.File == "" {
		if _, err := ParseLevel(cfg.Level); err != nil {
			return nil, nil, err
		}
		return Noop(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log, err := NewWithWriter(f, cfg)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, f.Close, nil
}

// Noop discards all log output.
func Noop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
