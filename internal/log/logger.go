package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

// Options configures NewLogger.
type Options struct {
	// Console receives human-readable output. Typically os.Stderr.
	// When nil, no console handler is installed.
	Console io.Writer

	// Verbose lowers the console level from Info to Debug.
	Verbose bool

	// NoColor disables ANSI colors on the console.
	NoColor bool

	// File, when non-nil, receives every record at debug level as text.
	File io.Writer
}

// NewLogger creates a *slog.Logger writing to the console and, optionally, a file.
//
// Design decision: We keep the console and file handlers independent rather
// than sharing one level. The console follows --verbose, while the file
// always records debug output, so a log file is complete even for a quiet
// run. Each handler drops records below its own level.
func NewLogger(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var console slog.Handler
	if opts.Console != nil {
		console = tint.NewHandler(opts.Console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    opts.NoColor,
		})
	}

	var file slog.Handler
	if opts.File != nil {
		file = slog.NewTextHandler(opts.File, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(NewFanoutHandler(console, file))
}

// OpenFile opens path for appending log records, creating parent
// directories as needed. The caller must close the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // User-provided log path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
