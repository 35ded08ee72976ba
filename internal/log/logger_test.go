package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewLogger tests level routing between the console and the file.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("console hides debug unless verbose", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		logger := NewLogger(Options{Console: &console, NoColor: true})
		logger.Debug("hidden message")
		logger.Info("parser started")

		out := console.String()
		if strings.Contains(out, "hidden message") {
			t.Errorf("expected debug record to be filtered, got %q", out)
		}
		if !strings.Contains(out, "parser started") {
			t.Errorf("expected info record on console, got %q", out)
		}
	})

	t.Run("verbose console shows debug", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		logger := NewLogger(Options{Console: &console, Verbose: true, NoColor: true})
		logger.Debug("cache hit", "url", "https://docs.python.org/3/")

		if !strings.Contains(console.String(), "cache hit") {
			t.Errorf("expected debug record on console, got %q", console.String())
		}
	})

	t.Run("file receives debug even when console does not", func(t *testing.T) {
		t.Parallel()

		var console, file bytes.Buffer
		logger := NewLogger(Options{Console: &console, File: &file, NoColor: true})
		logger.Debug("fetching page", "url", "https://peps.python.org/pep-0008/")

		if console.Len() != 0 {
			t.Errorf("expected empty console, got %q", console.String())
		}
		if !strings.Contains(file.String(), "fetching page") {
			t.Errorf("expected record in file, got %q", file.String())
		}
		if !strings.Contains(file.String(), "url=https://peps.python.org/pep-0008/") {
			t.Errorf("expected attribute in file, got %q", file.String())
		}
	})

	t.Run("attributes added with With reach every handler", func(t *testing.T) {
		t.Parallel()

		var console, file bytes.Buffer
		logger := NewLogger(Options{Console: &console, File: &file, NoColor: true}).With("mode", "pep")
		logger.Error("status mismatch")

		for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
			if !strings.Contains(buf.String(), "mode=pep") {
				t.Errorf("expected mode attribute in %s output, got %q", name, buf.String())
			}
		}
	})
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h failingHandler) WithGroup(string) slog.Handler { return h }

// TestFanoutHandler tests that one failing handler does not block others.
func TestFanoutHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	text := slog.NewTextHandler(&buf, nil)
	h := NewFanoutHandler(failingHandler{}, nil, text)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "parser finished", 0))
	if err == nil {
		t.Error("expected joined error from failing handler")
	}
	if !strings.Contains(buf.String(), "parser finished") {
		t.Errorf("expected healthy handler to receive record, got %q", buf.String())
	}
}

// TestOpenFile tests log file creation.
func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "pydocscan.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.WriteString("line\n"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test path
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line\n" {
		t.Errorf("unexpected content %q", data)
	}
}
